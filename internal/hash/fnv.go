package hash

const (
	// OffsetBasis is the 64-bit FNV offset basis.
	OffsetBasis uint64 = 14695981039346656037
	// Prime is the 64-bit FNV prime.
	Prime uint64 = 1099511628211
)

// FNV1a computes the 64-bit FNV-1a digest of data.
func FNV1a(data []byte) uint64 {
	h := OffsetBasis
	for _, b := range data {
		h ^= uint64(b)
		h *= Prime
	}
	return h
}

// FNV1aUint32s computes the 64-bit FNV-1a digest of vals, feeding each value
// as four little-endian bytes. The digest equals FNV1a over the values'
// little-endian encoding.
func FNV1aUint32s(vals []uint32) uint64 {
	h := OffsetBasis
	for _, v := range vals {
		h ^= uint64(v & 0xFF)
		h *= Prime
		h ^= uint64(v >> 8 & 0xFF)
		h *= Prime
		h ^= uint64(v >> 16 & 0xFF)
		h *= Prime
		h ^= uint64(v >> 24)
		h *= Prime
	}
	return h
}
