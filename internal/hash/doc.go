// Package hash provides the FNV-1a digest used to index the fragment cache.
//
// # FNV-1a (64-bit)
//
// For every input byte the digest is XORed with the byte and then multiplied
// by the FNV prime:
//
//	h := OffsetBasis
//	for _, b := range data {
//		h ^= uint64(b)
//		h *= Prime
//	}
//
// The result is order-sensitive: a sequence and its reverse hash differently.
//
// # Usage
//
// For byte slices:
//
//	h := hash.FNV1a(data)
//
// For city-index paths, each index contributes its four little-endian bytes:
//
//	h := hash.FNV1aUint32s([]uint32{0, 1, 2})
//
// Neither function allocates. The hash/fnv package computes the same digest
// and is used as the reference in tests.
package hash
