package mem

import (
	"math/bits"
	"unsafe"
)

// MaxAlignment is the largest supported alignment (two cache lines).
const MaxAlignment = 128

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte is aligned to align. align must be a power of two no larger than
// MaxAlignment; other values fall back to MaxAlignment.
//
// The slice over-allocates by align bytes and re-slices to the first aligned
// address. The underlying array is kept alive by the returned slice.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 || align > MaxAlignment || bits.OnesCount(uint(align)) != 1 {
		align = MaxAlignment
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	mask := uintptr(align - 1)
	offset := (uintptr(align) - (addr & mask)) & mask

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether the first byte of b sits on an align boundary.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0 //nolint:gosec // unsafe is required for memory alignment
}
