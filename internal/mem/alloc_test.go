package mem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024, 1 << 16}
	aligns := []int{1, 2, 4, 8, 16, 32, 64, 128}

	for _, align := range aligns {
		for _, size := range sizes {
			buf := AllocAligned(size, align)
			assert.Len(t, buf, size)
			assert.Equal(t, size, cap(buf))
			assert.True(t, IsAligned(buf, align), "size=%d align=%d", size, align)
		}
	}
}

func TestAllocAligned_InvalidAlignmentFallsBack(t *testing.T) {
	for _, align := range []int{0, -8, 3, 256} {
		buf := AllocAligned(32, align)
		assert.Len(t, buf, 32)
		assert.True(t, IsAligned(buf, MaxAlignment), "align=%d", align)
	}
}

func TestAllocAligned_Empty(t *testing.T) {
	assert.Nil(t, AllocAligned(0, 8))
	assert.Nil(t, AllocAligned(-1, 8))
	assert.False(t, IsAligned(nil, 8))
}

func TestAllocAligned_Zeroed(t *testing.T) {
	buf := AllocAligned(4096, 64)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zero: %d", i, b)
		}
	}
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size, MaxAlignment)
			}
		})
	}
}
