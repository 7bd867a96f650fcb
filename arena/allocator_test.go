package arena

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y float64
}

func TestAllocSlice(t *testing.T) {
	allocators := map[string]func(t *testing.T) Allocator{
		"scratch": func(t *testing.T) Allocator { return newScratch(t, 4096) },
		"page":    func(t *testing.T) Allocator { return newPageArena(t, 4096) },
	}

	for name, newAllocator := range allocators {
		t.Run(name, func(t *testing.T) {
			a := newAllocator(t)

			_, err := a.Alloc(3, Align1)
			require.NoError(t, err)

			// Align1 is raised to the element's natural alignment.
			pts, err := AllocSlice[point](a, 10, Align1)
			require.NoError(t, err)
			require.Len(t, pts, 10)
			assert.Zero(t, uintptr(unsafe.Pointer(&pts[0]))%unsafe.Alignof(point{}))
			assert.Equal(t, 8+10*16, a.Offset())

			for i := range pts {
				assert.Equal(t, point{}, pts[i])
				pts[i] = point{X: float64(i), Y: -float64(i)}
			}

			u, err := AllocSlice[uint32](a, 4, Align64)
			require.NoError(t, err)
			assert.Zero(t, uintptr(unsafe.Pointer(&u[0]))%64)
			assert.Equal(t, point{X: 9, Y: -9}, pts[9], "later allocation must not clobber earlier one")
		})
	}
}

func TestAllocSlice_ClearsReusedMemory(t *testing.T) {
	a := newScratch(t, 256)

	a.Checkpoint()
	first, err := AllocSlice[uint64](a, 8, Align8)
	require.NoError(t, err)
	for i := range first {
		first[i] = math.MaxUint64
	}
	a.Restore()

	second, err := AllocSlice[uint64](a, 8, Align8)
	require.NoError(t, err)
	assert.Equal(t, make([]uint64, 8), second)
}

func TestAllocSlice_Errors(t *testing.T) {
	a := newScratch(t, 64)

	_, err := AllocSlice[float32](a, -1, Align4)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = AllocSlice[float32](a, 17, Align4)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = AllocSlice[uint64](a, math.MaxInt/4, Align8)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 0, a.Offset())

	empty, err := AllocSlice[float32](a, 0, Align4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
