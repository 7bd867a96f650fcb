package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageArena(t *testing.T, size int) *PageArena {
	t.Helper()
	r := newReservation(t, testReservationSize)
	a, err := r.NewArena(size)
	require.NoError(t, err)
	t.Cleanup(a.Destroy)
	return a
}

func TestPageArena_Alloc(t *testing.T) {
	a := newPageArena(t, 8192)

	type span struct{ lo, hi uintptr }
	var spans []span
	aligns := []Alignment{Align8, Align1, Align128, Align4, Align64, Align2, Align16, Align32}
	for i, align := range aligns {
		size := 1 + i*13
		b, err := a.Alloc(size, align)
		require.NoError(t, err)

		lo := uintptr(unsafe.Pointer(&b[0]))
		assert.Zero(t, lo%uintptr(align))
		spans = append(spans, span{lo, lo + uintptr(size)})

		// Write the whole range to prove it is mapped read/write.
		for j := range b {
			b[j] = byte(i)
		}
	}

	for i := 1; i < len(spans); i++ {
		assert.GreaterOrEqual(t, spans[i].lo, spans[i-1].hi, "allocation %d overlaps %d", i, i-1)
	}
}

func TestPageArena_OverflowAndAlignment(t *testing.T) {
	a := newPageArena(t, 100)

	_, err := a.Alloc(90, Align8)
	require.NoError(t, err)

	_, err = a.Alloc(11, Align1)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 90, a.Offset())

	_, err = a.Alloc(1, Alignment(48))
	assert.ErrorIs(t, err, ErrUnsupportedAlignment)
	assert.Equal(t, 90, a.Offset())

	b, err := a.Alloc(10, Align1)
	require.NoError(t, err)
	assert.Len(t, b, 10)
	assert.Equal(t, 0, a.Remaining())
}

func TestPageArena_CheckpointRestore(t *testing.T) {
	a := newPageArena(t, 4096)

	a.Restore()
	assert.Equal(t, 0, a.Offset(), "restore with no checkpoint")

	_, err := a.Alloc(33, Align1)
	require.NoError(t, err)
	a.Checkpoint()

	for i := 0; i < 10; i++ {
		_, err := a.Alloc(40, Align16)
		require.NoError(t, err)
	}
	a.Restore()
	assert.Equal(t, 33, a.Offset())

	a.Reset()
	assert.Equal(t, 0, a.Offset())
}

func TestPageArena_Destroy(t *testing.T) {
	r := newReservation(t, testReservationSize)
	a, err := r.NewArena(4096)
	require.NoError(t, err)

	a.Destroy()
	assert.True(t, a.Destroyed())
	assert.Equal(t, 0, r.LiveArenas())

	_, err = a.Alloc(1, Align1)
	assert.ErrorIs(t, err, ErrReleased)

	// No-ops on a destroyed arena.
	a.Checkpoint()
	a.Restore()
	a.Reset()
	assert.Equal(t, 0, a.Offset())
	assert.Equal(t, 0, a.Size())
}

func TestPageArena_Stats(t *testing.T) {
	a := newPageArena(t, 256)

	_, _ = a.Alloc(1, Align1)
	_, _ = a.Alloc(8, Align8)
	_, _ = a.Alloc(1024, Align8)

	st := a.Stats()
	assert.Equal(t, 256, st.Size)
	assert.Equal(t, 16, st.Offset)
	assert.Equal(t, 16, st.Peak)
	assert.Equal(t, 2, st.Allocs)
	assert.Equal(t, 7, st.Padding)
	assert.Equal(t, 1, st.Failures)
}
