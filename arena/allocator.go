package arena

import (
	"math"
	"unsafe"
)

// Allocator is the contract shared by PageArena and ScratchArena.
type Allocator interface {
	// Alloc returns size bytes whose first byte is aligned to align.
	Alloc(size int, align Alignment) ([]byte, error)
	// Checkpoint saves the cursor as the single restore mark.
	Checkpoint()
	// Restore rewinds the cursor to the saved mark.
	Restore()
	// Reset rewinds the cursor and the mark to zero.
	Reset()
	// Offset returns the current cursor.
	Offset() int
	// Size returns the capacity in bytes.
	Size() int
	// Remaining returns Size() - Offset().
	Remaining() int
}

// Stats tracks allocator usage.
type Stats struct {
	Size     int // capacity in bytes
	Offset   int // current cursor
	Peak     int // highest cursor observed
	Allocs   int // successful Alloc calls
	Padding  int // bytes skipped for alignment
	Failures int // Alloc calls that returned an error
}

// bump is the cursor logic shared by both arena kinds.
type bump struct {
	buf      []byte
	offset   int
	previous int
	stats    Stats
}

func (b *bump) alloc(size int, align Alignment) ([]byte, error) {
	if !align.Valid() {
		b.stats.Failures++
		return nil, &AlignmentError{Alignment: align}
	}
	if size < 0 {
		b.stats.Failures++
		return nil, ErrInvalidSize
	}

	pad := Pad(b.offset, align)
	start := b.offset + pad
	if start > len(b.buf) || len(b.buf)-start < size {
		b.stats.Failures++
		return nil, &OverflowError{
			Requested: size,
			Padding:   pad,
			Remaining: len(b.buf) - b.offset,
		}
	}

	end := start + size
	b.offset = end
	b.stats.Allocs++
	b.stats.Padding += pad
	if end > b.stats.Peak {
		b.stats.Peak = end
	}
	return b.buf[start:end:end], nil
}

func (b *bump) checkpoint() { b.previous = b.offset }

func (b *bump) restore() { b.offset = b.previous }

func (b *bump) reset() {
	b.offset = 0
	b.previous = 0
}

func (b *bump) snapshot() Stats {
	s := b.stats
	s.Size = len(b.buf)
	s.Offset = b.offset
	return s
}

// AllocSlice allocates a zeroed []T of length n from a.
//
// T must not contain Go pointers: arena memory is either outside the Go heap
// or a plain byte buffer, and the garbage collector does not scan it.
// The alignment is raised to T's natural alignment when smaller.
func AllocSlice[T any](a Allocator, n int, align Alignment) ([]T, error) {
	if n < 0 {
		return nil, ErrInvalidSize
	}

	var zero T
	elem := int(unsafe.Sizeof(zero))
	if natural := Alignment(unsafe.Alignof(zero)); natural > align && natural.Valid() {
		align = natural
	}
	if elem > 0 && n > math.MaxInt/elem {
		return nil, &OverflowError{Requested: math.MaxInt, Remaining: a.Remaining()}
	}

	b, err := a.Alloc(n*elem, align)
	if err != nil {
		return nil, err
	}

	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n) //nolint:gosec // unsafe is required for arena implementation
	clear(s)
	return s, nil
}
