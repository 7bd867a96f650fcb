package arena

import (
	"context"
	"fmt"

	"github.com/hupe1980/tspcache/internal/mem"
)

// ScratchArena is a heap-backed bump allocator with the same contract as
// PageArena but no reservation and no guard pages.
type ScratchArena struct {
	bump
	acquirer  MemoryAcquirer
	charged   int64
	destroyed bool
}

var _ Allocator = (*ScratchArena)(nil)

// ScratchOption configures NewScratch.
type ScratchOption func(*ScratchArena)

// WithScratchAcquirer charges the backing buffer against acquirer.
func WithScratchAcquirer(acquirer MemoryAcquirer) ScratchOption {
	return func(a *ScratchArena) {
		a.acquirer = acquirer
	}
}

// NewScratch allocates a scratch arena of size bytes.
func NewScratch(size int, opts ...ScratchOption) (*ScratchArena, error) {
	return NewScratchContext(context.Background(), size, opts...)
}

// NewScratchContext is NewScratch with a context for the memory acquirer.
func NewScratchContext(ctx context.Context, size int, opts ...ScratchOption) (*ScratchArena, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}

	a := &ScratchArena{}
	for _, opt := range opts {
		opt(a)
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(ctx, int64(size)); err != nil {
			return nil, &AllocationError{Size: size, Err: err}
		}
		a.charged = int64(size)
	}

	buf, err := allocBacking(size)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(a.charged)
		}
		return nil, &AllocationError{Size: size, Err: err}
	}
	a.buf = buf
	return a, nil
}

// allocBacking converts a failed make (e.g. len out of range) into an error.
func allocBacking(size int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return mem.AllocAligned(size, int(MaxAlignment)), nil
}

// Alloc returns size bytes aligned to align. It fails with
// ErrUnsupportedAlignment or ErrOverflow without moving the cursor.
func (a *ScratchArena) Alloc(size int, align Alignment) ([]byte, error) {
	if a.destroyed {
		return nil, ErrReleased
	}
	return a.alloc(size, align)
}

// Checkpoint records the cursor as the single saved mark.
func (a *ScratchArena) Checkpoint() { a.checkpoint() }

// Restore rewinds the cursor to the saved mark (0 if none was taken).
func (a *ScratchArena) Restore() { a.restore() }

// Reset rewinds the cursor and the saved mark to zero.
func (a *ScratchArena) Reset() { a.reset() }

// Destroy drops the backing buffer. Calling it again is a no-op.
func (a *ScratchArena) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.buf = nil
	a.offset = 0
	a.previous = 0
	if a.acquirer != nil {
		a.acquirer.ReleaseMemory(a.charged)
		a.charged = 0
	}
}

// Destroyed reports whether Destroy has been called.
func (a *ScratchArena) Destroyed() bool { return a.destroyed }

// Offset returns the current cursor.
func (a *ScratchArena) Offset() int { return a.offset }

// Size returns the capacity in bytes (0 once destroyed).
func (a *ScratchArena) Size() int { return len(a.buf) }

// Remaining returns the bytes left after the cursor.
func (a *ScratchArena) Remaining() int { return len(a.buf) - a.offset }

// Stats returns usage statistics.
func (a *ScratchArena) Stats() Stats { return a.snapshot() }
