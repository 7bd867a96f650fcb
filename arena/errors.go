package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned for zero or negative sizes.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrReservationFailure is returned when the OS declines to map memory.
	ErrReservationFailure = errors.New("arena: reservation failed")
	// ErrUnsupportedAlignment is returned for alignments outside {1,2,4,...,128}.
	ErrUnsupportedAlignment = errors.New("arena: unsupported alignment")
	// ErrOverflow is returned when an allocation would exceed the arena capacity.
	ErrOverflow = errors.New("arena: overflow")
	// ErrExhausted is returned when a reservation has no room for another arena.
	ErrExhausted = errors.New("arena: reservation exhausted")
	// ErrAllocation is returned when the backing heap allocation cannot be obtained.
	ErrAllocation = errors.New("arena: allocation failed")
	// ErrReleased is returned when using a released reservation or destroyed arena.
	ErrReleased = errors.New("arena: use after release")
)

// ReservationError describes a failed Reserve call.
// It matches both ErrReservationFailure and the underlying cause.
type ReservationError struct {
	Requested int
	Err       error
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("arena: reserve %d bytes: %v", e.Requested, e.Err)
}

func (e *ReservationError) Unwrap() []error {
	return []error{ErrReservationFailure, e.Err}
}

// AlignmentError reports an alignment outside the supported set.
type AlignmentError struct {
	Alignment Alignment
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("arena: unsupported alignment %d", uint(e.Alignment))
}

func (e *AlignmentError) Unwrap() error { return ErrUnsupportedAlignment }

// OverflowError reports an allocation that does not fit.
type OverflowError struct {
	Requested int
	Padding   int
	Remaining int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("arena: overflow: requested %d bytes (+%d padding), %d remaining",
		e.Requested, e.Padding, e.Remaining)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// AllocationError reports a heap allocation that could not be obtained.
type AllocationError struct {
	Size int
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("arena: allocate %d bytes: %v", e.Size, e.Err)
}

func (e *AllocationError) Unwrap() []error {
	return []error{ErrAllocation, e.Err}
}
