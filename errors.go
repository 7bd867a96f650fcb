package tspcache

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tspcache/arena"
	"github.com/hupe1980/tspcache/cache"
	"github.com/hupe1980/tspcache/distance"
	"github.com/hupe1980/tspcache/tsplib"
)

var (
	// ErrInvalidSize is returned for zero or otherwise illegal sizes.
	ErrInvalidSize = errors.New("invalid size")

	// ErrReservationFailure is returned when the OS (or the memory budget)
	// declines a reservation.
	ErrReservationFailure = errors.New("reservation failed")

	// ErrUnsupportedAlignment is returned for alignments that are not a
	// supported power of two.
	ErrUnsupportedAlignment = errors.New("unsupported alignment")

	// ErrOverflow is returned when data does not fit its arena or reservation.
	ErrOverflow = errors.New("overflow")

	// ErrSourceNotFound is returned when a coordinate source cannot be opened.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMalformedRecord marks a skipped coordinate record.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrCacheFull is returned when the fragment cache has no free slot within
	// its probe limit.
	ErrCacheFull = errors.New("cache full")

	// ErrNotFound is returned when a fragment is not cached.
	ErrNotFound = errors.New("not found")

	// ErrNotLoaded is returned when evaluating before a coordinate set is loaded.
	ErrNotLoaded = errors.New("no coordinates loaded")

	// ErrIndexOutOfRange is returned for a city index outside the loaded set.
	ErrIndexOutOfRange = errors.New("city index out of range")

	// ErrClosed is returned when using a closed Context.
	ErrClosed = errors.New("context closed")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Size errors first: a rejected reservation size is also a reservation
	// failure.
	if errors.Is(err, arena.ErrInvalidSize) {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if errors.Is(err, arena.ErrReservationFailure) {
		return fmt.Errorf("%w: %w", ErrReservationFailure, err)
	}
	if errors.Is(err, arena.ErrUnsupportedAlignment) {
		return fmt.Errorf("%w: %w", ErrUnsupportedAlignment, err)
	}
	if errors.Is(err, arena.ErrOverflow) ||
		errors.Is(err, arena.ErrExhausted) ||
		errors.Is(err, distance.ErrTooManyCities) {
		return fmt.Errorf("%w: %w", ErrOverflow, err)
	}
	if errors.Is(err, arena.ErrReleased) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	if errors.Is(err, tsplib.ErrSourceNotFound) {
		return fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	if errors.Is(err, tsplib.ErrMalformedRecord) {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if errors.Is(err, cache.ErrFull) {
		return fmt.Errorf("%w: %w", ErrCacheFull, err)
	}
	if errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, cache.ErrInvalidCapacity) {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	if errors.Is(err, distance.ErrIndexOutOfRange) {
		return fmt.Errorf("%w: %w", ErrIndexOutOfRange, err)
	}

	return err
}
