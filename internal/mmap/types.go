package mmap

import "errors"

// AccessPattern provides hints to the kernel about how the data will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

// Protection is the access right granted to a range of pages.
type Protection int

const (
	// ProtNone forbids every access. Touching the page faults.
	ProtNone Protection = iota
	// ProtRead allows reads only.
	ProtRead
	// ProtReadWrite allows reads and writes.
	ProtReadWrite
)

func (p Protection) String() string {
	switch p {
	case ProtNone:
		return "none"
	case ProtRead:
		return "read"
	case ProtReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for a zero, negative or unaligned mapping size.
	ErrInvalidSize = errors.New("mmap: invalid size")
	// ErrOutOfBounds is returned when a range falls outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
	// ErrInvalidOffset is returned when the offset is negative.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
	// ErrUnaligned is returned when a protection range does not start on a page boundary.
	ErrUnaligned = errors.New("mmap: range is not page aligned")
	// ErrNotAnonymous is returned when protecting a file-backed mapping.
	ErrNotAnonymous = errors.New("mmap: protection change on file mapping")
)
