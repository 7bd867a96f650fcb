package tsplib

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when a coordinate source cannot be opened.
	ErrSourceNotFound = errors.New("tsplib: source not found")

	// ErrMalformedRecord marks a record line that was skipped.
	ErrMalformedRecord = errors.New("tsplib: malformed record")
)

// RecordError describes a skipped record.
type RecordError struct {
	Line   int    // 1-based line number in the source
	Text   string // the offending line
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("tsplib: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
