package extract

import (
	"errors"
	"fmt"
)

// Sentinel errors for source files.
var (
	// ErrUnsupportedExtension indicates a file extension without an extractor.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrRingAngle indicates a ring orbit declaring its own angle in a logic program.
	ErrRingAngle = errors.New("orbit parameters specify an angle, but the object is a ring")
	// ErrMissingField indicates a required field is absent from a record.
	ErrMissingField = errors.New("required field missing")
)

// SourceError locates a failure within a source file.
type SourceError struct {
	Path   string
	Record int // index of the record within the file, from 0
	Err    error
}

// Error returns the file and record context followed by the cause.
func (e *SourceError) Error() string {
	if e.Record < 0 {
		return e.Path + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: record %d: %s", e.Path, e.Record, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *SourceError) Unwrap() error {
	return e.Err
}
