package pcf

import (
	"errors"
	"fmt"
)

var (
	ErrIO              = errors.New("pcf: i/o error")
	ErrInvalidArgument = errors.New("pcf: invalid argument")
	ErrShapeMismatch   = errors.New("pcf: shape mismatch")
	ErrCountMismatch   = errors.New("pcf: count mismatch")
	ErrNotFound        = errors.New("pcf: key not found")
	ErrMalformedRecord = errors.New("pcf: malformed record")
)

// ShapeMismatchError reports a record whose shape disagrees with the entity
// it is being loaded into.
type ShapeMismatchError struct {
	Key  string
	Want Shape // entity shape
	Got  Shape // record shape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("pcf: dimensions of %s in file (%s) do not match entity to be populated (%s)",
		e.Key, e.Got, e.Want)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// CountMismatchError reports that a full-model populate consumed a different
// number of entities than the model holds.
type CountMismatchError struct {
	Parameters           int
	LookupParameters     int
	WantParameters       int
	WantLookupParameters int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("pcf: number of parameter/lookup parameter objects loaded from file (%d/%d) did not match number to be populated (%d/%d)",
		e.Parameters, e.LookupParameters, e.WantParameters, e.WantLookupParameters)
}

func (e *CountMismatchError) Is(target error) bool { return target == ErrCountMismatch }

// RecordError reports a header or payload that failed to parse.
// Offset is the byte offset of the offending line, or -1 when unknown.
type RecordError struct {
	Offset int64
	Line   string
	Reason string
}

func (e *RecordError) Error() string {
	where := "pcf: malformed record"
	if e.Offset >= 0 {
		where = fmt.Sprintf("pcf: malformed record at offset %d", e.Offset)
	}
	if e.Line == "" {
		return where + ": " + e.Reason
	}
	return fmt.Sprintf("%s: %s: %q", where, e.Reason, truncate(e.Line, 120))
}

func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFound(key string) error {
	return fmt.Errorf("%w: could not find key %s in the model file", ErrNotFound, key)
}
