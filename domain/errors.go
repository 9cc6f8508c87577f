package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCursorClosed is returned by [Cursor] methods called after
	// [Cursor.Close].
	ErrCursorClosed = errors.New("cursor is closed")
	// ErrScanBeforeNext is returned by [Cursor.Scan] when called before a
	// successful [Cursor.Next].
	ErrScanBeforeNext = errors.New("called Scan before calling Next")
	// ErrNonPointer is returned by [Decoder.Decode] when the target is not
	// a pointer.
	ErrNonPointer = errors.New("target must be a pointer")
	// ErrNotFound is returned by [GEDB.FindOne] when no document matches
	// the query.
	ErrNotFound = errors.New("no document found matching query")
)

// ErrDecode wraps a decoding error from the underlying [Decoder]
// implementation.
type ErrDecode struct {
	Cause error
}

func (e ErrDecode) Error() string { return fmt.Sprintf("decode error: %v", e.Cause) }

func (e ErrDecode) Unwrap() error { return e.Cause }

// ErrTargetNil is returned when the passed target, which should be a pointer,
// is passed as a nil value.
type ErrTargetNil struct{}

func (e *ErrTargetNil) Error() string { return "target interface is nil" }

type ErrBufferReset struct{}

func (e ErrBufferReset) Error() string { return "executor buffer was reset" }

type ErrCorruptFiles struct {
	CorruptionRate        float64
	CorruptItems          int
	DataLength            int
	CorruptAlertThreshold float64
}

func (e ErrCorruptFiles) Error() string {
	return fmt.Sprintf("corrupted %.2f%% (%d of %d) exceeded threshold %.2f%%",
		100*e.CorruptionRate, e.CorruptItems, e.DataLength, 100*e.CorruptAlertThreshold)
}

type ErrFlushToStorage struct {
	ErrorOnFsync error
	ErrorOnClose error
}

func (e ErrFlushToStorage) Error() string {
	var err error
	if e.ErrorOnFsync != nil {
		err = e.ErrorOnFsync
	} else {
		err = e.ErrorOnClose
	}
	return fmt.Sprint("storage flush error:", err.Error())
}

// ErrInvalidField is returned when a document key begins with "$" outside
// the allowed escape forms, or contains ".".
type ErrInvalidField struct {
	Field string
}

func (e ErrInvalidField) Error() string {
	return fmt.Sprintf("invalid field name: %q", e.Field)
}

// ErrInvalidQuery is returned for an unknown operator, a malformed operand,
// or a field expression mixing operator keys with plain keys.
type ErrInvalidQuery struct {
	Reason string
}

func (e ErrInvalidQuery) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// ErrInvalidUpdate is returned for a malformed modifier shape, an unknown
// modifier, a type mismatch against the modifier's expected operand, or an
// attempt to change _id.
type ErrInvalidUpdate struct {
	Reason string
}

func (e ErrInvalidUpdate) Error() string {
	return fmt.Sprintf("invalid update: %s", e.Reason)
}

// ErrInvalidProjection is returned when a projection mixes include (1) and
// exclude (0) modes on fields other than _id.
type ErrInvalidProjection struct {
	Reason string
}

func (e ErrInvalidProjection) Error() string {
	return fmt.Sprintf("invalid projection: %s", e.Reason)
}

// ErrUniqueViolated is returned when an insert or update would create a
// duplicate key in a unique index.
type ErrUniqueViolated struct {
	Key       any
	IndexName string
}

func (e ErrUniqueViolated) Error() string {
	return fmt.Sprintf("unique constraint violated on index %q for key %v", e.IndexName, e.Key)
}

// ErrMalformedLine is returned when a single log line cannot be decoded
// during load. Counted against corruptAlertThreshold, not fatal on its own.
type ErrMalformedLine struct {
	Line  string
	Cause error
}

func (e ErrMalformedLine) Error() string {
	return fmt.Sprintf("malformed log line: %v", e.Cause)
}

func (e ErrMalformedLine) Unwrap() error { return e.Cause }

// ErrLoadCorrupted is returned when the corrupted-line fraction during load
// exceeds corruptAlertThreshold. The datastore refuses to accept operations.
type ErrLoadCorrupted struct {
	ErrCorruptFiles
}

// ErrIoError wraps an underlying filesystem error, passed through unmodified
// in substance but typed so callers can discriminate on the kind.
type ErrIoError struct {
	Cause error
}

func (e ErrIoError) Error() string { return fmt.Sprintf("io error: %v", e.Cause) }

func (e ErrIoError) Unwrap() error { return e.Cause }

// ErrTypeMismatch indicates two values are not mutually comparable by the
// total order in the comparator. Comparison operators report this as a
// false match rather than propagating it; it is exposed for callers of
// [Comparer.Comparable] that want the explicit reason.
type ErrTypeMismatch struct {
	A, B any
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("cannot compare %T and %T", e.A, e.B)
}

// ErrCannotModifyID is returned when an update attempts to change the _id
// of an existing document.
type ErrCannotModifyID struct{}

func (e ErrCannotModifyID) Error() string { return "cannot modify _id of existing document" }
