// Package dberr provides the typed error taxonomy returned by every
// collection and database operation.
package dberr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a database error. Callers that need to
// branch on failure type should use errors.As against *Error and switch on
// Kind rather than matching error strings.
type Kind int

const (
	// NotFound means a collection or value was not present.
	NotFound Kind = iota
	// AlreadyExists means a duplicate collection name, value, or signature.
	AlreadyExists
	// DimensionMismatch means a vector's length did not match the collection's dim.
	DimensionMismatch
	// InvalidMetric means an unknown metric identifier was supplied.
	InvalidMetric
	// InvalidArgument means malformed input: bad k, bad alpha, filter+hnsw, etc.
	InvalidArgument
	// LengthMismatch means standalone distance helpers received unequal-length inputs.
	LengthMismatch
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case AlreadyExists:
		return "already_exists"
	case DimensionMismatch:
		return "dimension_mismatch"
	case InvalidMetric:
		return "invalid_metric"
	case InvalidArgument:
		return "invalid_argument"
	case LengthMismatch:
		return "length_mismatch"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this module's public API.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is allows errors.Is(err, dberr.ErrNotFound) style checks: any *Error
// target matches when its Kind equals e's Kind, whatever its message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// sentinel returns a zero-message *Error of kind k, suitable as an
// errors.Is target: errors.Is(err, dberr.ErrNotFound).
func sentinel(k Kind) *Error { return &Error{Kind: k} }

// Sentinels for errors.Is comparisons against any Error of the same Kind.
var (
	ErrNotFound          = sentinel(NotFound)
	ErrAlreadyExists     = sentinel(AlreadyExists)
	ErrDimensionMismatch = sentinel(DimensionMismatch)
	ErrInvalidMetric     = sentinel(InvalidMetric)
	ErrInvalidArgument   = sentinel(InvalidArgument)
	ErrLengthMismatch    = sentinel(LengthMismatch)
)

// KindOf extracts the Kind of err, ok=false if err is not a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
