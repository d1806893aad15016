package agency

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal error.
type Kind int

const (
	// KindConfigMismatch means the feed contains a record this agency does not recognize.
	KindConfigMismatch Kind = iota + 1
	// KindUnexpectedMerge means two headsigns were found for one route direction.
	KindUnexpectedMerge
	// KindMalformedNumber means a field that must be numeric is not.
	KindMalformedNumber
	// KindUnexpectedTrip means a trip belongs to an unknown route or direction.
	KindUnexpectedTrip
)

func (k Kind) String() string {
	switch k {
	case KindConfigMismatch:
		return "config mismatch"
	case KindUnexpectedMerge:
		return "unexpected merge"
	case KindMalformedNumber:
		return "malformed number"
	case KindUnexpectedTrip:
		return "unexpected trip"
	default:
		return "unknown"
	}
}

// FatalError aborts the whole run. It is never recovered inside the pipeline.
type FatalError struct {
	Kind Kind
	// Record is the raw or normalized record that triggered the error.
	Record any
	Err    error
}

func (e *FatalError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Kind, e.Err, e.Record)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatalf builds a FatalError with a formatted cause.
func Fatalf(kind Kind, record any, format string, args ...any) *FatalError {
	return &FatalError{Kind: kind, Record: record, Err: fmt.Errorf(format, args...)}
}

// IsFatal reports whether err is, or wraps, a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// KindOf returns the kind of the FatalError in err, or 0 if there is none.
func KindOf(err error) Kind {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal.Kind
	}
	return 0
}
