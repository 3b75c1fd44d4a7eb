package tempora

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the error taxonomy of the temporal algebra engine.
type Kind int

const (
	// KindOutOfRange reports that an arithmetic or construction result
	// would fall outside the declared range of its type.
	KindOutOfRange Kind = iota + 1
	// KindInvalidFormat reports a textual parsing failure.
	KindInvalidFormat
	// KindMixedSign reports that delta components disagree in sign.
	KindMixedSign
	// KindInvalidOffset reports that a claimed offset contradicts the
	// zone at the instant in question.
	KindInvalidOffset
	// KindSkippedTime reports a wall-clock time that falls in a DST gap
	// under Disambiguate=Raise.
	KindSkippedTime
	// KindRepeatedTime reports a wall-clock time that falls in a DST
	// fold under Disambiguate=Raise.
	KindRepeatedTime
	// KindImplicitlyIgnoringDST reports a lossy naive-type operation
	// that would silently change meaning across a DST transition unless
	// the caller opts in.
	KindImplicitlyIgnoringDST
	// KindTimeZoneNotFound reports that a zone key could not be
	// resolved to any TZif data.
	KindTimeZoneNotFound
)

func (k Kind) String() string {
	switch k {
	case KindOutOfRange:
		return "out of range"
	case KindInvalidFormat:
		return "invalid format"
	case KindMixedSign:
		return "mixed sign"
	case KindInvalidOffset:
		return "invalid offset"
	case KindSkippedTime:
		return "skipped time"
	case KindRepeatedTime:
		return "repeated time"
	case KindImplicitlyIgnoringDST:
		return "implicitly ignoring DST"
	case KindTimeZoneNotFound:
		return "time zone not found"
	default:
		return fmt.Sprintf("unknown error kind (%d)", int(k))
	}
}

// Error is the error type raised at every exported boundary of this
// module. Internal helpers use plain (value, ok) returns; wrapping into
// Error (and attaching a stack trace) happens once, at the point where
// the result crosses into caller-visible API.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// Kind returns the taxonomy classification of err.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.msg
}

func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, msg string) error {
	return errors.WithStack(&Error{kind: kind, msg: msg})
}

func newErrorf(kind Kind, format string, args ...any) error {
	return errors.WithStack(&Error{kind: kind, msg: fmt.Sprintf(format, args...)})
}

// IsKind reports whether err (or something it wraps) is a *Error of the
// given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind == kind
}
