/*
Package werr defines the closed set of error kinds warden surfaces at
its core boundary (spec.md §7), plus a small *Error type that carries
one of them. Everywhere else in the codebase, plain fmt.Errorf("%w")
wrapping is used, the way the teacher repo does — this package exists
only for the error kinds spec.md requires the RPC layer and the
callers of the commit path to be able to distinguish.
*/
package werr

import "fmt"

// Kind is one of the error kinds spec.md §7 names.
type Kind string

const (
	ConfigInvalid         Kind = "ConfigInvalid"
	NotFound              Kind = "NotFound"
	PermissionDenied      Kind = "PermissionDenied"
	InvalidTransition     Kind = "InvalidTransition"
	Unauthenticated       Kind = "Unauthenticated"
	MechanismUnavailable  Kind = "MechanismUnavailable"
	DatabaseCorrupted     Kind = "DatabaseCorrupted"
	DatabaseFull          Kind = "DatabaseFull"
	Incompatible          Kind = "Incompatible"
	IoFailure             Kind = "IoFailure"
	ProtocolViolation     Kind = "ProtocolViolation"
)

// Error pairs a Kind with an operator-facing message and an optional
// underlying cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf extracts the Kind carried by err, if any, defaulting to
// IoFailure for unrecognized errors (the teacher's FSM maps internal
// serializer/lock failures the same conservative way).
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return IoFailure
}

// As is a thin wrapper around errors.As kept local so callers don't
// need a second import just to unwrap a *werr.Error.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
