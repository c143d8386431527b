package tdb

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Kind enumerates the store's failure conditions (spec.md §4.1).
type Kind int

const (
	KeyExists Kind = iota
	NotFound
	Corrupted
	MapFull
	ReadersFull
	BadTxn
	Incompatible
	IO
)

func (k Kind) String() string {
	switch k {
	case KeyExists:
		return "KeyExists"
	case NotFound:
		return "NotFound"
	case Corrupted:
		return "Corrupted"
	case MapFull:
		return "MapFull"
	case ReadersFull:
		return "ReadersFull"
	case BadTxn:
		return "BadTxn"
	case Incompatible:
		return "Incompatible"
	default:
		return "IO"
	}
}

// Error is the typed error every tdb operation other than a plain
// not-found Get returns.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tdb: %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("tdb: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// wrapBoltErr maps a bbolt/os-level error onto our Kind enum.
func wrapBoltErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, bolt.ErrBucketExists):
		return newErr(KeyExists, err)
	case errors.Is(err, bolt.ErrBucketNotFound):
		return newErr(NotFound, err)
	case errors.Is(err, bolt.ErrDatabaseNotOpen), errors.Is(err, bolt.ErrTxClosed),
		errors.Is(err, bolt.ErrTxNotWritable):
		return newErr(BadTxn, err)
	case errors.Is(err, bolt.ErrDatabaseOpen), errors.Is(err, bolt.ErrInvalid),
		errors.Is(err, bolt.ErrChecksum), errors.Is(err, bolt.ErrVersionMismatch):
		return newErr(Corrupted, err)
	default:
		return newErr(IO, err)
	}
}

// KindOf extracts the Kind carried by err, defaulting to IO.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IO
}
