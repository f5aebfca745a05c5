package shred

import (
	"errors"
	"io/fs"
)

// Sentinel errors for the erase failure taxonomy
var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrIO               = errors.New("i/o failure")

	// ErrPartialErase means the overwrite passes completed but the
	// directory entry could not be removed: content is destroyed while
	// the path remains visible. Callers must treat this as more urgent
	// than a plain i/o failure.
	ErrPartialErase = errors.New("content destroyed but file entry remains")
)

// FailureKind categorizes a failed erase for callers that dispatch on
// outcome rather than unwrapping errors
type FailureKind int

const (
	FailNone FailureKind = iota
	FailNotFound
	FailPermissionDenied
	FailInvalidArgument
	FailIO
	FailPartialErase
)

// String returns a short name for the failure kind
func (k FailureKind) String() string {
	switch k {
	case FailNone:
		return "none"
	case FailNotFound:
		return "not-found"
	case FailPermissionDenied:
		return "permission-denied"
	case FailInvalidArgument:
		return "invalid-argument"
	case FailIO:
		return "io-error"
	case FailPartialErase:
		return "partial-erase"
	default:
		return "unknown"
	}
}

// classify maps an error to its failure kind
func classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailNone
	case errors.Is(err, ErrPartialErase):
		return FailPartialErase
	case errors.Is(err, ErrInvalidArgument):
		return FailInvalidArgument
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return FailNotFound
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return FailPermissionDenied
	default:
		return FailIO
	}
}
