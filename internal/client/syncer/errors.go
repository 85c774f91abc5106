package syncer

import (
	"errors"

	"github.com/orcadive/divelog/internal/client/repositories/entries"
)

var (
	// ErrUnauthenticated: no resolved identity; all write and subscribe
	// operations refuse with this before identity resolves.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrPermissionDenied: the caller may not touch the target record.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrValidation: locally detected malformed input, never sent to the
	// repository.
	ErrValidation = errors.New("validation failed")
)

// ErrorKind is the small failure taxonomy surfaced to the presentation
// layer.
type ErrorKind string

const (
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindUnavailable      ErrorKind = "unavailable"
	KindValidation       ErrorKind = "validation"
	KindUnknown          ErrorKind = "unknown"
)

// ErrorInfo is the last surfaced failure. It persists until the next
// operation attempt (success or failure) replaces it.
type ErrorInfo struct {
	Kind    ErrorKind
	Op      string
	Message string
}

// classify maps an operation failure onto the taxonomy. Repository
// sentinels are matched with errors.Is so wrapped causes still classify.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, entries.ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, entries.ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, entries.ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindUnknown
	}
}
