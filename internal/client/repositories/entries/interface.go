// Package entries defines the remote dive entry repository contract and
// its Firestore implementation.
package entries

import (
	"context"
	"errors"

	"github.com/orcadive/divelog/internal/client/models"
)

var (
	// ErrUnauthenticated: the repository rejected the request because no
	// valid credential accompanied it.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied: access rules rejected the request (e.g. writing
	// another user's record without the administrator role).
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnavailable: transient network/backend failure; the same request
	// may succeed on retry.
	ErrUnavailable = errors.New("repository unavailable")
	// ErrNotFound: no record with the given id.
	ErrNotFound = errors.New("not found")
)

// Scope selects which records a subscription or query delivers: a single
// owner's records, or every record (administrator view).
type Scope struct {
	UserID string
	All    bool
}

// WriteStamp carries the authoritative timestamps the repository assigned
// to a confirmed write, already normalized to the entry string shape.
type WriteStamp struct {
	CreatedAt string
	UpdatedAt string
}

// Repository is the remote document store holding dive entries.
//
// Subscribe establishes a standing query that pushes the full current
// result set (never a diff) on every matching change, including the
// caller's own writes. The returned function tears the subscription down;
// after it returns no further callbacks fire.
type Repository interface {
	Create(ctx context.Context, e *models.DiveEntry) (WriteStamp, error)
	Update(ctx context.Context, e *models.DiveEntry) (WriteStamp, error)
	Delete(ctx context.Context, id string) error
	QueryOwn(ctx context.Context, userID string) ([]*models.DiveEntry, error)
	QueryAll(ctx context.Context) ([]*models.DiveEntry, error)
	Subscribe(ctx context.Context, scope Scope, onSnapshot func([]*models.DiveEntry), onError func(error)) (func(), error)
}
