// Package cache persists a per-user copy of the dive entry set so the
// journal still has data to show before the first live snapshot arrives
// (and across offline restarts). Rows are keyed by owning user, so one
// user's cache never leaks into another's session.
package cache

import (
	"context"

	"github.com/orcadive/divelog/internal/client/models"
)

type Repository interface {
	// Load returns the cached entry set for a user.
	Load(ctx context.Context, userID string) ([]*models.DiveEntry, error)
	// ReplaceUser atomically replaces the user's cached set.
	ReplaceUser(ctx context.Context, userID string, entries []*models.DiveEntry) error
	// Upsert stores or refreshes one cached entry.
	Upsert(ctx context.Context, userID string, e *models.DiveEntry) error
	// Delete removes one cached entry. Missing rows are not an error.
	Delete(ctx context.Context, userID string, id string) error
	// ClearUser removes every cached entry belonging to the user.
	ClearUser(ctx context.Context, userID string) error
}
