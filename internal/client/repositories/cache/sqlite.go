package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/orcadive/divelog/internal/client/models"
	"github.com/orcadive/divelog/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). Entries are stored as JSON blobs; the cache never needs to
// query inside the payload.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, userID string) ([]*models.DiveEntry, error) {
	query := `SELECT data FROM cached_entries WHERE user_id = ? ORDER BY created_at DESC, entry_id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cached entries: %w", err)
	}
	defer rows.Close()

	var out []*models.DiveEntry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		e := &models.DiveEntry{}
		if err := json.Unmarshal(data, e); err != nil {
			// A corrupt row must not poison the whole load.
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, userID string, e *models.DiveEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	query := `INSERT INTO cached_entries (user_id, entry_id, created_at, data)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, entry_id) DO UPDATE SET
				created_at = excluded.created_at,
				data = excluded.data`
	if _, err := r.db.ExecContext(ctx, query, userID, e.ID, e.CreatedAt, data); err != nil {
		return fmt.Errorf("failed to upsert cached entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string, id string) error {
	query := `DELETE FROM cached_entries WHERE user_id = ? AND entry_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID, id); err != nil {
		return fmt.Errorf("failed to delete cached entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ClearUser(ctx context.Context, userID string) error {
	query := `DELETE FROM cached_entries WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cached entries: %w", err)
	}
	return nil
}

// ReplaceUser rewrites the user's cached set in one transaction when given
// a *sql.DB; with a plain DBTX it falls back to sequential statements.
func (r *SQLiteRepository) ReplaceUser(ctx context.Context, userID string, entries []*models.DiveEntry) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return replaceUser(ctx, tx, userID, entries)
		})
	}
	return replaceUser(ctx, r.db, userID, entries)
}

func replaceUser(ctx context.Context, db dbx.DBTX, userID string, entries []*models.DiveEntry) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM cached_entries WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear cached entries: %w", err)
	}
	tmp := &SQLiteRepository{db: db}
	for _, e := range entries {
		if err := tmp.Upsert(ctx, userID, e); err != nil {
			return err
		}
	}
	return nil
}
