package storage

import (
	"context"
	"database/sql"
	"time"
)

// DismissalStore remembers when each suggestion was last dismissed. The
// cooldown registry turns those timestamps into suppression windows.
type DismissalStore struct {
	db *DB
}

// NewDismissalStore creates a dismissal store.
func NewDismissalStore(db *DB) *DismissalStore {
	return &DismissalStore{db: db}
}

// Record upserts the dismissal time for a suggestion.
func (s *DismissalStore) Record(ctx context.Context, suggestionID string, at time.Time) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO dismissals (suggestion_id, dismissed_at)
		VALUES (?, ?)
		ON CONFLICT (suggestion_id) DO UPDATE SET dismissed_at = excluded.dismissed_at
	`, suggestionID, at.UTC())
	return err
}

// LastDismissal returns the most recent dismissal time, or nil if the
// suggestion has never been dismissed.
func (s *DismissalStore) LastDismissal(ctx context.Context, suggestionID string) (*time.Time, error) {
	var at time.Time
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT dismissed_at FROM dismissals WHERE suggestion_id = ?
	`, suggestionID).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}
