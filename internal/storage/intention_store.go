package storage

import (
	"context"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// IntentionStore handles "I should reach out to X" records.
type IntentionStore struct {
	db *DB
}

// NewIntentionStore creates an intention store.
func NewIntentionStore(db *DB) *IntentionStore {
	return &IntentionStore{db: db}
}

// Create inserts an intention.
func (s *IntentionStore) Create(ctx context.Context, intent *core.Intention) error {
	if intent.CreatedAt.IsZero() {
		intent.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO intentions (id, relationship_id, note, active, scheduled, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, intent.ID, intent.RelationshipID, intent.Note, intent.Active, intent.Scheduled, intent.CreatedAt)
	return err
}

// ActiveFor returns a relationship's active intentions, oldest first.
func (s *IntentionStore) ActiveFor(ctx context.Context, relID string) ([]core.Intention, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, relationship_id, note, active, scheduled, created_at
		FROM intentions
		WHERE relationship_id = ? AND active = 1
		ORDER BY created_at ASC
	`, relID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Intention
	for rows.Next() {
		var intent core.Intention
		if err := rows.Scan(&intent.ID, &intent.RelationshipID, &intent.Note,
			&intent.Active, &intent.Scheduled, &intent.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, intent)
	}
	return out, rows.Err()
}

// MarkScheduled flags an intention as turned into a plan.
func (s *IntentionStore) MarkScheduled(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, "scheduled = 1")
}

// Deactivate retires an intention without deleting it.
func (s *IntentionStore) Deactivate(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, "active = 0")
}

func (s *IntentionStore) setFlags(ctx context.Context, id, assignment string) error {
	res, err := s.db.conn.ExecContext(ctx,
		"UPDATE intentions SET "+assignment+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes an intention.
func (s *IntentionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, "DELETE FROM intentions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
