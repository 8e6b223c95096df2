package storage

import (
	"context"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// LifeEventStore handles structured dates (birthdays, anniversaries,
// custom events).
type LifeEventStore struct {
	db *DB
}

// NewLifeEventStore creates a life event store.
func NewLifeEventStore(db *DB) *LifeEventStore {
	return &LifeEventStore{db: db}
}

// Create inserts a life event.
func (s *LifeEventStore) Create(ctx context.Context, ev *core.LifeEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO life_events (id, relationship_id, kind, label, date, recurring, lead_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.RelationshipID, ev.Kind, ev.Label, ev.Date, ev.Recurring, ev.LeadDays, ev.CreatedAt)
	return err
}

// For returns a relationship's events ordered by date.
func (s *LifeEventStore) For(ctx context.Context, relID string) ([]core.LifeEvent, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, relationship_id, kind, label, date, recurring, lead_days, created_at
		FROM life_events
		WHERE relationship_id = ?
		ORDER BY date ASC
	`, relID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.LifeEvent
	for rows.Next() {
		var ev core.LifeEvent
		if err := rows.Scan(&ev.ID, &ev.RelationshipID, &ev.Kind, &ev.Label,
			&ev.Date, &ev.Recurring, &ev.LeadDays, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Delete removes a life event.
func (s *LifeEventStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, "DELETE FROM life_events WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
