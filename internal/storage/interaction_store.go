package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// InteractionStore handles interaction persistence, including the
// per-participant contribution ledger the score recorder reads.
type InteractionStore struct {
	db *DB
}

// NewInteractionStore creates an interaction store.
func NewInteractionStore(db *DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// Create inserts an interaction and its participant rows. Contribution
// ledger values start at zero; the recorder fills them in when it applies
// the interaction.
func (s *InteractionStore) Create(ctx context.Context, in *core.Interaction) error {
	now := time.Now().UTC()
	in.CreatedAt = now
	in.UpdatedAt = now

	return s.db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO interactions (
			    id, category, status, occurred_at, duration, vibe,
			    has_reflection, initiator, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			in.ID, in.Category, in.Status, in.OccurredAt, in.Duration, in.Vibe,
			in.HasReflection, in.Initiator, in.CreatedAt, in.UpdatedAt,
		)
		if err != nil {
			return err
		}
		for _, relID := range in.Participants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO interaction_participants (interaction_id, relationship_id)
				VALUES (?, ?)
			`, in.ID, relID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Interaction returns one interaction with its participant list.
func (s *InteractionStore) Interaction(ctx context.Context, id string) (core.Interaction, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT id, category, status, occurred_at, duration, vibe,
		       has_reflection, initiator, created_at, updated_at
		FROM interactions WHERE id = ?
	`, id)

	in, err := scanInteraction(row)
	if err == sql.ErrNoRows {
		return core.Interaction{}, core.ErrRecordNotFound
	}
	if err != nil {
		return core.Interaction{}, err
	}

	in.Participants, err = s.participants(ctx, id)
	return in, err
}

func (s *InteractionStore) participants(ctx context.Context, interactionID string) ([]string, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT relationship_id FROM interaction_participants WHERE interaction_id = ?
	`, interactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an interaction. Participant changes
// go through SetParticipants so ledger rows stay consistent.
func (s *InteractionStore) Update(ctx context.Context, in *core.Interaction) error {
	in.UpdatedAt = time.Now().UTC()
	res, err := s.db.conn.ExecContext(ctx, `
		UPDATE interactions SET
		    category = ?, status = ?, occurred_at = ?, duration = ?,
		    vibe = ?, has_reflection = ?, initiator = ?, updated_at = ?
		WHERE id = ?
	`,
		in.Category, in.Status, in.OccurredAt, in.Duration,
		in.Vibe, in.HasReflection, in.Initiator, in.UpdatedAt, in.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetParticipants replaces the participant list. Ledger values for
// retained participants are preserved.
func (s *InteractionStore) SetParticipants(ctx context.Context, interactionID string, relIDs []string) error {
	return s.db.Transaction(func(tx *sql.Tx) error {
		keep := make(map[string]bool, len(relIDs))
		for _, id := range relIDs {
			keep[id] = true
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO interaction_participants (interaction_id, relationship_id)
				VALUES (?, ?)
			`, interactionID, id); err != nil {
				return err
			}
		}

		rows, err := tx.QueryContext(ctx, `
			SELECT relationship_id FROM interaction_participants WHERE interaction_id = ?
		`, interactionID)
		if err != nil {
			return err
		}
		var stale []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			if !keep[id] {
				stale = append(stale, id)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range stale {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM interaction_participants
				WHERE interaction_id = ? AND relationship_id = ?
			`, interactionID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an interaction and its ledger rows.
func (s *InteractionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, "DELETE FROM interactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RecentCompleted returns a relationship's completed interactions, most
// recent first.
func (s *InteractionStore) RecentCompleted(ctx context.Context, relID string, limit int) ([]core.Interaction, error) {
	return s.forRelationship(ctx, relID, core.StatusCompleted, "i.occurred_at DESC", limit)
}

// Planned returns a relationship's pending plans, soonest first.
func (s *InteractionStore) Planned(ctx context.Context, relID string) ([]core.Interaction, error) {
	return s.forRelationship(ctx, relID, core.StatusPlanned, "i.occurred_at ASC", 0)
}

func (s *InteractionStore) forRelationship(ctx context.Context, relID string, status core.InteractionStatus, order string, limit int) ([]core.Interaction, error) {
	q := `
		SELECT i.id, i.category, i.status, i.occurred_at, i.duration, i.vibe,
		       i.has_reflection, i.initiator, i.created_at, i.updated_at
		FROM interactions i
		JOIN interaction_participants p ON p.interaction_id = i.id
		WHERE p.relationship_id = ? AND i.status = ?
		ORDER BY ` + order
	args := []interface{}{relID, status}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// Contribution pairs an interaction with the score the relationship had
// when it was logged.
type Contribution struct {
	Interaction    core.Interaction
	ScoreAtLogging float64
}

// ContributionsSince returns a relationship's completed contributions on or
// after the cutoff, for trend computation.
func (s *InteractionStore) ContributionsSince(ctx context.Context, relID string, since time.Time) ([]Contribution, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT i.id, i.category, i.status, i.occurred_at, i.duration, i.vibe,
		       i.has_reflection, i.initiator, i.created_at, i.updated_at,
		       p.score_at_logging
		FROM interactions i
		JOIN interaction_participants p ON p.interaction_id = i.id
		WHERE p.relationship_id = ? AND i.status = ? AND i.occurred_at >= ?
		ORDER BY i.occurred_at DESC
	`, relID, core.StatusCompleted, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contribution
	for rows.Next() {
		var c Contribution
		in := &c.Interaction
		err := rows.Scan(
			&in.ID, &in.Category, &in.Status, &in.OccurredAt, &in.Duration, &in.Vibe,
			&in.HasReflection, &in.Initiator, &in.CreatedAt, &in.UpdatedAt,
			&c.ScoreAtLogging,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReflectedOn reports whether any interaction gained a vibe or note during
// the given calendar day.
func (s *InteractionStore) ReflectedOn(ctx context.Context, day time.Time) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var n int
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM interactions
		WHERE (vibe > 0 OR has_reflection = 1) AND updated_at >= ? AND updated_at < ?
	`, start, end).Scan(&n)
	return n > 0, err
}

// RecordContribution freezes the score a participant had when the
// interaction was logged.
func (s *InteractionStore) RecordContribution(ctx context.Context, interactionID, relID string, scoreAtLogging float64) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO interaction_participants (interaction_id, relationship_id, score_at_logging)
		VALUES (?, ?, ?)
		ON CONFLICT (interaction_id, relationship_id)
		DO UPDATE SET score_at_logging = excluded.score_at_logging
	`, interactionID, relID, scoreAtLogging)
	return err
}

// ScoreAtLogging returns the frozen logging-time score for one participant.
func (s *InteractionStore) ScoreAtLogging(ctx context.Context, interactionID, relID string) (float64, error) {
	var score float64
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT score_at_logging FROM interaction_participants
		WHERE interaction_id = ? AND relationship_id = ?
	`, interactionID, relID).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, core.ErrRecordNotFound
	}
	return score, err
}

// RemoveContribution drops one participant's ledger row.
func (s *InteractionStore) RemoveContribution(ctx context.Context, interactionID, relID string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		DELETE FROM interaction_participants
		WHERE interaction_id = ? AND relationship_id = ?
	`, interactionID, relID)
	return err
}

// LatestCompletion returns the newest completed interaction time for a
// relationship, excluding the given interaction. Nil when none remain.
func (s *InteractionStore) LatestCompletion(ctx context.Context, relID, excludeInteractionID string) (*time.Time, error) {
	var at time.Time
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT i.occurred_at
		FROM interactions i
		JOIN interaction_participants p ON p.interaction_id = i.id
		WHERE p.relationship_id = ? AND i.status = ? AND i.id != ?
		ORDER BY i.occurred_at DESC
		LIMIT 1
	`, relID, core.StatusCompleted, excludeInteractionID).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func scanInteraction(row rowScanner) (core.Interaction, error) {
	var in core.Interaction
	err := row.Scan(
		&in.ID, &in.Category, &in.Status, &in.OccurredAt, &in.Duration, &in.Vibe,
		&in.HasReflection, &in.Initiator, &in.CreatedAt, &in.UpdatedAt,
	)
	return in, err
}
