package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// RelationshipStore handles relationship persistence. Its Relationship and
// SetVitality methods double as the score recorder's view of storage.
type RelationshipStore struct {
	db *DB
}

// NewRelationshipStore creates a relationship store.
func NewRelationshipStore(db *DB) *RelationshipStore {
	return &RelationshipStore{db: db}
}

// Create inserts a new relationship.
func (s *RelationshipStore) Create(ctx context.Context, rel *core.Relationship) error {
	now := time.Now().UTC()
	rel.CreatedAt = now
	rel.UpdatedAt = now
	if rel.VitalityScore == 0 {
		rel.VitalityScore = 50 // new ties start at neutral
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO relationships (
		    id, name, tier, archetype, type, vitality_score,
		    last_interaction_at, birthday, anniversary, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rel.ID, rel.Name, rel.Tier, rel.Archetype, rel.Type, rel.VitalityScore,
		rel.LastInteractionAt, rel.Birthday, rel.Anniversary, rel.CreatedAt, rel.UpdatedAt,
	)
	return err
}

// Relationship returns one relationship by ID.
func (s *RelationshipStore) Relationship(ctx context.Context, id string) (core.Relationship, error) {
	row := s.db.conn.QueryRowContext(ctx, `
		SELECT id, name, tier, archetype, type, vitality_score,
		       last_interaction_at, birthday, anniversary, created_at, updated_at
		FROM relationships WHERE id = ?
	`, id)
	rel, err := scanRelationship(row)
	if err == sql.ErrNoRows {
		return core.Relationship{}, core.ErrRelationshipNotFound
	}
	return rel, err
}

// List returns all relationships ordered by name.
func (s *RelationshipStore) List(ctx context.Context) ([]core.Relationship, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, name, tier, archetype, type, vitality_score,
		       last_interaction_at, birthday, anniversary, created_at, updated_at
		FROM relationships ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Relationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a relationship.
func (s *RelationshipStore) Update(ctx context.Context, rel *core.Relationship) error {
	rel.UpdatedAt = time.Now().UTC()
	res, err := s.db.conn.ExecContext(ctx, `
		UPDATE relationships SET
		    name = ?, tier = ?, archetype = ?, type = ?,
		    birthday = ?, anniversary = ?, updated_at = ?
		WHERE id = ?
	`,
		rel.Name, rel.Tier, rel.Archetype, rel.Type,
		rel.Birthday, rel.Anniversary, rel.UpdatedAt, rel.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetVitality writes the stored score and last-contact marker.
func (s *RelationshipStore) SetVitality(ctx context.Context, id string, score float64, lastInteractionAt *time.Time) error {
	res, err := s.db.conn.ExecContext(ctx, `
		UPDATE relationships SET vitality_score = ?, last_interaction_at = ?, updated_at = ?
		WHERE id = ?
	`, score, lastInteractionAt, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a relationship; participant rows, intentions, and life
// events go with it via foreign keys.
func (s *RelationshipStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.conn.ExecContext(ctx, "DELETE FROM relationships WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRelationship(row rowScanner) (core.Relationship, error) {
	var rel core.Relationship
	var last, birthday, anniversary sql.NullTime
	err := row.Scan(
		&rel.ID, &rel.Name, &rel.Tier, &rel.Archetype, &rel.Type, &rel.VitalityScore,
		&last, &birthday, &anniversary, &rel.CreatedAt, &rel.UpdatedAt,
	)
	if err != nil {
		return core.Relationship{}, err
	}
	if last.Valid {
		t := last.Time
		rel.LastInteractionAt = &t
	}
	if birthday.Valid {
		t := birthday.Time
		rel.Birthday = &t
	}
	if anniversary.Valid {
		t := anniversary.Time
		rel.Anniversary = &t
	}
	return rel, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
