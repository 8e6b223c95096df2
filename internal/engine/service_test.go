package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/cooldown"
	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/holidays"
	"github.com/kinship-hq/kinship/internal/rules"
	"github.com/kinship-hq/kinship/internal/storage"
)

func testDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testService(t *testing.T, db *storage.DB) *Service {
	t.Helper()
	o, err := NewOrchestrator(rules.Defaults())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	reg := cooldown.NewStoreRegistry(storage.NewDismissalStore(db))
	return NewService(db, o, reg, holidays.BuiltIn(), DefaultServiceConfig())
}

func seedRelationship(t *testing.T, db *storage.DB, id string, tier core.Tier, score float64, lastContactDaysAgo float64) {
	t.Helper()
	ctx := context.Background()
	rels := storage.NewRelationshipStore(db)
	rel := &core.Relationship{
		ID:        id,
		Name:      "Person " + id,
		Tier:      tier,
		Archetype: core.ArchetypeCompanion,
		Type:      core.RelTypeFriend,
	}
	if err := rels.Create(ctx, rel); err != nil {
		t.Fatalf("create relationship %s: %v", id, err)
	}
	if lastContactDaysAgo >= 0 {
		last := testNow.Add(-time.Duration(lastContactDaysAgo * 24 * float64(time.Hour)))
		if err := rels.SetVitality(ctx, id, score, &last); err != nil {
			t.Fatalf("set vitality %s: %v", id, err)
		}
	} else if err := rels.SetVitality(ctx, id, score, nil); err != nil {
		t.Fatalf("set vitality %s: %v", id, err)
	}
}

func seedInteraction(t *testing.T, db *storage.DB, id, relID string, status core.InteractionStatus, occurredAt time.Time, vibe int) {
	t.Helper()
	in := &core.Interaction{
		ID:           id,
		Participants: []string{relID},
		Category:     core.CategoryHangout,
		Status:       status,
		OccurredAt:   occurredAt,
		Vibe:         vibe,
	}
	if err := storage.NewInteractionStore(db).Create(context.Background(), in); err != nil {
		t.Fatalf("create interaction %s: %v", id, err)
	}
}

func generate(t *testing.T, s *Service) []core.Suggestion {
	t.Helper()
	batch, err := s.Generate(context.Background(), testNow)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return batch
}

func findByPrefix(batch []core.Suggestion, prefix string) *core.Suggestion {
	for i := range batch {
		if strings.HasPrefix(batch[i].ID, prefix) {
			return &batch[i]
		}
	}
	return nil
}

func TestGenerateCriticalDriftScenario(t *testing.T) {
	db := testDB(t)
	seedRelationship(t, db, "ana", core.TierInner, 25, 2)
	seedInteraction(t, db, "in-1", "ana", core.StatusCompleted, testNow.AddDate(0, 0, -2), 4)

	batch := generate(t, testService(t, db))

	s := findByPrefix(batch, "drift-critical-")
	if s == nil {
		t.Fatalf("batch %v: want a critical drift for the neglected inner tie", batch)
	}
	if s.Dismissible {
		t.Error("critical drift must not be dismissible")
	}
}

func TestGeneratePlanBeatsDriftScenario(t *testing.T) {
	db := testDB(t)
	seedRelationship(t, db, "ana", core.TierInner, 20, 10)
	seedInteraction(t, db, "plan-1", "ana", core.StatusPlanned, testNow.AddDate(0, 0, 1), 0)

	batch := generate(t, testService(t, db))

	if s := findByPrefix(batch, "drift-"); s != nil {
		t.Errorf("drift fired despite tomorrow's plan: %v", s.ID)
	}
	if s := findByPrefix(batch, "plan-upcoming-"); s == nil {
		t.Errorf("batch %v: want the upcoming-plan heads-up", batch)
	}
}

func TestGenerateTriageScenario(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("rel%d", i)
		seedRelationship(t, db, id, core.TierInner, 20, 3)
		seedInteraction(t, db, "in-"+id, id, core.StatusCompleted, testNow.AddDate(0, 0, -3), 4)
	}

	batch := generate(t, testService(t, db))

	if batch[0].ID != focusSuggestionID {
		t.Fatalf("batch[0] = %s, want the focus prompt first", batch[0].ID)
	}
	criticals := 0
	for _, s := range batch {
		if isCriticalDrift(s) {
			criticals++
		}
	}
	if criticals != 3 {
		t.Errorf("critical drifts = %d, want capped at 3", criticals)
	}
}

func TestGenerateLearnedCadenceScenario(t *testing.T) {
	db := testDB(t)
	// A reliable 10-day rhythm, currently 16 days quiet. Stored score is
	// pre-decay; at generation time it sits in maintenance territory.
	seedRelationship(t, db, "ben", core.TierClose, 68, 16)
	for i := 0; i < 5; i++ {
		at := testNow.AddDate(0, 0, -16-10*i)
		seedInteraction(t, db, fmt.Sprintf("in-%d", i), "ben", core.StatusCompleted, at, 4)
	}

	batch := generate(t, testService(t, db))

	s := findByPrefix(batch, "checkin-")
	if s == nil {
		t.Fatalf("batch %v: want a check-in", batch)
	}
	if !strings.Contains(s.Title, "10-day check-in") {
		t.Errorf("title = %q, want the learned cadence in it", s.Title)
	}
}

func TestGenerateEmptyDatabase(t *testing.T) {
	db := testDB(t)
	batch := generate(t, testService(t, db))
	if len(batch) != 0 {
		t.Errorf("batch = %v, want none for an empty database", batch)
	}
}

func TestGenerateWeeklyReflection(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)

	sunday := time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC)
	batch, err := s.Generate(context.Background(), sunday)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if findByPrefix(batch, "weekly-reflection") == nil {
		t.Errorf("batch %v: want the Sunday reflection prompt", batch)
	}
}

func TestDismissSuppressesUntilCooldownEnds(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)
	seedRelationship(t, db, "ben", core.TierClose, 68, 16)
	seedInteraction(t, db, "in-1", "ben", core.StatusCompleted, testNow.AddDate(0, 0, -16), 4)

	batch := generate(t, s)
	sug := findByPrefix(batch, "checkin-")
	if sug == nil {
		t.Fatalf("batch %v: want a check-in to dismiss", batch)
	}

	if err := s.Dismiss(context.Background(), sug.ID, testNow); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if findByPrefix(generate(t, s), "checkin-") != nil {
		t.Error("dismissed suggestion resurfaced inside its cooldown")
	}

	// Past the 7-day check-in cooldown it may return.
	later, err := s.Generate(context.Background(), testNow.AddDate(0, 0, 8))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if findByPrefix(later, "checkin-") == nil {
		t.Error("suggestion should return once the cooldown lapses")
	}
}

func TestDismissRefusesCriticalDrift(t *testing.T) {
	db := testDB(t)
	s := testService(t, db)
	err := s.Dismiss(context.Background(), "drift-critical-ana", testNow)
	if !errors.Is(err, core.ErrNotDismissible) {
		t.Errorf("err = %v, want ErrNotDismissible", err)
	}
}
