package scoring

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// memStore is an in-memory RelationshipSource + ContributionLedger for
// recorder tests.
type memStore struct {
	rels          map[string]core.Relationship
	contributions map[string]float64 // "interactionID/relID" -> score at logging
	completions   map[string][]time.Time
	failFor       map[string]bool // relationship IDs whose updates fail
}

func newMemStore(rels ...core.Relationship) *memStore {
	s := &memStore{
		rels:          make(map[string]core.Relationship),
		contributions: make(map[string]float64),
		completions:   make(map[string][]time.Time),
		failFor:       make(map[string]bool),
	}
	for _, r := range rels {
		s.rels[r.ID] = r
	}
	return s
}

func (s *memStore) key(inID, relID string) string { return inID + "/" + relID }

func (s *memStore) Relationship(_ context.Context, id string) (core.Relationship, error) {
	r, ok := s.rels[id]
	if !ok {
		return core.Relationship{}, core.ErrRelationshipNotFound
	}
	return r, nil
}

func (s *memStore) SetVitality(_ context.Context, id string, score float64, last *time.Time) error {
	if s.failFor[id] {
		return fmt.Errorf("simulated write failure")
	}
	r := s.rels[id]
	r.VitalityScore = score
	r.LastInteractionAt = last
	s.rels[id] = r
	return nil
}

func (s *memStore) RecordContribution(_ context.Context, inID, relID string, at float64) error {
	s.contributions[s.key(inID, relID)] = at
	return nil
}

func (s *memStore) ScoreAtLogging(_ context.Context, inID, relID string) (float64, error) {
	at, ok := s.contributions[s.key(inID, relID)]
	if !ok {
		return 0, core.ErrRecordNotFound
	}
	return at, nil
}

func (s *memStore) RemoveContribution(_ context.Context, inID, relID string) error {
	delete(s.contributions, s.key(inID, relID))
	return nil
}

func (s *memStore) LatestCompletion(_ context.Context, relID, _ string) (*time.Time, error) {
	times := s.completions[relID]
	if len(times) == 0 {
		return nil, nil
	}
	latest := times[0]
	for _, t := range times[1:] {
		if t.After(latest) {
			latest = t
		}
	}
	return &latest, nil
}

func testInteraction(participants ...string) core.Interaction {
	return core.Interaction{
		ID:           "int_1",
		Participants: participants,
		Category:     core.CategoryMealDrink,
		Status:       core.StatusCompleted,
		OccurredAt:   time.Date(2026, 4, 10, 19, 0, 0, 0, time.UTC),
		Vibe:         4,
	}
}

func TestRecorder_ApplyThenRevert_RestoresScore(t *testing.T) {
	store := newMemStore(core.Relationship{ID: "a", Tier: core.TierClose, VitalityScore: 35})
	rec := NewRecorder(store, store)
	ctx := context.Background()

	in := testInteraction("a")
	if err := rec.Apply(ctx, in); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	applied := store.rels["a"].VitalityScore
	if applied <= 35 {
		t.Fatalf("score did not increase: %f", applied)
	}

	if err := rec.Revert(ctx, in); err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if got := store.rels["a"].VitalityScore; math.Abs(got-35) > 1e-9 {
		t.Errorf("score after revert = %f, want 35", got)
	}
	if store.rels["a"].LastInteractionAt != nil {
		t.Error("last interaction should clear when no completions remain")
	}
}

func TestRecorder_Apply_FanOutAllParticipants(t *testing.T) {
	store := newMemStore(
		core.Relationship{ID: "a", Tier: core.TierInner, VitalityScore: 20},
		core.Relationship{ID: "b", Tier: core.TierCommunity, VitalityScore: 80},
	)
	rec := NewRecorder(store, store)

	if err := rec.Apply(context.Background(), testInteraction("a", "b")); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Both participants gain, and the low-band participant gains more
	// than the high-band one for the same interaction.
	gainA := store.rels["a"].VitalityScore - 20
	gainB := store.rels["b"].VitalityScore - 80
	if gainA <= 0 || gainB <= 0 {
		t.Fatalf("both participants should gain: a=%f b=%f", gainA, gainB)
	}
	if gainA <= gainB {
		t.Errorf("low-band participant should gain more: a=%f b=%f", gainA, gainB)
	}
}

func TestRecorder_Apply_PartialFailureIsolated(t *testing.T) {
	store := newMemStore(
		core.Relationship{ID: "a", Tier: core.TierClose, VitalityScore: 30},
		core.Relationship{ID: "b", Tier: core.TierClose, VitalityScore: 30},
	)
	store.failFor["a"] = true
	rec := NewRecorder(store, store)

	err := rec.Apply(context.Background(), testInteraction("a", "b"))
	if err == nil {
		t.Fatal("expected an error for the failing participant")
	}
	if store.rels["b"].VitalityScore <= 30 {
		t.Error("healthy participant should still be updated")
	}
}

func TestRecorder_Reapply_EditChangesDelta(t *testing.T) {
	store := newMemStore(core.Relationship{ID: "a", Tier: core.TierClose, VitalityScore: 30})
	rec := NewRecorder(store, store)
	ctx := context.Background()

	old := testInteraction("a")
	if err := rec.Apply(ctx, old); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	edited := old
	edited.Category = core.CategoryDeepTalk
	edited.Vibe = 5
	if err := rec.Reapply(ctx, old, edited); err != nil {
		t.Fatalf("Reapply failed: %v", err)
	}

	// The edited score equals applying the edited interaction directly.
	want, _ := Apply(core.Relationship{Tier: core.TierClose}, edited, 30)
	if got := store.rels["a"].VitalityScore; math.Abs(got-want) > 1e-9 {
		t.Errorf("score after edit = %f, want %f", got, want)
	}
}

func TestRecorder_SyncParticipants(t *testing.T) {
	store := newMemStore(
		core.Relationship{ID: "a", Tier: core.TierClose, VitalityScore: 30},
		core.Relationship{ID: "b", Tier: core.TierClose, VitalityScore: 30},
		core.Relationship{ID: "c", Tier: core.TierClose, VitalityScore: 30},
	)
	rec := NewRecorder(store, store)
	ctx := context.Background()

	in := testInteraction("a", "b")
	if err := rec.Apply(ctx, in); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	scoreA := store.rels["a"].VitalityScore

	// b dropped, c added, a unchanged.
	if err := rec.SyncParticipants(ctx, in, []string{"a", "c"}); err != nil {
		t.Fatalf("SyncParticipants failed: %v", err)
	}

	if got := store.rels["b"].VitalityScore; math.Abs(got-30) > 1e-9 {
		t.Errorf("removed participant score = %f, want restored 30", got)
	}
	if store.rels["c"].VitalityScore <= 30 {
		t.Error("added participant should gain the contribution")
	}
	if got := store.rels["a"].VitalityScore; math.Abs(got-scoreA) > 1e-9 {
		t.Errorf("unchanged participant moved: %f", got)
	}
}

func TestRecorder_Apply_NoParticipants(t *testing.T) {
	store := newMemStore()
	rec := NewRecorder(store, store)

	err := rec.Apply(context.Background(), core.Interaction{ID: "int_x", Status: core.StatusCompleted})
	if err != core.ErrNoParticipants {
		t.Errorf("err = %v, want ErrNoParticipants", err)
	}
}
