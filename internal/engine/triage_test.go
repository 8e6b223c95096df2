package engine

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kinship-hq/kinship/internal/core"
)

func criticalDrift(relID string) core.Suggestion {
	return core.Suggestion{
		ID:             "drift-critical-" + relID,
		RelationshipID: relID,
		Urgency:        core.UrgencyCritical,
		Category:       core.SuggestionDrift,
		Dismissible:    false,
		CreatedAt:      testNow,
	}
}

func attentionDrift(relID string) core.Suggestion {
	return core.Suggestion{
		ID:             "drift-attention-" + relID,
		RelationshipID: relID,
		Urgency:        core.UrgencyHigh,
		Category:       core.SuggestionDrift,
		Dismissible:    true,
		CreatedAt:      testNow,
	}
}

func communityCheckin(relID string) core.Suggestion {
	return core.Suggestion{
		ID:             "community-checkin-" + relID,
		RelationshipID: relID,
		Urgency:        core.UrgencyMedium,
		Category:       core.SuggestionCommunityCheckin,
		Dismissible:    true,
		CreatedAt:      testNow,
	}
}

func TestTriageEmptyUnchanged(t *testing.T) {
	if got := Triage(nil, DefaultTriageConfig(), testNow); len(got) != 0 {
		t.Errorf("Triage(nil) = %v", got)
	}
}

func TestTriageBelowThresholdUntouched(t *testing.T) {
	batch := []core.Suggestion{
		criticalDrift("a"), criticalDrift("b"), criticalDrift("c"),
		criticalDrift("d"), criticalDrift("e"),
		communityCheckin("f"),
	}
	got := Triage(batch, DefaultTriageConfig(), testNow)
	if !reflect.DeepEqual(got, batch) {
		t.Errorf("five criticals are within capacity, batch should be untouched")
	}
}

func TestTriageShedsOverload(t *testing.T) {
	var batch []core.Suggestion
	for i := 0; i < 6; i++ {
		batch = append(batch, criticalDrift(fmt.Sprintf("c%d", i)))
	}
	batch = append(batch,
		attentionDrift("x"),
		communityCheckin("y"),
		core.Suggestion{ID: "deepen-z", RelationshipID: "z", Category: core.SuggestionDeepen, Dismissible: true},
	)

	got := Triage(batch, DefaultTriageConfig(), testNow)

	if got[0].ID != focusSuggestionID || !got[0].Dismissible {
		t.Fatalf("first suggestion = %+v, want the dismissible focus prompt", got[0])
	}

	var criticals, drifts, checkins, others int
	for _, s := range got[1:] {
		switch {
		case isCriticalDrift(s):
			criticals++
		case s.Category == core.SuggestionDrift:
			drifts++
		case s.Category == core.SuggestionCommunityCheckin:
			checkins++
		default:
			others++
		}
	}
	if criticals != 3 {
		t.Errorf("kept %d critical drifts, want 3", criticals)
	}
	if drifts != 0 || checkins != 0 {
		t.Errorf("drift/community noise survived the shed: %d/%d", drifts, checkins)
	}
	if others != 1 {
		t.Errorf("unrelated suggestions = %d, want 1 untouched", others)
	}

	// Arrival order decides which criticals survive.
	want := []string{"drift-critical-c0", "drift-critical-c1", "drift-critical-c2"}
	for i, id := range want {
		if got[i+1].ID != id {
			t.Errorf("kept[%d] = %s, want %s", i, got[i+1].ID, id)
		}
	}
}

func TestTriageIdempotent(t *testing.T) {
	var batch []core.Suggestion
	for i := 0; i < 8; i++ {
		batch = append(batch, criticalDrift(fmt.Sprintf("c%d", i)))
	}

	once := Triage(batch, DefaultTriageConfig(), testNow)
	twice := Triage(once, DefaultTriageConfig(), testNow)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("triage is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}
