package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/rules"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type stubRule struct {
	name     string
	priority int
	out      *core.Suggestion
	err      error
	panics   bool
	calls    *int
}

func (r stubRule) Name() string  { return r.name }
func (r stubRule) Priority() int { return r.priority }
func (r stubRule) Generate(rules.Context) (*core.Suggestion, error) {
	if r.calls != nil {
		*r.calls++
	}
	if r.panics {
		panic("boom")
	}
	return r.out, r.err
}

func suggestion(id string) *core.Suggestion {
	return &core.Suggestion{ID: id, CreatedAt: testNow}
}

func TestOrchestratorFirstMatchWins(t *testing.T) {
	laterCalls := 0
	o, err := NewOrchestrator([]rules.Rule{
		stubRule{name: "later", priority: 30, out: suggestion("later"), calls: &laterCalls},
		stubRule{name: "quiet", priority: 10},
		stubRule{name: "winner", priority: 20, out: suggestion("winner")},
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	s := o.ForRelationship(rules.Context{Now: testNow})
	if s == nil || s.ID != "winner" {
		t.Fatalf("suggestion = %v, want winner", s)
	}
	if laterCalls != 0 {
		t.Error("rules after the first match must not run")
	}
}

func TestOrchestratorSkipsFailingRules(t *testing.T) {
	o, err := NewOrchestrator([]rules.Rule{
		stubRule{name: "broken", priority: 10, err: errors.New("bad data")},
		stubRule{name: "panicky", priority: 20, panics: true},
		stubRule{name: "fallback", priority: 30, out: suggestion("fallback")},
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	s := o.ForRelationship(rules.Context{Now: testNow})
	if s == nil || s.ID != "fallback" {
		t.Fatalf("suggestion = %v, want fallback past the failing rules", s)
	}
}

func TestOrchestratorAllQuiet(t *testing.T) {
	o, err := NewOrchestrator([]rules.Rule{stubRule{name: "quiet", priority: 10}})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	if s := o.ForRelationship(rules.Context{Now: testNow}); s != nil {
		t.Errorf("suggestion = %v, want none", s)
	}
}

func TestOrchestratorRejectsEmptyAndClashing(t *testing.T) {
	if _, err := NewOrchestrator(nil); !errors.Is(err, core.ErrNoRules) {
		t.Errorf("empty rule set: err = %v, want ErrNoRules", err)
	}
	_, err := NewOrchestrator([]rules.Rule{
		stubRule{name: "a", priority: 10},
		stubRule{name: "b", priority: 10},
	})
	if err == nil {
		t.Error("clashing priorities should be rejected")
	}
}

// The full default waterfall must be registered; a rule silently missing
// from registration would never fire anywhere.
func TestOrchestratorRegistersFullDefaultSet(t *testing.T) {
	o, err := NewOrchestrator(rules.Defaults())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	registered := make(map[string]bool)
	for _, r := range o.Rules() {
		registered[r.Name()] = true
	}
	for _, r := range rules.Defaults() {
		if !registered[r.Name()] {
			t.Errorf("rule %q declared but not registered", r.Name())
		}
	}
	if len(registered) != len(rules.Defaults()) {
		t.Errorf("registered %d rules, declared %d", len(registered), len(rules.Defaults()))
	}
}

func driftingInner() rules.Context {
	created := testNow.AddDate(0, -6, 0)
	return rules.Context{
		Now: testNow,
		Relationship: core.Relationship{
			ID: "rel-1", Name: "Ana",
			Tier:      core.TierInner,
			Archetype: core.ArchetypeFoodie,
			CreatedAt: created,
		},
		Score: 25,
	}
}

// A fresh unreflected interaction outranks drift: the reflection prompt
// runs first in the waterfall.
func TestReflectionOutranksDrift(t *testing.T) {
	o, err := NewOrchestrator(rules.Defaults())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	rc := driftingInner()
	last := testNow.Add(-2 * time.Hour)
	rc.Relationship.LastInteractionAt = &last
	rc.Recent = []core.Interaction{{
		ID:         "in-1",
		Category:   core.CategoryHangout,
		Status:     core.StatusCompleted,
		OccurredAt: last,
	}}

	s := o.ForRelationship(rc)
	if s == nil || s.Category != core.SuggestionReflection {
		t.Fatalf("suggestion = %+v, want the reflection prompt", s)
	}
}

// Once the interaction is reflected on, drift is next in line.
func TestDriftFiresAfterReflectionResolved(t *testing.T) {
	o, err := NewOrchestrator(rules.Defaults())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	rc := driftingInner()
	last := testNow.Add(-2 * time.Hour)
	rc.Relationship.LastInteractionAt = &last
	rc.Recent = []core.Interaction{{
		ID:         "in-1",
		Category:   core.CategoryHangout,
		Status:     core.StatusCompleted,
		OccurredAt: last,
		Vibe:       4,
	}}

	s := o.ForRelationship(rc)
	if s == nil || s.ID != "drift-critical-rel-1" {
		t.Fatalf("suggestion = %+v, want critical drift", s)
	}
}

func TestCriticalDriftOutranksAttention(t *testing.T) {
	o, err := NewOrchestrator(rules.Defaults())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	// Score 25 on an inner tier qualifies for both drift rules.
	s := o.ForRelationship(driftingInner())
	if s == nil || s.ID != "drift-critical-rel-1" {
		t.Fatalf("suggestion = %+v, want the critical variant", s)
	}
}
