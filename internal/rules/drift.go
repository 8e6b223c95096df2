package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	criticalDriftScore       = 30
	attentionDriftInnerScore = 50
	attentionDriftCloseScore = 35

	// lookaheadDays suppresses drift-like nudges when a meetup is
	// already scheduled soon: the calendar has it covered.
	lookaheadDays = 7
)

// CriticalDrift is the one non-dismissible suggestion: an inner-circle
// relationship that has decayed below 30 cannot be silently ignored.
type CriticalDrift struct{}

func (CriticalDrift) Name() string  { return "critical_drift" }
func (CriticalDrift) Priority() int { return PriorityCriticalDrift }

func (CriticalDrift) Generate(rc Context) (*core.Suggestion, error) {
	if rc.Relationship.Tier != core.TierInner || rc.Score >= criticalDriftScore {
		return nil, nil
	}
	if rc.HasPlannedWithin(lookaheadDays) {
		return nil, nil
	}

	return &core.Suggestion{
		ID:             suggestionID("drift-critical", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyCritical,
		Category:       core.SuggestionDrift,
		Title:          fmt.Sprintf("%s is drifting away", rc.Relationship.Name),
		Subtitle:       "Your inner circle needs you. Reach out this week",
		Action:         core.ActionPlan,
		Dismissible:    false,
		CreatedAt:      rc.Now,
	}, nil
}

// AttentionDrift flags relationships cooling toward trouble before they hit
// the critical threshold.
type AttentionDrift struct{}

func (AttentionDrift) Name() string  { return "attention_drift" }
func (AttentionDrift) Priority() int { return PriorityAttentionDrift }

func (AttentionDrift) Generate(rc Context) (*core.Suggestion, error) {
	tier := rc.Relationship.Tier
	drifting := (tier == core.TierInner && rc.Score < attentionDriftInnerScore) ||
		(tier == core.TierClose && rc.Score < attentionDriftCloseScore)
	if !drifting {
		return nil, nil
	}
	if rc.HasPlannedWithin(lookaheadDays) {
		return nil, nil
	}

	return &core.Suggestion{
		ID:             suggestionID("drift-attention", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyHigh,
		Category:       core.SuggestionDrift,
		Title:          fmt.Sprintf("%s could use some attention", rc.Relationship.Name),
		Subtitle:       "A quick message would go a long way",
		Action:         core.ActionLog,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}
