// Package rules contains the suggestion rule modules.
//
// Each rule is a stateless, priority-numbered unit: a pure function of a
// shared Context that returns at most one suggestion. The orchestrator in
// the engine package walks rules in ascending priority and stops at the
// first match, so a rule never needs to know what fired before it. Rules
// that overlap with the scheduled-plan rule must check the planned
// lookahead themselves.
package rules

import (
	"fmt"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/holidays"
)

// Rule is one unit of the suggestion waterfall.
type Rule interface {
	// Name identifies the rule in logs and registration checks.
	Name() string
	// Priority orders evaluation; lower runs first.
	Priority() int
	// Generate returns a suggestion, nil for "nothing to say", or an
	// error. Errors are logged by the orchestrator and treated as nil.
	Generate(rc Context) (*core.Suggestion, error)
}

// Rule priorities. Gaps leave room for new rules without renumbering.
const (
	PriorityPlanFollowUp      = 10
	PriorityLifeEvent         = 20
	PriorityAgingIntention    = 30
	PriorityMissingReflection = 40
	PriorityCriticalDrift     = 50
	PriorityAttentionDrift    = 55
	PriorityMomentum          = 60
	PriorityMaintenance       = 70
	PriorityThriving          = 80
	PriorityReciprocityOver   = 90
	PriorityReciprocityUnder  = 95
	PriorityNovelty           = 100
	PriorityInsight           = 110
	PrioritySeasonal          = 120
)

// Context is the read-only snapshot a rule sees for one relationship. The
// caller materializes everything up front; rules never do I/O.
type Context struct {
	Now          time.Time
	Relationship core.Relationship

	// Score is the current (decayed) vitality score, not the stored one.
	Score   float64
	Pattern core.Pattern

	// Recent holds completed interactions, most recent first. Planned
	// holds pending plans regardless of date.
	Recent  []core.Interaction
	Planned []core.Interaction

	Intentions []core.Intention
	LifeEvents []core.LifeEvent

	// Trend is the score gained from interactions over the trailing two
	// weeks; positive means the relationship is on an upswing.
	Trend float64

	// TierFit scores how well the observed cadence matches the tier,
	// 0-100. See pattern.TierFit.
	TierFit float64

	// Effectiveness maps interaction categories to an outcome ratio the
	// engine treats as opaque (higher = better).
	Effectiveness map[core.InteractionCategory]float64

	// Holidays are the upcoming holidays inside the batch lead window.
	Holidays []holidays.Upcoming
}

// DaysSinceContact returns days since the last completed interaction. The
// second return is false when there has never been one.
func (rc Context) DaysSinceContact() (float64, bool) {
	if rc.Relationship.LastInteractionAt == nil {
		return 0, false
	}
	return rc.Now.Sub(*rc.Relationship.LastInteractionAt).Hours() / 24, true
}

// AgeDays returns how long the relationship has existed.
func (rc Context) AgeDays() float64 {
	return rc.Now.Sub(rc.Relationship.CreatedAt).Hours() / 24
}

// HasPlannedWithin reports whether a planned interaction falls inside the
// next N days. Drift-like rules must not fire when a meetup is already on
// the calendar.
func (rc Context) HasPlannedWithin(days float64) bool {
	horizon := rc.Now.Add(time.Duration(days * 24 * float64(time.Hour)))
	for _, in := range rc.Planned {
		if in.Status != core.StatusPlanned {
			continue
		}
		if !in.OccurredAt.Before(rc.Now) && !in.OccurredAt.After(horizon) {
			return true
		}
	}
	return false
}

// suggestionID builds the deterministic "{kind}-{entityID}" form every rule
// uses, so identical conditions always map to the same cooldown entry.
func suggestionID(kind, entityID string) string {
	return fmt.Sprintf("%s-%s", kind, entityID)
}
