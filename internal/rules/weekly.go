package rules

import (
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// WeeklyReflectionDay is the fixed day the global reflection prompt may
// appear.
const WeeklyReflectionDay = time.Sunday

// WeeklyReflection is the one rule that is not about a single relationship:
// it emits at most one global prompt per week, on the fixed day, as long as
// no reflection has been recorded yet that day. The batch driver calls it
// directly instead of routing it through the per-relationship waterfall.
func WeeklyReflection(now time.Time, reflectedToday bool) *core.Suggestion {
	if now.Weekday() != WeeklyReflectionDay || reflectedToday {
		return nil
	}
	expires := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return &core.Suggestion{
		ID:          "weekly-reflection",
		Urgency:     core.UrgencyLow,
		Category:    core.SuggestionReflection,
		Title:       "Sunday reflection",
		Subtitle:    "Take a few minutes to look back at this week's interactions",
		Action:      core.ActionReflect,
		Dismissible: true,
		CreatedAt:   now,
		ExpiresAt:   &expires,
	}
}
