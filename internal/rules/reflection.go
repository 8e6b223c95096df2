package rules

import (
	"fmt"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

const reflectionWindowHours = 24

// MissingReflection prompts for a vibe or note while the memory is fresh.
// The suggestion is time-boxed: it expires 24 hours after the interaction
// and never resurfaces.
type MissingReflection struct{}

func (MissingReflection) Name() string  { return "missing_reflection" }
func (MissingReflection) Priority() int { return PriorityMissingReflection }

func (MissingReflection) Generate(rc Context) (*core.Suggestion, error) {
	if len(rc.Recent) == 0 {
		return nil, nil
	}
	latest := rc.Recent[0]
	if !latest.Completed() {
		return nil, nil
	}
	if latest.Vibe != 0 || latest.HasReflection {
		return nil, nil
	}

	age := rc.Now.Sub(latest.OccurredAt)
	if age < 0 || age >= reflectionWindowHours*time.Hour {
		return nil, nil
	}

	expires := latest.OccurredAt.Add(reflectionWindowHours * time.Hour)
	return &core.Suggestion{
		ID:             suggestionID("reflection", latest.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyHigh,
		Category:       core.SuggestionReflection,
		Title:          fmt.Sprintf("How was your time with %s?", rc.Relationship.Name),
		Subtitle:       "Rate the vibe while it's fresh",
		Action:         core.ActionReflect,
		Dismissible:    true,
		CreatedAt:      rc.Now,
		ExpiresAt:      &expires,
	}, nil
}
