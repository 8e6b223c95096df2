package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	noveltyMinScore   = 80
	noveltyWindowDays = 30
)

// highValueCategories are the interaction kinds worth suggesting when a
// strong relationship has settled into a narrow routine.
var highValueCategories = []core.InteractionCategory{
	core.CategoryDeepTalk,
	core.CategoryMealDrink,
	core.CategoryActivityHobby,
	core.CategoryHangout,
}

// Novelty nudges a high-scoring relationship out of a plateau by proposing
// a high-value interaction kind it hasn't seen lately.
type Novelty struct{}

func (Novelty) Name() string  { return "novelty" }
func (Novelty) Priority() int { return PriorityNovelty }

func (Novelty) Generate(rc Context) (*core.Suggestion, error) {
	if rc.Score <= noveltyMinScore {
		return nil, nil
	}

	cutoff := rc.Now.AddDate(0, 0, -noveltyWindowDays)
	used := make(map[core.InteractionCategory]bool)
	for _, in := range rc.Recent {
		if in.OccurredAt.Before(cutoff) {
			continue
		}
		used[in.Category] = true
	}

	var pick core.InteractionCategory
	for _, c := range highValueCategories {
		if !used[c] {
			pick = c
			break
		}
	}
	if pick == "" {
		return nil, nil
	}

	return &core.Suggestion{
		ID:             suggestionID("novelty", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyLow,
		Category:       core.SuggestionNovelty,
		Title:          fmt.Sprintf("Mix it up with %s", rc.Relationship.Name),
		Subtitle:       fmt.Sprintf("You haven't done a %s together in a while", categoryLabel(pick)),
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}

// categoryLabel renders a category slug for suggestion copy.
func categoryLabel(c core.InteractionCategory) string {
	switch c {
	case core.CategoryDeepTalk:
		return "deep talk"
	case core.CategoryMealDrink:
		return "meal or drink"
	case core.CategoryActivityHobby:
		return "shared activity"
	case core.CategoryHangout:
		return "hangout"
	case core.CategoryTextCall:
		return "call"
	default:
		return string(c)
	}
}
