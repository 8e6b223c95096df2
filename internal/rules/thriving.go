package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const thrivingMinScore = 85

// Thriving celebrates a relationship that is in great shape and proposes
// deepening it rather than just maintaining it.
type Thriving struct{}

func (Thriving) Name() string  { return "thriving" }
func (Thriving) Priority() int { return PriorityThriving }

func (Thriving) Generate(rc Context) (*core.Suggestion, error) {
	if rc.Score <= thrivingMinScore {
		return nil, nil
	}

	title := fmt.Sprintf("%s is thriving", rc.Relationship.Name)
	subtitle := "This one's in a great place. Worth going deeper?"
	if rc.Relationship.Tier == core.TierCommunity {
		subtitle = "You see a lot of each other. Maybe this is more than community?"
	}

	return &core.Suggestion{
		ID:             suggestionID("deepen", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyLow,
		Category:       core.SuggestionDeepen,
		Title:          title,
		Subtitle:       subtitle,
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}
