package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	momentumMinScore       = 60
	momentumMinTrend       = 10
	momentumMaxContactDays = 7
)

// Momentum encourages capitalizing on an upswing: the score is healthy, the
// trend is strongly positive, and contact is recent.
type Momentum struct{}

func (Momentum) Name() string  { return "momentum" }
func (Momentum) Priority() int { return PriorityMomentum }

func (Momentum) Generate(rc Context) (*core.Suggestion, error) {
	if rc.Score <= momentumMinScore || rc.Trend <= momentumMinTrend {
		return nil, nil
	}
	days, ok := rc.DaysSinceContact()
	if !ok || days > momentumMaxContactDays {
		return nil, nil
	}

	return &core.Suggestion{
		ID:             suggestionID("momentum", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyMedium,
		Category:       core.SuggestionMomentum,
		Title:          fmt.Sprintf("You and %s are on a roll", rc.Relationship.Name),
		Subtitle:       "Keep it going: plan the next one while the energy is high",
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}
