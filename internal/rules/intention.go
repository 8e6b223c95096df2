package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	intentionAgingDays    = 7
	intentionEscalateDays = 14
)

// AgingIntention nags about declared-but-unscheduled intents to reconnect.
// A week-old intention is worth a nudge; two weeks escalates it.
type AgingIntention struct{}

func (AgingIntention) Name() string  { return "aging_intention" }
func (AgingIntention) Priority() int { return PriorityAgingIntention }

func (AgingIntention) Generate(rc Context) (*core.Suggestion, error) {
	var oldest *core.Intention
	for i := range rc.Intentions {
		intent := rc.Intentions[i]
		if !intent.Active || intent.Scheduled {
			continue
		}
		if oldest == nil || intent.CreatedAt.Before(oldest.CreatedAt) {
			oldest = &rc.Intentions[i]
		}
	}
	if oldest == nil {
		return nil, nil
	}

	ageDays := rc.Now.Sub(oldest.CreatedAt).Hours() / 24
	if ageDays < intentionAgingDays {
		return nil, nil
	}

	urgency := core.UrgencyMedium
	if ageDays >= intentionEscalateDays {
		urgency = core.UrgencyHigh
	}

	return &core.Suggestion{
		ID:             suggestionID("intention", oldest.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        urgency,
		Category:       core.SuggestionIntention,
		Title:          fmt.Sprintf("You meant to reach out to %s", rc.Relationship.Name),
		Subtitle:       fmt.Sprintf("That was %d days ago. Turn it into a plan", int(ageDays)),
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}
