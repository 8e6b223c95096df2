package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	reciprocityMinSample   = 5
	reciprocityOverRatio   = 0.75
	reciprocityUnderRatio  = 0.25
	reciprocityStreakEscal = 4
)

// selfInitiationRatio returns the share of interactions the user started,
// counting only those where the initiator was recorded, plus the length of
// the current consecutive self-initiated streak (most recent first).
func selfInitiationRatio(recent []core.Interaction) (ratio float64, known int, streak int) {
	self := 0
	streakBroken := false
	for _, in := range recent {
		if in.Initiator == "" {
			continue
		}
		known++
		if in.Initiator == core.InitiatorSelf {
			self++
			if !streakBroken {
				streak++
			}
		} else {
			streakBroken = true
		}
	}
	if known == 0 {
		return 0, 0, 0
	}
	return float64(self) / float64(known), known, streak
}

// ReciprocityOver fires when the user is carrying the relationship,
// initiating far more often than the other person.
type ReciprocityOver struct{}

func (ReciprocityOver) Name() string  { return "reciprocity_over" }
func (ReciprocityOver) Priority() int { return PriorityReciprocityOver }

func (ReciprocityOver) Generate(rc Context) (*core.Suggestion, error) {
	ratio, known, streak := selfInitiationRatio(rc.Recent)
	if known < reciprocityMinSample || ratio <= reciprocityOverRatio {
		return nil, nil
	}

	urgency := core.UrgencyMedium
	subtitle := fmt.Sprintf("You've started %d of the last %d. Maybe let them come to you", int(ratio*float64(known)+0.5), known)
	if streak >= reciprocityStreakEscal {
		urgency = core.UrgencyHigh
		subtitle = fmt.Sprintf("The last %d were all you. Give them room to reach out", streak)
	}

	return &core.Suggestion{
		ID:             suggestionID("reciprocity-over", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        urgency,
		Category:       core.SuggestionReciprocity,
		Title:          fmt.Sprintf("You're doing the reaching with %s", rc.Relationship.Name),
		Subtitle:       subtitle,
		Action:         core.ActionLog,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}

// ReciprocityUnder fires when the other person keeps initiating and the
// user rarely does. Community ties are left alone; it is normal for looser
// connections to be one-directional.
type ReciprocityUnder struct{}

func (ReciprocityUnder) Name() string  { return "reciprocity_under" }
func (ReciprocityUnder) Priority() int { return PriorityReciprocityUnder }

func (ReciprocityUnder) Generate(rc Context) (*core.Suggestion, error) {
	if rc.Relationship.Tier == core.TierCommunity {
		return nil, nil
	}
	ratio, known, _ := selfInitiationRatio(rc.Recent)
	if known < reciprocityMinSample || ratio >= reciprocityUnderRatio {
		return nil, nil
	}

	return &core.Suggestion{
		ID:             suggestionID("reciprocity-under", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyMedium,
		Category:       core.SuggestionReciprocity,
		Title:          fmt.Sprintf("%s keeps reaching out first", rc.Relationship.Name),
		Subtitle:       "Your turn to initiate something",
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}
