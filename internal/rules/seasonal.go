package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
)

const seasonalMinQuietDays = 2

// Seasonal ties an upcoming holiday to a relationship it is relevant for.
// It stays quiet when contact was very recent; a holiday nudge two days
// after a hangout reads as noise.
type Seasonal struct{}

func (Seasonal) Name() string  { return "seasonal" }
func (Seasonal) Priority() int { return PrioritySeasonal }

func (Seasonal) Generate(rc Context) (*core.Suggestion, error) {
	if len(rc.Holidays) == 0 {
		return nil, nil
	}
	if days, ok := rc.DaysSinceContact(); ok && days < seasonalMinQuietDays {
		return nil, nil
	}

	for _, h := range rc.Holidays {
		if !h.RelevantTo(rc.Relationship.Tier, rc.Relationship.Type) {
			continue
		}
		subtitle := fmt.Sprintf("%s is in %d days", h.Name, h.DaysUntil)
		if h.DaysUntil == 0 {
			subtitle = fmt.Sprintf("%s is today", h.Name)
		}
		return &core.Suggestion{
			ID:             suggestionID("seasonal", rc.Relationship.ID),
			RelationshipID: rc.Relationship.ID,
			Urgency:        core.UrgencyLow,
			Category:       core.SuggestionSeasonal,
			Title:          fmt.Sprintf("Reach out to %s for %s", rc.Relationship.Name, h.Name),
			Subtitle:       subtitle,
			Action:         core.ActionLog,
			Dismissible:    true,
			CreatedAt:      rc.Now,
		}, nil
	}
	return nil, nil
}
