package rules

import (
	"fmt"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

const defaultLifeEventLeadDays = 7

// LifeEvent fires for birthdays, anniversaries, and custom dates. Today or
// tomorrow is critical; inside the lead window it is an upcoming heads-up.
// Relationships without structured events fall back to the legacy birthday
// and anniversary date fields.
type LifeEvent struct{}

func (LifeEvent) Name() string  { return "life_event" }
func (LifeEvent) Priority() int { return PriorityLifeEvent }

func (LifeEvent) Generate(rc Context) (*core.Suggestion, error) {
	events := rc.LifeEvents
	if len(events) == 0 {
		events = legacyEvents(rc.Relationship)
	}

	var best *core.Suggestion
	bestDays := -1
	for _, ev := range events {
		if ev.Kind == core.LifeEventAnniversary && rc.Relationship.Type != core.RelTypePartner {
			continue
		}
		days, ok := daysUntilEvent(ev, rc.Now)
		if !ok {
			continue
		}

		lead := ev.LeadDays
		if lead <= 0 {
			lead = defaultLifeEventLeadDays
		}
		if days > lead {
			continue
		}

		s := eventSuggestion(rc, ev, days)
		if best == nil || days < bestDays {
			best, bestDays = s, days
		}
	}
	return best, nil
}

// legacyEvents synthesizes structured events from the old per-relationship
// date fields so long-standing records keep their nudges.
func legacyEvents(rel core.Relationship) []core.LifeEvent {
	var events []core.LifeEvent
	if rel.Birthday != nil {
		events = append(events, core.LifeEvent{
			ID:             "legacy-birthday-" + rel.ID,
			RelationshipID: rel.ID,
			Kind:           core.LifeEventBirthday,
			Date:           *rel.Birthday,
			Recurring:      true,
		})
	}
	if rel.Anniversary != nil {
		events = append(events, core.LifeEvent{
			ID:             "legacy-anniversary-" + rel.ID,
			RelationshipID: rel.ID,
			Kind:           core.LifeEventAnniversary,
			Date:           *rel.Anniversary,
			Recurring:      true,
		})
	}
	return events
}

// daysUntilEvent resolves the event's next occurrence. Non-recurring events
// in the past never fire; recurring ones roll to the next year.
func daysUntilEvent(ev core.LifeEvent, now time.Time) (int, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	occ := time.Date(now.Year(), ev.Date.Month(), ev.Date.Day(), 0, 0, 0, 0, now.Location())
	if !ev.Recurring {
		occ = time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(), 0, 0, 0, 0, now.Location())
		if occ.Before(today) {
			return 0, false
		}
	} else if occ.Before(today) {
		occ = occ.AddDate(1, 0, 0)
	}

	return int(occ.Sub(today).Hours() / 24), true
}

func eventSuggestion(rc Context, ev core.LifeEvent, days int) *core.Suggestion {
	name := rc.Relationship.Name
	label := eventLabel(ev, name)

	var title string
	urgency := core.UrgencyMedium
	switch days {
	case 0:
		title = fmt.Sprintf("%s is today!", label)
		urgency = core.UrgencyCritical
	case 1:
		title = fmt.Sprintf("%s is tomorrow", label)
		urgency = core.UrgencyCritical
	default:
		title = fmt.Sprintf("%s is in %d days", label, days)
		urgency = core.UrgencyHigh
	}

	expires := rc.Now.AddDate(0, 0, days+1)
	return &core.Suggestion{
		ID:             suggestionID("life-event", ev.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        urgency,
		Category:       core.SuggestionLifeEvent,
		Title:          title,
		Subtitle:       "Plan something to mark it",
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
		ExpiresAt:      &expires,
	}
}

func eventLabel(ev core.LifeEvent, name string) string {
	switch ev.Kind {
	case core.LifeEventBirthday:
		return fmt.Sprintf("%s's birthday", name)
	case core.LifeEventAnniversary:
		return "Your anniversary"
	default:
		if ev.Label != "" {
			return fmt.Sprintf("%s's %s", name, ev.Label)
		}
		return fmt.Sprintf("A date that matters to %s", name)
	}
}
