package rules

import (
	"fmt"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	planPastDueWindowDays = 7
	planUpcomingHours     = 48
)

// PlanFollowUp is the highest-priority rule: a plan on the calendar always
// beats inferred nudges. A past-due plan asks whether the meetup happened;
// an imminent one is a heads-up.
type PlanFollowUp struct{}

func (PlanFollowUp) Name() string  { return "plan_follow_up" }
func (PlanFollowUp) Priority() int { return PriorityPlanFollowUp }

func (PlanFollowUp) Generate(rc Context) (*core.Suggestion, error) {
	name := rc.Relationship.Name

	// Past due wins over upcoming: resolving stale plans keeps the rest
	// of the engine honest about what actually happened.
	var pastDue *core.Interaction
	for i := range rc.Planned {
		in := rc.Planned[i]
		if in.Status != core.StatusPlanned || in.OccurredAt.After(rc.Now) {
			continue
		}
		overdue := rc.Now.Sub(in.OccurredAt)
		if overdue > planPastDueWindowDays*24*time.Hour {
			continue // too stale to chase
		}
		if pastDue == nil || in.OccurredAt.After(pastDue.OccurredAt) {
			pastDue = &rc.Planned[i]
		}
	}
	if pastDue != nil {
		return &core.Suggestion{
			ID:             suggestionID("plan-followup", pastDue.ID),
			RelationshipID: rc.Relationship.ID,
			Urgency:        core.UrgencyHigh,
			Category:       core.SuggestionPlan,
			Title:          fmt.Sprintf("Did you meet up with %s?", name),
			Subtitle:       "Log it if it happened, or reschedule",
			Action:         core.ActionLog,
			Dismissible:    true,
			CreatedAt:      rc.Now,
		}, nil
	}

	var upcoming *core.Interaction
	horizon := rc.Now.Add(planUpcomingHours * time.Hour)
	for i := range rc.Planned {
		in := rc.Planned[i]
		if in.Status != core.StatusPlanned || in.OccurredAt.Before(rc.Now) || in.OccurredAt.After(horizon) {
			continue
		}
		if upcoming == nil || in.OccurredAt.Before(upcoming.OccurredAt) {
			upcoming = &rc.Planned[i]
		}
	}
	if upcoming != nil {
		var when string
		switch d := calendarDaysBetween(rc.Now, upcoming.OccurredAt); d {
		case 0:
			when = "today"
		case 1:
			when = "tomorrow"
		default:
			when = fmt.Sprintf("in %d days", d)
		}
		expires := upcoming.OccurredAt
		return &core.Suggestion{
			ID:             suggestionID("plan-upcoming", upcoming.ID),
			RelationshipID: rc.Relationship.ID,
			Urgency:        core.UrgencyLow,
			Category:       core.SuggestionPlan,
			Title:          fmt.Sprintf("You're seeing %s %s", name, when),
			Action:         core.ActionPlan,
			Dismissible:    true,
			CreatedAt:      rc.Now,
			ExpiresAt:      &expires,
		}, nil
	}

	return nil, nil
}

// calendarDaysBetween counts midnight boundaries crossed between the two
// moments, so 23:00 to 01:00 the next morning is one day, not zero.
func calendarDaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(t.Sub(f).Hours() / 24)
}
