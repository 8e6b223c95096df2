package rules

import (
	"fmt"
	"math"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/pattern"
)

const (
	firstContactMinAgeDays   = 1
	communityFirstContactBar = 35
	maintenanceMinScore      = 40
)

// Maintenance is the steady-state nudge: a relationship that is doing fine
// but has slipped past its expected cadence gets a check-in, and one that
// has never been logged at all gets a first-contact prompt.
type Maintenance struct{}

func (Maintenance) Name() string  { return "maintenance" }
func (Maintenance) Priority() int { return PriorityMaintenance }

func (Maintenance) Generate(rc Context) (*core.Suggestion, error) {
	// An upcoming plan quiets both branches, including first contact.
	if rc.HasPlannedWithin(lookaheadDays) {
		return nil, nil
	}
	days, hasContact := rc.DaysSinceContact()
	if !hasContact && len(rc.Recent) == 0 {
		return firstContact(rc), nil
	}
	if rc.Score < maintenanceMinScore {
		// Below this the drift rules own the relationship.
		return nil, nil
	}
	window := pattern.ToleranceWindow(rc.Pattern, rc.Relationship.Tier)
	if days <= window {
		return nil, nil
	}

	title := fmt.Sprintf("Time to check in with %s", rc.Relationship.Name)
	if rc.Pattern.Reliable {
		title = fmt.Sprintf("%s's %d-day check-in", rc.Relationship.Name, int(math.Round(rc.Pattern.AverageIntervalDays)))
	}

	kind := "checkin"
	category := core.SuggestionCheckin
	if rc.Relationship.Tier == core.TierCommunity {
		kind = "community-checkin"
		category = core.SuggestionCommunityCheckin
	}

	return &core.Suggestion{
		ID:             suggestionID(kind, rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyMedium,
		Category:       category,
		Title:          title,
		Subtitle:       fmt.Sprintf("It's been %d days, a little past your usual rhythm", int(days)),
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}, nil
}

// firstContact fires once a relationship is a day old with nothing logged.
// Community ties only get it when the score has already sunk, to keep the
// long tail of acquaintances from flooding the feed.
func firstContact(rc Context) *core.Suggestion {
	if rc.AgeDays() < firstContactMinAgeDays {
		return nil
	}
	if rc.Relationship.Tier == core.TierCommunity && rc.Score >= communityFirstContactBar {
		return nil
	}
	return &core.Suggestion{
		ID:             suggestionID("first-contact", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyMedium,
		Category:       core.SuggestionCheckin,
		Title:          fmt.Sprintf("Log your first interaction with %s", rc.Relationship.Name),
		Subtitle:       "Nothing recorded yet, so scoring can't start",
		Action:         core.ActionLog,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}
}
