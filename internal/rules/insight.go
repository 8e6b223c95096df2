package rules

import (
	"fmt"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/scoring"
)

const (
	insightRecentSample  = 3
	insightLowTierFit    = 40
	insightTierFitSample = 5
	insightEffectiveEdge = 1.3
)

// Insight surfaces one of three observations about how the relationship is
// being maintained. The conditions are checked in order and the first hit
// wins, so a relationship only ever gets one insight at a time.
type Insight struct{}

func (Insight) Name() string  { return "insight" }
func (Insight) Priority() int { return PriorityInsight }

func (Insight) Generate(rc Context) (*core.Suggestion, error) {
	if s := insightArchetypeMismatch(rc); s != nil {
		return s, nil
	}
	if s := insightTierMismatch(rc); s != nil {
		return s, nil
	}
	return insightEffectiveness(rc), nil
}

// insightArchetypeMismatch checks whether the archetype's preferred
// interaction kind has been missing from the last few interactions.
func insightArchetypeMismatch(rc Context) *core.Suggestion {
	preferred, ok := scoring.PreferredCategory(rc.Relationship.Archetype)
	if !ok || len(rc.Recent) < insightRecentSample {
		return nil
	}
	for _, in := range rc.Recent[:insightRecentSample] {
		if in.Category == preferred {
			return nil
		}
	}
	return &core.Suggestion{
		ID:             suggestionID("insight", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyLow,
		Category:       core.SuggestionInsight,
		Title:          fmt.Sprintf("%s thrives on %s", rc.Relationship.Name, categoryLabel(preferred)),
		Subtitle:       "It hasn't come up in your recent interactions",
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}
}

// insightTierMismatch checks whether the observed cadence persistently fails
// to match the assigned tier and, when it does, proposes a tier review.
func insightTierMismatch(rc Context) *core.Suggestion {
	if rc.TierFit >= insightLowTierFit || len(rc.Recent) < insightTierFitSample {
		return nil
	}
	return &core.Suggestion{
		ID:             suggestionID("insight", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyLow,
		Category:       core.SuggestionInsight,
		Title:          fmt.Sprintf("Is %s in the right circle?", rc.Relationship.Name),
		Subtitle:       fmt.Sprintf("Your actual rhythm doesn't match the %s tier", rc.Relationship.Tier),
		Action:         core.ActionTierReview,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}
}

// insightEffectiveness checks whether one interaction kind clearly
// outperforms the rest for this relationship.
func insightEffectiveness(rc Context) *core.Suggestion {
	if len(rc.Effectiveness) < 2 {
		return nil
	}
	var best core.InteractionCategory
	bestScore := -1.0
	sum := 0.0
	for cat, v := range rc.Effectiveness {
		sum += v
		if v > bestScore || (v == bestScore && cat < best) {
			best, bestScore = cat, v
		}
	}
	restAvg := (sum - bestScore) / float64(len(rc.Effectiveness)-1)
	if restAvg <= 0 || bestScore < restAvg*insightEffectiveEdge {
		return nil
	}
	return &core.Suggestion{
		ID:             suggestionID("insight", rc.Relationship.ID),
		RelationshipID: rc.Relationship.ID,
		Urgency:        core.UrgencyLow,
		Category:       core.SuggestionInsight,
		Title:          fmt.Sprintf("%s works best with %s", rc.Relationship.Name, categoryLabel(best)),
		Subtitle:       "Those interactions consistently land better than the rest",
		Action:         core.ActionPlan,
		Dismissible:    true,
		CreatedAt:      rc.Now,
	}
}
