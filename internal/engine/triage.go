package engine

import (
	"strings"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

// TriageConfig bounds how many alarming suggestions one batch may carry.
type TriageConfig struct {
	// CriticalDriftThreshold is the count above which the batch is
	// considered overwhelming and gets load-shed.
	CriticalDriftThreshold int
	// CriticalDriftKeep is how many critical-drift suggestions survive a
	// shed, in arrival order.
	CriticalDriftKeep int
}

// DefaultTriageConfig returns the standard limits.
func DefaultTriageConfig() TriageConfig {
	return TriageConfig{
		CriticalDriftThreshold: 5,
		CriticalDriftKeep:      3,
	}
}

const focusSuggestionID = "system-focus"

// Triage load-sheds an overwhelming batch. When more than the threshold of
// critical-drift suggestions exist, only the first few survive, the
// remaining drift and community check-in noise is dropped, and a single
// calming focus suggestion is prepended. Anything else passes through
// untouched, so applying Triage to its own output changes nothing.
func Triage(suggestions []core.Suggestion, cfg TriageConfig, now time.Time) []core.Suggestion {
	if len(suggestions) == 0 {
		return suggestions
	}

	critical := 0
	for _, s := range suggestions {
		if isCriticalDrift(s) {
			critical++
		}
	}
	if critical <= cfg.CriticalDriftThreshold {
		return suggestions
	}

	out := make([]core.Suggestion, 0, len(suggestions))
	out = append(out, focusSuggestion(now))

	kept := 0
	for _, s := range suggestions {
		switch {
		case isCriticalDrift(s):
			if kept < cfg.CriticalDriftKeep {
				out = append(out, s)
				kept++
			}
		case s.Category == core.SuggestionDrift, s.Category == core.SuggestionCommunityCheckin:
			// Shed: the user is already over capacity.
		default:
			out = append(out, s)
		}
	}
	return out
}

func isCriticalDrift(s core.Suggestion) bool {
	return s.Category == core.SuggestionDrift &&
		s.Urgency == core.UrgencyCritical &&
		strings.HasPrefix(s.ID, "drift-critical-")
}

func focusSuggestion(now time.Time) core.Suggestion {
	return core.Suggestion{
		ID:          focusSuggestionID,
		Urgency:     core.UrgencyHigh,
		Category:    core.SuggestionSystem,
		Title:       "A lot of people need you right now",
		Subtitle:    "We're showing the three most pressing. Start there",
		Action:      core.ActionPlan,
		Dismissible: true,
		CreatedAt:   now,
	}
}
