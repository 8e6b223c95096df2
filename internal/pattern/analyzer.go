// Package pattern infers contact cadence from interaction history.
//
// A Pattern is derived on demand and never persisted: average interval
// between completed interactions, whether the rhythm is regular enough to
// trust, and which categories the pair actually uses.
package pattern

import (
	"math"
	"sort"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	// minIntervals is how many consecutive gaps must exist before a
	// cadence can be called reliable.
	minIntervals = 3

	// cvThreshold is the maximum coefficient of variation (stddev/mean)
	// for a cadence to count as regular.
	cvThreshold = 0.5

	// toleranceMultiplier widens a reliable cadence into a check-in
	// threshold: contact is "due" at 1.5x the observed average interval.
	toleranceMultiplier = 1.5
)

// Default tolerance windows, in days, for relationships without a reliable
// pattern.
var tierDefaultWindows = map[core.Tier]float64{
	core.TierInner:     7,
	core.TierClose:     14,
	core.TierCommunity: 30,
}

// Analyze derives a Pattern from a relationship's recent interactions. Only
// completed interactions count; planned ones say nothing about cadence.
// Input order does not matter.
func Analyze(interactions []core.Interaction) core.Pattern {
	completed := make([]core.Interaction, 0, len(interactions))
	for _, in := range interactions {
		if in.Completed() {
			completed = append(completed, in)
		}
	}

	// Most recent first.
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].OccurredAt.After(completed[j].OccurredAt)
	})

	p := core.Pattern{
		PreferredCategories: rankCategories(completed),
	}

	intervals := intervalDays(completed)
	if len(intervals) == 0 {
		return p
	}

	mean := 0.0
	for _, d := range intervals {
		mean += d
	}
	mean /= float64(len(intervals))
	p.AverageIntervalDays = mean

	if len(intervals) >= minIntervals && mean > 0 {
		variance := 0.0
		for _, d := range intervals {
			variance += (d - mean) * (d - mean)
		}
		variance /= float64(len(intervals))
		cv := math.Sqrt(variance) / mean
		p.Reliable = cv < cvThreshold
	}

	return p
}

// intervalDays returns the gaps, in days, between consecutive completed
// interactions (input must be most-recent first).
func intervalDays(completed []core.Interaction) []float64 {
	if len(completed) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(completed)-1)
	for i := 0; i < len(completed)-1; i++ {
		gap := completed[i].OccurredAt.Sub(completed[i+1].OccurredAt).Hours() / 24
		if gap < 0 {
			gap = 0
		}
		intervals = append(intervals, gap)
	}
	return intervals
}

// rankCategories orders categories by frequency, most used first, ties
// broken by how recently the category appeared.
func rankCategories(completed []core.Interaction) []core.InteractionCategory {
	counts := make(map[core.InteractionCategory]int)
	lastUsed := make(map[core.InteractionCategory]time.Time)
	for _, in := range completed {
		counts[in.Category]++
		if in.OccurredAt.After(lastUsed[in.Category]) {
			lastUsed[in.Category] = in.OccurredAt
		}
	}

	ranked := make([]core.InteractionCategory, 0, len(counts))
	for cat := range counts {
		ranked = append(ranked, cat)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return lastUsed[a].After(lastUsed[b])
	})
	return ranked
}

// ToleranceWindow returns the days-without-contact threshold after which a
// check-in is due: the learned cadence when the pattern is reliable, the
// tier default otherwise.
func ToleranceWindow(p core.Pattern, tier core.Tier) float64 {
	if p.Reliable && p.AverageIntervalDays > 0 {
		return p.AverageIntervalDays * toleranceMultiplier
	}
	return TierDefaultWindow(tier)
}

// TierDefaultWindow returns the fallback check-in window for a tier.
func TierDefaultWindow(tier core.Tier) float64 {
	if w, ok := tierDefaultWindows[tier]; ok {
		return w
	}
	return tierDefaultWindows[core.TierClose]
}

// TierFit scores, 0-100, how well the actual contact rhythm matches what
// the tier expects. 100 means contact at least as frequent as the tier
// default window; it falls off as the observed cadence stretches past it.
// Relationships without enough history score neutral (50).
func TierFit(p core.Pattern, tier core.Tier) float64 {
	if p.AverageIntervalDays <= 0 {
		return 50
	}
	expected := TierDefaultWindow(tier)
	ratio := expected / p.AverageIntervalDays
	if ratio >= 1 {
		return 100
	}
	return math.Max(0, ratio*100)
}
