package scoring

import (
	"math"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	// MinScore and MaxScore bound the vitality score at every write and read.
	MinScore = 0
	MaxScore = 100
)

// Clamp forces a score into [0,100] and squashes NaN to 0.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return MinScore
	}
	return math.Min(MaxScore, math.Max(MinScore, score))
}

// CurrentScore derives the live vitality score: the stored score minus tier
// decay for the days elapsed since the last interaction. Pure function of
// (relationship, now); never mutates the stored value.
func CurrentScore(rel core.Relationship, now time.Time) float64 {
	stored := Clamp(rel.VitalityScore)

	since := rel.CreatedAt
	if rel.LastInteractionAt != nil {
		since = *rel.LastInteractionAt
	}
	days := now.Sub(since).Hours() / 24
	if days <= 0 {
		return stored
	}

	return Clamp(stored - DecayRatePerDay(rel.Tier)*days)
}

// InteractionDelta computes the score contribution of one completed
// interaction for one participant:
//
//	base(category) x affinity(archetype, category) x duration x vibe x saturation(band at logging)
//
// scoreAtLogging is the participant's score at the moment the interaction
// was logged; it selects the saturation band. The same parameters always
// produce the same delta, which is what makes edits and deletions exactly
// reversible.
func InteractionDelta(rel core.Relationship, in core.Interaction, scoreAtLogging float64) float64 {
	if !in.Completed() {
		return 0
	}

	delta := BaseScore(in.Category) *
		ArchetypeAffinity(rel.Archetype, in.Category) *
		DurationModifier(in.Duration) *
		VibeMultiplier(in.Vibe) *
		SaturationFactor(scoreAtLogging)

	if math.IsNaN(delta) || delta < 0 {
		return 0
	}
	return delta
}

// Apply adds an interaction's contribution to a stored score, clamped at the
// ceiling. Returns the new stored score and the delta actually used, so the
// caller can remember it for later reversal.
func Apply(rel core.Relationship, in core.Interaction, stored float64) (newScore, delta float64) {
	stored = Clamp(stored)
	delta = InteractionDelta(rel, in, stored)
	return Clamp(stored + delta), delta
}

// Revert backs out a previously applied contribution. The delta must be
// recomputed with the ORIGINAL interaction parameters and the original
// score band, not the current ones.
func Revert(rel core.Relationship, original core.Interaction, scoreAtLogging, stored float64) float64 {
	delta := InteractionDelta(rel, original, scoreAtLogging)
	return Clamp(Clamp(stored) - delta)
}

// Band labels a score for display and for the saturation table.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// BandOf returns the band a score falls in.
func BandOf(score float64) Band {
	switch {
	case score < lowBandCeiling:
		return BandLow
	case score > highBandFloor:
		return BandHigh
	default:
		return BandMid
	}
}

// DisplayScore is the integer-banded value shown to users. Scores are stored
// and compared as floats; display rounds down.
func DisplayScore(score float64) int {
	return int(Clamp(score))
}
