// Package scoring computes relationship vitality scores.
//
// The model is a stored 0-100 score that gains from logged interactions and
// cools on read as a function of elapsed time and tier. All weights are
// hand-authored constants kept in the lookup tables below so the scoring
// functions stay pure and easy to property-test.
package scoring

import (
	"github.com/kinship-hq/kinship/internal/core"
)

// baseScores is the raw contribution of each interaction category before
// any multiplier is applied.
var baseScores = map[core.InteractionCategory]float64{
	core.CategoryTextCall:      3,
	core.CategoryVoiceNote:     4,
	core.CategoryEventParty:    6,
	core.CategoryFavorSupport:  6,
	core.CategoryHangout:       7,
	core.CategoryMealDrink:     8,
	core.CategoryActivityHobby: 8,
	core.CategoryCelebration:   9,
	core.CategoryDeepTalk:      10,
}

// defaultBaseScore covers unknown categories so malformed records degrade
// instead of erroring.
const defaultBaseScore = 5

// archetypeAffinity maps archetype x category to a multiplier. Connecting
// the way a person likes to connect counts for more. Categories absent from
// an archetype's row are neutral (1.0).
var archetypeAffinity = map[core.Archetype]map[core.InteractionCategory]float64{
	core.ArchetypeDeepDiver: {
		core.CategoryDeepTalk:  1.5,
		core.CategoryVoiceNote: 1.2,
	},
	core.ArchetypeAdventurer: {
		core.CategoryActivityHobby: 1.5,
		core.CategoryHangout:       1.2,
	},
	core.ArchetypeHost: {
		core.CategoryEventParty:  1.5,
		core.CategoryCelebration: 1.2,
	},
	core.ArchetypeNurturer: {
		core.CategoryFavorSupport: 1.5,
		core.CategoryDeepTalk:     1.2,
	},
	core.ArchetypeFoodie: {
		core.CategoryMealDrink: 1.5,
		core.CategoryHangout:   1.2,
	},
	core.ArchetypeTexter: {
		core.CategoryTextCall:  1.5,
		core.CategoryVoiceNote: 1.2,
	},
	core.ArchetypeCelebrator: {
		core.CategoryCelebration: 1.5,
		core.CategoryEventParty:  1.2,
	},
	core.ArchetypeListener: {
		core.CategoryVoiceNote: 1.5,
		core.CategoryTextCall:  1.2,
	},
	core.ArchetypeCompanion: {
		core.CategoryHangout:   1.5,
		core.CategoryMealDrink: 1.2,
	},
}

// durationModifiers scale a contribution by how long the interaction lasted.
var durationModifiers = map[core.Duration]float64{
	core.DurationQuick:    0.75,
	core.DurationStandard: 1.0,
	core.DurationExtended: 1.25,
}

// vibeMultipliers scale a contribution by the 5-point vibe rating. Vibe 0
// (not rated) is neutral.
var vibeMultipliers = [6]float64{1.0, 0.8, 0.9, 1.0, 1.1, 1.25}

// Score bands for the saturation factor. The band is taken at the moment an
// interaction is logged: contributions matter more when the relationship is
// flagging and less when it is already near the ceiling.
const (
	lowBandCeiling = 40
	highBandFloor  = 75
	saturationLow  = 1.25
	saturationMid  = 1.0
	saturationHigh = 0.6
)

// decayPerDay is the per-tier cooling rate. Closer tiers cool faster:
// expectations are higher for the people closest to you.
var decayPerDay = map[core.Tier]float64{
	core.TierInner:     1.2,
	core.TierClose:     0.8,
	core.TierCommunity: 0.4,
}

// defaultDecayPerDay covers relationships with a missing or unknown tier.
const defaultDecayPerDay = 0.8

// BaseScore returns the raw contribution for a category.
func BaseScore(cat core.InteractionCategory) float64 {
	if s, ok := baseScores[cat]; ok {
		return s
	}
	return defaultBaseScore
}

// ArchetypeAffinity returns the affinity multiplier for an archetype and
// category. Unknown archetypes and unlisted categories are neutral.
func ArchetypeAffinity(a core.Archetype, cat core.InteractionCategory) float64 {
	if row, ok := archetypeAffinity[a]; ok {
		if m, ok := row[cat]; ok {
			return m
		}
	}
	return 1.0
}

// PreferredCategory returns the category an archetype weighs highest, and
// whether the archetype is known.
func PreferredCategory(a core.Archetype) (core.InteractionCategory, bool) {
	row, ok := archetypeAffinity[a]
	if !ok {
		return "", false
	}
	var best core.InteractionCategory
	bestW := 0.0
	for cat, w := range row {
		if w > bestW || (w == bestW && cat < best) {
			best, bestW = cat, w
		}
	}
	return best, true
}

// DurationModifier returns the multiplier for a duration bucket. An unset
// duration counts as standard.
func DurationModifier(d core.Duration) float64 {
	if m, ok := durationModifiers[d]; ok {
		return m
	}
	return 1.0
}

// VibeMultiplier returns the multiplier for a 1-5 vibe rating. Out-of-range
// values (including 0, "not rated") are neutral.
func VibeMultiplier(vibe int) float64 {
	if vibe < 1 || vibe > 5 {
		return 1.0
	}
	return vibeMultipliers[vibe]
}

// SaturationFactor returns the diminishing-returns coefficient for the score
// band the relationship was in when the interaction was logged.
func SaturationFactor(scoreAtLogging float64) float64 {
	switch {
	case scoreAtLogging < lowBandCeiling:
		return saturationLow
	case scoreAtLogging > highBandFloor:
		return saturationHigh
	default:
		return saturationMid
	}
}

// DecayRatePerDay returns how many points per day a tier's score cools.
func DecayRatePerDay(t core.Tier) float64 {
	if r, ok := decayPerDay[t]; ok {
		return r
	}
	return defaultDecayPerDay
}
