package pattern

import (
	"math"
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

var anchor = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// history builds completed interactions at the given day offsets before the
// anchor, all in one category unless overridden.
func history(dayOffsets []float64, cats ...core.InteractionCategory) []core.Interaction {
	out := make([]core.Interaction, len(dayOffsets))
	for i, off := range dayOffsets {
		cat := core.CategoryHangout
		if i < len(cats) {
			cat = cats[i]
		}
		out[i] = core.Interaction{
			ID:         "int_" + string(rune('a'+i)),
			Category:   cat,
			Status:     core.StatusCompleted,
			OccurredAt: anchor.Add(-time.Duration(off*24) * time.Hour),
		}
	}
	return out
}

func TestAnalyze_Empty(t *testing.T) {
	p := Analyze(nil)
	if p.Reliable {
		t.Error("empty history should not be reliable")
	}
	if p.AverageIntervalDays != 0 {
		t.Errorf("AverageIntervalDays = %f, want 0", p.AverageIntervalDays)
	}
	if len(p.PreferredCategories) != 0 {
		t.Error("empty history should have no preferred categories")
	}
}

func TestAnalyze_RegularCadenceIsReliable(t *testing.T) {
	// Four interactions exactly 10 days apart: three identical intervals.
	p := Analyze(history([]float64{0, 10, 20, 30}))

	if math.Abs(p.AverageIntervalDays-10) > 1e-9 {
		t.Errorf("AverageIntervalDays = %f, want 10", p.AverageIntervalDays)
	}
	if !p.Reliable {
		t.Error("zero-variance cadence should be reliable")
	}
}

func TestAnalyze_TwoIntervalsNeverReliable(t *testing.T) {
	p := Analyze(history([]float64{0, 10, 20}))
	if p.Reliable {
		t.Error("fewer than 3 intervals must not be reliable")
	}
	if math.Abs(p.AverageIntervalDays-10) > 1e-9 {
		t.Errorf("AverageIntervalDays = %f, want 10", p.AverageIntervalDays)
	}
}

func TestAnalyze_ErraticCadenceNotReliable(t *testing.T) {
	// Intervals 1, 29, 2, 40 days: huge variance.
	p := Analyze(history([]float64{0, 1, 30, 32, 72}))
	if p.Reliable {
		t.Error("erratic cadence should not be reliable")
	}
}

func TestAnalyze_IgnoresPlanned(t *testing.T) {
	ins := history([]float64{0, 10, 20, 30})
	ins = append(ins, core.Interaction{
		ID:         "planned",
		Category:   core.CategoryEventParty,
		Status:     core.StatusPlanned,
		OccurredAt: anchor.Add(72 * time.Hour),
	})

	p := Analyze(ins)
	if math.Abs(p.AverageIntervalDays-10) > 1e-9 {
		t.Errorf("planned interaction changed cadence: %f", p.AverageIntervalDays)
	}
	for _, cat := range p.PreferredCategories {
		if cat == core.CategoryEventParty {
			t.Error("planned interaction leaked into preferred categories")
		}
	}
}

func TestAnalyze_UnsortedInput(t *testing.T) {
	ins := history([]float64{20, 0, 30, 10})
	p := Analyze(ins)
	if math.Abs(p.AverageIntervalDays-10) > 1e-9 {
		t.Errorf("AverageIntervalDays = %f, want 10 regardless of input order", p.AverageIntervalDays)
	}
}

func TestAnalyze_CategoryRanking(t *testing.T) {
	ins := history(
		[]float64{0, 5, 10, 15, 20},
		core.CategoryDeepTalk, // most recent
		core.CategoryMealDrink,
		core.CategoryMealDrink,
		core.CategoryTextCall,
		core.CategoryTextCall,
	)

	p := Analyze(ins)
	if len(p.PreferredCategories) != 3 {
		t.Fatalf("got %d categories, want 3", len(p.PreferredCategories))
	}
	// meal_drink and text_call tie on count 2; meal_drink is more recent.
	if p.PreferredCategories[0] != core.CategoryMealDrink {
		t.Errorf("first = %s, want meal_drink", p.PreferredCategories[0])
	}
	if p.PreferredCategories[1] != core.CategoryTextCall {
		t.Errorf("second = %s, want text_call", p.PreferredCategories[1])
	}
	if p.PreferredCategories[2] != core.CategoryDeepTalk {
		t.Errorf("third = %s, want deep_talk", p.PreferredCategories[2])
	}
}

func TestToleranceWindow(t *testing.T) {
	reliable := core.Pattern{AverageIntervalDays: 10, Reliable: true}
	if got := ToleranceWindow(reliable, core.TierInner); math.Abs(got-15) > 1e-9 {
		t.Errorf("reliable window = %f, want 15", got)
	}

	unreliable := core.Pattern{AverageIntervalDays: 10, Reliable: false}
	if got := ToleranceWindow(unreliable, core.TierInner); got != 7 {
		t.Errorf("inner fallback = %f, want 7", got)
	}
	if got := ToleranceWindow(unreliable, core.TierCommunity); got != 30 {
		t.Errorf("community fallback = %f, want 30", got)
	}
	if got := ToleranceWindow(unreliable, "unknown"); got != 14 {
		t.Errorf("unknown tier fallback = %f, want close default 14", got)
	}
}

func TestTierFit(t *testing.T) {
	if got := TierFit(core.Pattern{}, core.TierInner); got != 50 {
		t.Errorf("no history fit = %f, want neutral 50", got)
	}
	if got := TierFit(core.Pattern{AverageIntervalDays: 5}, core.TierInner); got != 100 {
		t.Errorf("frequent contact fit = %f, want 100", got)
	}
	got := TierFit(core.Pattern{AverageIntervalDays: 28}, core.TierInner)
	if math.Abs(got-25) > 1e-9 {
		t.Errorf("sparse contact fit = %f, want 25", got)
	}
}
