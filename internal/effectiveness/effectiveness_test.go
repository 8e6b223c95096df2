package effectiveness

import (
	"context"
	"testing"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
)

type fixedSource struct {
	interactions []core.Interaction
}

func (s fixedSource) RecentCompleted(_ context.Context, _ string, _ int) ([]core.Interaction, error) {
	return s.interactions, nil
}

func rated(cat core.InteractionCategory, vibe int) core.Interaction {
	return core.Interaction{
		ID:         "in",
		Category:   cat,
		Status:     core.StatusCompleted,
		OccurredAt: time.Now(),
		Vibe:       vibe,
	}
}

func TestByCategory(t *testing.T) {
	c := New(fixedSource{interactions: []core.Interaction{
		rated(core.CategoryDeepTalk, 5),
		rated(core.CategoryDeepTalk, 4),
		rated(core.CategoryDeepTalk, 2),
		rated(core.CategoryTextCall, 3),
		rated(core.CategoryTextCall, 4),
		rated(core.CategoryHangout, 5), // one rating, below the floor
		rated(core.CategoryMealDrink, 0),
		rated(core.CategoryMealDrink, 0),
	}})

	ratios, err := c.ByCategory(context.Background(), "rel-1")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}

	if got := ratios[core.CategoryDeepTalk]; got < 0.66 || got > 0.67 {
		t.Errorf("deep_talk ratio = %v, want 2/3", got)
	}
	if got := ratios[core.CategoryTextCall]; got != 0.5 {
		t.Errorf("text_call ratio = %v, want 0.5", got)
	}
	if _, ok := ratios[core.CategoryHangout]; ok {
		t.Error("single-rating category should be omitted")
	}
	if _, ok := ratios[core.CategoryMealDrink]; ok {
		t.Error("unrated interactions must not produce a ratio")
	}
}

func TestByCategoryEmptyHistory(t *testing.T) {
	ratios, err := New(fixedSource{}).ByCategory(context.Background(), "rel-1")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(ratios) != 0 {
		t.Errorf("ratios = %v, want empty", ratios)
	}
}
