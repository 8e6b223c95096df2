// Package effectiveness computes, per relationship, how well each
// interaction kind tends to land. The engine treats the ratios as opaque
// input; there is no model behind them, just vibe outcomes.
package effectiveness

import (
	"context"

	"github.com/kinship-hq/kinship/internal/core"
)

const (
	// goodVibe is the rating at which an interaction counts as a win.
	goodVibe = 4
	// minRated is the per-category sample floor; below it the ratio is
	// too noisy to report.
	minRated = 2
	// historyLimit caps how far back the computation looks.
	historyLimit = 100
)

// RecentSource is the slice of storage the computation reads.
type RecentSource interface {
	RecentCompleted(ctx context.Context, relationshipID string, limit int) ([]core.Interaction, error)
}

// Computer derives outcome ratios from interaction history.
type Computer struct {
	interactions RecentSource
}

// New creates a computer over an interaction source.
func New(interactions RecentSource) *Computer {
	return &Computer{interactions: interactions}
}

// ByCategory returns, for each interaction kind with enough rated history,
// the share of interactions rated a good vibe. Unrated interactions are
// ignored entirely.
func (c *Computer) ByCategory(ctx context.Context, relationshipID string) (map[core.InteractionCategory]float64, error) {
	recent, err := c.interactions.RecentCompleted(ctx, relationshipID, historyLimit)
	if err != nil {
		return nil, err
	}

	rated := make(map[core.InteractionCategory]int)
	good := make(map[core.InteractionCategory]int)
	for _, in := range recent {
		if in.Vibe <= 0 {
			continue
		}
		rated[in.Category]++
		if in.Vibe >= goodVibe {
			good[in.Category]++
		}
	}

	out := make(map[core.InteractionCategory]float64)
	for cat, n := range rated {
		if n < minRated {
			continue
		}
		out[cat] = float64(good[cat]) / float64(n)
	}
	return out, nil
}
