// Package cooldown suppresses re-surfacing a suggestion kind for a number
// of days after the user dismissed it.
package cooldown

import (
	"context"
	"strings"
	"time"
)

// Registry is consulted by the engine service before a suggestion ships.
// The orchestrator itself never sees it.
type Registry interface {
	IsOnCooldown(ctx context.Context, suggestionID string, now time.Time) (bool, error)
	RecordDismissal(ctx context.Context, suggestionID string, now time.Time) error
}

// kindDays maps a suggestion-kind ID prefix to its cooldown in days.
// Lookup takes the longest matching prefix, so "drift-critical" wins over
// a hypothetical "drift" entry.
var kindDays = map[string]int{
	"plan-followup":     3,
	"plan-upcoming":     1,
	"life-event":        7,
	"intention":         7,
	"reflection":        1,
	"drift-critical":    3,
	"drift-attention":   7,
	"momentum":          14,
	"first-contact":     7,
	"checkin":           7,
	"community-checkin": 14,
	"deepen":            30,
	"reciprocity-over":  14,
	"reciprocity-under": 14,
	"novelty":           30,
	"insight":           30,
	"seasonal":          30,
	"weekly-reflection": 6,
	"system-focus":      1,
}

const defaultDays = 7

// DaysFor returns the cooldown period for a suggestion ID.
func DaysFor(suggestionID string) int {
	best, bestLen := defaultDays, 0
	for kind, days := range kindDays {
		if len(kind) > bestLen && strings.HasPrefix(suggestionID, kind) {
			best, bestLen = days, len(kind)
		}
	}
	return best
}

// DismissalLog is the storage slice the SQLite-backed registry needs.
type DismissalLog interface {
	Record(ctx context.Context, suggestionID string, at time.Time) error
	LastDismissal(ctx context.Context, suggestionID string) (*time.Time, error)
}

// StoreRegistry computes cooldowns from persisted dismissal timestamps.
type StoreRegistry struct {
	log DismissalLog
}

// NewStoreRegistry creates a registry over a dismissal log.
func NewStoreRegistry(log DismissalLog) *StoreRegistry {
	return &StoreRegistry{log: log}
}

func (r *StoreRegistry) IsOnCooldown(ctx context.Context, suggestionID string, now time.Time) (bool, error) {
	last, err := r.log.LastDismissal(ctx, suggestionID)
	if err != nil {
		return false, err
	}
	if last == nil {
		return false, nil
	}
	until := last.AddDate(0, 0, DaysFor(suggestionID))
	return now.Before(until), nil
}

func (r *StoreRegistry) RecordDismissal(ctx context.Context, suggestionID string, now time.Time) error {
	return r.log.Record(ctx, suggestionID, now)
}
