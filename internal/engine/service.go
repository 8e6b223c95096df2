package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kinship-hq/kinship/internal/cooldown"
	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/effectiveness"
	"github.com/kinship-hq/kinship/internal/holidays"
	"github.com/kinship-hq/kinship/internal/logging"
	"github.com/kinship-hq/kinship/internal/pattern"
	"github.com/kinship-hq/kinship/internal/rules"
	"github.com/kinship-hq/kinship/internal/scoring"
	"github.com/kinship-hq/kinship/internal/storage"
)

// ServiceConfig configures batch suggestion generation.
type ServiceConfig struct {
	// MaxConcurrency bounds how many relationships are evaluated at once.
	MaxConcurrency int
	// RecentLimit caps the interaction history loaded per relationship.
	RecentLimit int
	// TrendWindowDays is the trailing window the trend signal sums over.
	TrendWindowDays int
	// HolidayLeadDays is the widest holiday lookahead; individual holidays
	// can narrow it.
	HolidayLeadDays int
	// BatchBudget is the wall-clock limit for one batch. Relationships not
	// evaluated in time are omitted, never blocked on. Zero means no limit.
	BatchBudget time.Duration

	Triage TriageConfig
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxConcurrency:  8,
		RecentLimit:     50,
		TrendWindowDays: 14,
		HolidayLeadDays: 14,
		BatchBudget:     30 * time.Second,
		Triage:          DefaultTriageConfig(),
	}
}

// Service drives batch suggestion generation: it materializes a rule
// context per relationship, runs the waterfall concurrently, then triages
// and cooldown-filters the combined set.
type Service struct {
	rels         *storage.RelationshipStore
	interactions *storage.InteractionStore
	intentions   *storage.IntentionStore
	lifeEvents   *storage.LifeEventStore
	outcomes     *effectiveness.Computer
	calendar     holidays.Calendar
	orchestrator *Orchestrator
	cooldowns    cooldown.Registry

	config ServiceConfig
	log    *logging.Logger
}

// NewService wires a service over its stores and collaborators.
func NewService(
	db *storage.DB,
	orchestrator *Orchestrator,
	cooldowns cooldown.Registry,
	calendar holidays.Calendar,
	cfg ServiceConfig,
) *Service {
	interactions := storage.NewInteractionStore(db)
	return &Service{
		rels:         storage.NewRelationshipStore(db),
		interactions: interactions,
		intentions:   storage.NewIntentionStore(db),
		lifeEvents:   storage.NewLifeEventStore(db),
		outcomes:     effectiveness.New(interactions),
		calendar:     calendar,
		orchestrator: orchestrator,
		cooldowns:    cooldowns,
		config:       cfg,
		log:          logging.Component("engine"),
	}
}

// Generate produces the full suggestion batch for the given moment.
func (s *Service) Generate(ctx context.Context, now time.Time) ([]core.Suggestion, error) {
	rels, err := s.rels.List(ctx)
	if err != nil {
		return nil, err
	}

	batchCtx := ctx
	if s.config.BatchBudget > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, s.config.BatchBudget)
		defer cancel()
	}

	upcoming := s.calendar.UpcomingHolidays(now, s.config.HolidayLeadDays)

	// One slot per relationship keeps the batch in listing order, which
	// triage depends on.
	results := make([]*core.Suggestion, len(rels))
	sem := make(chan struct{}, s.maxConcurrency())
	var wg sync.WaitGroup

	for i := range rels {
		if batchCtx.Err() != nil {
			s.log.Warn("batch budget exhausted, omitting %d relationships", len(rels)-i)
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rel core.Relationship) {
			defer wg.Done()
			defer func() { <-sem }()

			rc, err := s.buildContext(batchCtx, rel, now, upcoming)
			if err != nil {
				s.log.WithField("relationship", rel.ID).Warn("skipping: %v", err)
				return
			}
			results[i] = s.orchestrator.ForRelationship(rc)
		}(i, rels[i])
	}
	wg.Wait()

	batch := make([]core.Suggestion, 0, len(results)+1)
	for _, r := range results {
		if r != nil {
			batch = append(batch, *r)
		}
	}

	if weekly := s.weeklyReflection(ctx, now); weekly != nil {
		batch = append(batch, *weekly)
	}

	batch = Triage(batch, s.config.Triage, now)
	return s.filterCooldowns(ctx, batch, now), nil
}

func (s *Service) maxConcurrency() int {
	if s.config.MaxConcurrency < 1 {
		return 1
	}
	return s.config.MaxConcurrency
}

// buildContext materializes everything one relationship's rules may read.
func (s *Service) buildContext(ctx context.Context, rel core.Relationship, now time.Time, upcoming []holidays.Upcoming) (rules.Context, error) {
	recent, err := s.interactions.RecentCompleted(ctx, rel.ID, s.config.RecentLimit)
	if err != nil {
		return rules.Context{}, err
	}
	planned, err := s.interactions.Planned(ctx, rel.ID)
	if err != nil {
		return rules.Context{}, err
	}
	intentions, err := s.intentions.ActiveFor(ctx, rel.ID)
	if err != nil {
		return rules.Context{}, err
	}
	events, err := s.lifeEvents.For(ctx, rel.ID)
	if err != nil {
		return rules.Context{}, err
	}
	outcomes, err := s.outcomes.ByCategory(ctx, rel.ID)
	if err != nil {
		return rules.Context{}, err
	}
	trend, err := s.trend(ctx, rel, now)
	if err != nil {
		return rules.Context{}, err
	}

	pat := pattern.Analyze(recent)
	return rules.Context{
		Now:           now,
		Relationship:  rel,
		Score:         scoring.CurrentScore(rel, now),
		Pattern:       pat,
		Recent:        recent,
		Planned:       planned,
		Intentions:    intentions,
		LifeEvents:    events,
		Trend:         trend,
		TierFit:       pattern.TierFit(pat, rel.Tier),
		Effectiveness: outcomes,
		Holidays:      upcoming,
	}, nil
}

// trend sums the score the relationship gained from interactions inside the
// trailing window, recomputed from the frozen logging-time scores.
func (s *Service) trend(ctx context.Context, rel core.Relationship, now time.Time) (float64, error) {
	since := now.AddDate(0, 0, -s.config.TrendWindowDays)
	contributions, err := s.interactions.ContributionsSince(ctx, rel.ID, since)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, c := range contributions {
		sum += scoring.InteractionDelta(rel, c.Interaction, c.ScoreAtLogging)
	}
	return sum, nil
}

func (s *Service) weeklyReflection(ctx context.Context, now time.Time) *core.Suggestion {
	reflected, err := s.interactions.ReflectedOn(ctx, now)
	if err != nil {
		s.log.Warn("weekly reflection check failed: %v", err)
		return nil
	}
	return rules.WeeklyReflection(now, reflected)
}

// filterCooldowns drops suggestions the user recently dismissed. A registry
// failure fails open: better a repeated suggestion than a silent one.
func (s *Service) filterCooldowns(ctx context.Context, batch []core.Suggestion, now time.Time) []core.Suggestion {
	if s.cooldowns == nil {
		return batch
	}
	out := batch[:0]
	for _, sug := range batch {
		on, err := s.cooldowns.IsOnCooldown(ctx, sug.ID, now)
		if err != nil {
			s.log.Warn("cooldown lookup for %s failed: %v", sug.ID, err)
			on = false
		}
		if !on {
			out = append(out, sug)
		}
	}
	return out
}

// Dismiss records a dismissal so the suggestion kind stays quiet for its
// cooldown window. Non-dismissible suggestions are refused.
func (s *Service) Dismiss(ctx context.Context, suggestionID string, now time.Time) error {
	if strings.HasPrefix(suggestionID, "drift-critical-") {
		return core.ErrNotDismissible
	}
	if s.cooldowns == nil {
		return core.ErrCooldownUnavailable
	}
	return s.cooldowns.RecordDismissal(ctx, suggestionID, now)
}

// Stores exposes the service's stores for the API layer, which shares the
// same database handle.
func (s *Service) Stores() (*storage.RelationshipStore, *storage.InteractionStore, *storage.IntentionStore, *storage.LifeEventStore) {
	return s.rels, s.interactions, s.intentions, s.lifeEvents
}
