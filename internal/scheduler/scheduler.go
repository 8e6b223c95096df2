// Package scheduler periodically regenerates the suggestion batch and
// pushes it to listeners, so clients see fresh suggestions without
// polling.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kinship-hq/kinship/internal/core"
	"github.com/kinship-hq/kinship/internal/engine"
	"github.com/kinship-hq/kinship/internal/logging"
)

// Broadcaster receives each freshly generated batch.
type Broadcaster interface {
	BroadcastSuggestions(batch []core.Suggestion)
}

// Config for the scheduler.
type Config struct {
	// Interval between regenerations.
	Interval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: 30 * time.Minute}
}

// Scheduler drives periodic suggestion refreshes.
type Scheduler struct {
	service *engine.Service
	sink    Broadcaster
	config  Config
	log     *logging.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// New creates a scheduler over an engine service.
func New(service *engine.Service, sink Broadcaster, config Config) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Scheduler{
		service: service,
		sink:    sink,
		config:  config,
		log:     logging.Component("scheduler"),
		stopCh:  make(chan struct{}),
	}
}

// Start begins the refresh loop. An immediate refresh runs before the
// first tick so clients are not left waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	go s.runRefreshLoop(ctx)

	s.log.Info("scheduler started, refreshing every %s", s.config.Interval)
	return nil
}

// Stop halts the refresh loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}

func (s *Scheduler) runRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	batch, err := s.service.Generate(ctx, time.Now())
	if err != nil {
		s.log.Warn("suggestion refresh failed: %v", err)
		return
	}
	s.log.Debug("refreshed %d suggestions", len(batch))
	s.sink.BroadcastSuggestions(batch)
}
