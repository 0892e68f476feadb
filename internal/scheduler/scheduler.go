// Package scheduler triggers polling cycles at a fixed interval. Cycles never
// overlap: a tick or manual trigger arriving while a cycle runs is coalesced
// into at most one pending run.
package scheduler

import (
	"context"
	"sync"
	"time"

	"lp-tracker/internal/config"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/service"

	"github.com/rs/zerolog"
)

type CycleRunner interface {
	Run(ctx context.Context) (service.CycleSummary, error)
}

type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	logger   zerolog.Logger

	trigger chan struct{}
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(cycles *service.CycleService, cfg *config.Config, logger zerolog.Logger) *Scheduler {
	return NewWith(cycles, cfg.PollInterval, logger)
}

func NewWith(runner CycleRunner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Start runs a first cycle right away and then one per interval until Stop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.TriggerNow()

	go s.loop(ctx, s.done)
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
}

// Stop cancels the running cycle, if any, and waits for the loop to exit.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		s.logger.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow requests a cycle as soon as the current one, if any, finishes.
// It reports false when a run is already pending.
func (s *Scheduler) TriggerNow() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-s.trigger:
		}
		s.runOnce(ctx)
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error().Err(err).Str("kind", domain.ErrorKind(err)).Msg("cycle failed")
		return
	}
	s.logger.Info().
		Int("accounts", summary.Accounts).
		Int("events", summary.Events).
		Int("delivered", summary.Delivered).
		Dur("duration", summary.Duration).
		Msg("cycle completed")
}
