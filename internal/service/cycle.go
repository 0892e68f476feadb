package service

import (
	"context"
	"time"

	"lp-tracker/internal/domain"
	"lp-tracker/internal/notify"
	"lp-tracker/internal/repository"
	"lp-tracker/internal/tracker"

	"github.com/rs/zerolog"
)

type CycleSummary struct {
	Accounts  int           `json:"accounts"`
	Events    int           `json:"events"`
	Delivered int           `json:"delivered"`
	Duration  time.Duration `json:"duration"`
}

// CycleService loads the tracked accounts, runs one tracker cycle over them and
// hands the resulting events to the sink in order.
type CycleService struct {
	repo    *repository.AccountRepository
	tracker *tracker.Tracker
	sink    notify.Sink
	logger  zerolog.Logger
}

func NewCycleService(repo *repository.AccountRepository, tr *tracker.Tracker, sink notify.Sink, logger zerolog.Logger) *CycleService {
	return &CycleService{repo: repo, tracker: tr, sink: sink, logger: logger}
}

func (s *CycleService) Run(ctx context.Context) (CycleSummary, error) {
	start := time.Now()

	accounts, err := s.repo.ListTracked(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tracked accounts")
		return CycleSummary{}, err
	}

	events, cycleErr := s.tracker.RunCycle(ctx, accounts)
	delivered := s.deliver(ctx, events)

	summary := CycleSummary{
		Accounts:  len(accounts),
		Events:    len(events),
		Delivered: delivered,
		Duration:  time.Since(start),
	}
	if cycleErr != nil {
		s.logger.Error().Err(cycleErr).Str("kind", domain.ErrorKind(cycleErr)).Msg("polling cycle aborted")
		return summary, cycleErr
	}
	return summary, nil
}

func (s *CycleService) deliver(ctx context.Context, events []domain.MatchResultEvent) int {
	delivered := 0
	for _, e := range events {
		if err := s.sink.Publish(ctx, e); err != nil {
			s.logger.Warn().Err(err).Str("account_id", e.AccountID).Str("match_id", e.MatchID).Msg("failed to deliver event")
			continue
		}
		delivered++
	}
	return delivered
}
