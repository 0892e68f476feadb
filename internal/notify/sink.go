package notify

import (
	"context"
	"errors"

	"lp-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type Sink interface {
	Publish(ctx context.Context, event domain.MatchResultEvent) error
}

type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(_ context.Context, e domain.MatchResultEvent) error {
	s.logger.Info().
		Str("account_id", e.AccountID).
		Str("riot_id", e.RiotID).
		Str("match_id", e.MatchID).
		Str("outcome", string(e.Outcome)).
		Str("rank", e.Current.String()).
		Str("lp_change", FormatDelta(e.PointsDelta, e.LowConfidence)).
		Str("champion", e.Stats.Champion).
		Msg("match result")
	return nil
}

// Multi delivers each event to every sink; one failing sink does not stop the others.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e domain.MatchResultEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
