// Package tracker runs polling cycles: for each tracked account it detects new
// matches, computes rank deltas, extends the rank history and builds the
// result events, persisting each account independently.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lp-tracker/internal/cursor"
	"lp-tracker/internal/domain"
	"lp-tracker/internal/history"
	"lp-tracker/internal/notify"
	"lp-tracker/internal/rank"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type AccountStore interface {
	Save(ctx context.Context, acc domain.TrackedAccount) error
}

type MatchSource interface {
	ListRecentMatchIDs(ctx context.Context, puuid string, region domain.Region, filter domain.MatchFilter) ([]string, error)
	GetMatchDetail(ctx context.Context, matchID string, region domain.Region) (*domain.MatchDetail, error)
}

type RankSource interface {
	GetCurrentRank(ctx context.Context, summonerID string, region domain.Region) (domain.Snapshot, error)
}

type Options struct {
	HistoryCapacity int
	PageSize        int
	// QueueID restricts listed and processed matches, 0 disables the filter.
	QueueID int
	Workers int
}

type Tracker struct {
	store   AccountStore
	matches MatchSource
	ranks   RankSource
	opts    Options
	guard   *inflight
	logger  zerolog.Logger
	now     func() time.Time
}

func New(store AccountStore, matches MatchSource, ranks RankSource, opts Options, logger zerolog.Logger) *Tracker {
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Tracker{
		store:   store,
		matches: matches,
		ranks:   ranks,
		opts:    opts,
		guard:   newInflight(),
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle processes every account once and returns the events of the
// accounts whose new state was persisted, each account's events in match
// order. Per-account failures are logged and skipped; only a credential
// failure stops the cycle, in which case it is returned with the events
// gathered so far.
func (t *Tracker) RunCycle(ctx context.Context, accounts []domain.TrackedAccount) ([]domain.MatchResultEvent, error) {
	start := time.Now()
	results := make([][]domain.MatchResultEvent, len(accounts))
	var processed, busy, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Workers)

	for i, acc := range accounts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if !t.guard.tryAcquire(acc.ID) {
				busy.Add(1)
				t.logger.Debug().Str("account_id", acc.ID).Msg("account busy in another cycle, skipping")
				return nil
			}
			defer t.guard.release(acc.ID)
			if t.guard.stale(acc.ID, acc.CursorMatchID) {
				busy.Add(1)
				t.logger.Debug().Str("account_id", acc.ID).Str("cursor", acc.CursorMatchID).Msg("account committed since it was loaded, skipping")
				return nil
			}

			events, err := t.processAccount(gctx, acc)
			if err != nil {
				if domain.IsFatal(err) {
					return fmt.Errorf("account %s: %w", acc.ID, err)
				}
				failed.Add(1)
				t.logger.Warn().
					Err(err).
					Str("account_id", acc.ID).
					Str("riot_id", acc.RiotID()).
					Str("kind", domain.ErrorKind(err)).
					Msg("account skipped this cycle")
				return nil
			}
			processed.Add(1)
			results[i] = events
			return nil
		})
	}

	err := g.Wait()

	var events []domain.MatchResultEvent
	for _, r := range results {
		events = append(events, r...)
	}

	logEvent := t.logger.Info()
	if err != nil {
		logEvent = t.logger.Error().Err(err)
	}
	logEvent.
		Int("accounts", len(accounts)).
		Int64("processed", processed.Load()).
		Int64("busy", busy.Load()).
		Int64("failed", failed.Load()).
		Int("events", len(events)).
		Dur("duration", time.Since(start)).
		Msg("polling cycle finished")

	return events, err
}

func (t *Tracker) processAccount(ctx context.Context, acc domain.TrackedAccount) ([]domain.MatchResultEvent, error) {
	log := t.logger.With().Str("account_id", acc.ID).Str("riot_id", acc.RiotID()).Logger()

	ids, err := t.matches.ListRecentMatchIDs(ctx, acc.AccountRef, acc.Region, domain.MatchFilter{
		QueueID: t.opts.QueueID,
		Count:   t.opts.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if len(ids) > t.opts.PageSize {
		ids = ids[:t.opts.PageSize]
	}

	newIDs, next := cursor.SelectNewMatches(ids, acc.CursorMatchID)
	if len(newIDs) == 0 {
		log.Debug().Str("cursor", acc.CursorMatchID).Msg("no new matches")
		return nil, nil
	}
	log.Debug().Int("new_matches", len(newIDs)).Str("cursor", acc.CursorMatchID).Str("next", next).Msg("new matches found")

	current, err := t.ranks.GetCurrentRank(ctx, acc.SummonerID, acc.Region)
	if err != nil {
		return nil, fmt.Errorf("current rank: %w", err)
	}

	// the first record of an account has no delta, even when registration stored a baseline
	prev := acc.LastSnapshot
	if len(acc.History) == 0 {
		prev = nil
	}
	hist := acc.History
	events := make([]domain.MatchResultEvent, 0, len(newIDs))

	for _, id := range newIDs {
		detail, err := t.matches.GetMatchDetail(ctx, id, acc.Region)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrMalformed) {
				log.Warn().Err(err).Str("match_id", id).Str("kind", domain.ErrorKind(err)).Msg("skipping match")
				continue
			}
			return nil, fmt.Errorf("match %s: %w", id, err)
		}
		if t.opts.QueueID > 0 && detail.QueueID != t.opts.QueueID {
			log.Debug().Str("match_id", id).Int("queue_id", detail.QueueID).Msg("skipping match from other queue")
			continue
		}
		p, ok := detail.Participant(acc.AccountRef)
		if !ok {
			log.Warn().Str("match_id", id).Str("kind", domain.ErrorKind(domain.ErrMalformed)).Msg("account missing from match participants, skipping match")
			continue
		}

		delta := rank.ComputeDelta(prev, current)
		hist = history.Append(hist, domain.RankRecord{
			Tier:          current.Tier,
			Division:      current.Division,
			Points:        current.Points,
			Timestamp:     t.now(),
			MatchID:       id,
			PointsDelta:   delta.PointsPtr(),
			LowConfidence: delta.IsLowConfidence(),
		}, t.opts.HistoryCapacity)
		events = append(events, notify.BuildEvent(acc, *detail, p, current, delta))

		if delta.IsLowConfidence() {
			log.Warn().Str("match_id", id).Int("delta", delta.Points).Msg("ranked/unranked transition, delta is low confidence")
		}

		snap := current
		prev = &snap
	}

	updated := acc
	updated.CursorMatchID = next
	updated.History = hist
	if len(events) > 0 {
		snap := current
		updated.LastSnapshot = &snap
	}

	if err := t.store.Save(ctx, updated); err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return nil, fmt.Errorf("save account: %w", err)
	}
	t.guard.commit(acc.ID, next)

	log.Info().
		Int("events", len(events)).
		Str("cursor", next).
		Str("rank", current.String()).
		Msg("account updated")
	return events, nil
}
