package fx

import (
	"database/sql"

	"lp-tracker/internal/api"
	"lp-tracker/internal/config"
	"lp-tracker/internal/database"
	"lp-tracker/internal/db"
	"lp-tracker/internal/logger"
	"lp-tracker/internal/notify"
	"lp-tracker/internal/repository"
	"lp-tracker/internal/scheduler"
	"lp-tracker/internal/server"
	"lp-tracker/internal/service"
	"lp-tracker/internal/tracker"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideTracker(repo *repository.AccountRepository, riot *api.RiotClient, cfg *config.Config, log zerolog.Logger) *tracker.Tracker {
	return tracker.New(repo, riot, riot, tracker.Options{
		HistoryCapacity: cfg.HistoryCapacity,
		PageSize:        cfg.MatchPageSize,
		QueueID:         cfg.QueueID,
		Workers:         cfg.PollWorkers,
	}, logger.Component(log, "tracker"))
}

// ProvideSink always logs events and additionally posts them when WEBHOOK_URL is set.
func ProvideSink(cfg *config.Config, log zerolog.Logger) notify.Sink {
	sinks := notify.Multi{notify.NewLogSink(logger.Component(log, "events"))}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.WebhookURL, nil))
	}
	return sinks
}

func ProvideServer(accounts *service.AccountService, sched *scheduler.Scheduler, riot *api.RiotClient, log zerolog.Logger) *server.TrackerServer {
	return server.NewTrackerServer(accounts, sched, riot, log)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewAccountRepository),
	// api client
	fx.Provide(api.NewRiotClient),
	// tracking
	fx.Provide(ProvideTracker),
	fx.Provide(ProvideSink),
	// svc
	fx.Provide(service.NewAccountService),
	fx.Provide(service.NewCycleService),
	fx.Provide(scheduler.New),
	// server
	fx.Provide(ProvideServer),
)
