package constants

import "time"

const (
	DefaultPollInterval    = 5 * time.Minute
	DefaultHistoryCapacity = 100
	DefaultMatchPageSize   = 20
	DefaultPollWorkers     = 4
	RankedSoloQueueID      = 420
	RankedSoloQueueType    = "RANKED_SOLO_5x5"
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	AccountTimeout     = 60 * time.Second
	WebhookTimeout     = 10 * time.Second
)

const (
	APIMaxConnsPerHost = 100
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultHistoryView = 10
	MaxHistoryView     = 100
)
