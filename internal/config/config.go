package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lp-tracker/internal/constants"
	"lp-tracker/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	RiotAPIKey string
	DBPath     string
	ServerPort string
	LogLevel   string
	WebhookURL string

	PollInterval    time.Duration
	PollWorkers     int
	HistoryCapacity int
	MatchPageSize   int
	QueueID         int
	RankedQueueType string
	Regions         []domain.Region
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:      getEnv("RIOT_API_KEY", ""),
		DBPath:          getEnv("DB_PATH", "tracker.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		WebhookURL:      getEnv("WEBHOOK_URL", ""),
		RankedQueueType: getEnv("RANKED_QUEUE_TYPE", constants.RankedSoloQueueType),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	var err error
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", constants.DefaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.PollWorkers, err = getEnvInt("POLL_WORKERS", constants.DefaultPollWorkers); err != nil {
		return nil, err
	}
	if cfg.HistoryCapacity, err = getEnvInt("HISTORY_CAPACITY", constants.DefaultHistoryCapacity); err != nil {
		return nil, err
	}
	if cfg.MatchPageSize, err = getEnvInt("MATCH_PAGE_SIZE", constants.DefaultMatchPageSize); err != nil {
		return nil, err
	}
	if cfg.QueueID, err = getEnvInt("QUEUE_ID", constants.RankedSoloQueueID); err != nil {
		return nil, err
	}
	if cfg.Regions, err = parseRegions(getEnv("VALID_REGIONS", "")); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("poll_interval", cfg.PollInterval).
		Int("poll_workers", cfg.PollWorkers).
		Int("history_capacity", cfg.HistoryCapacity).
		Int("match_page_size", cfg.MatchPageSize).
		Int("queue_id", cfg.QueueID).
		Int("regions", len(cfg.Regions)).
		Bool("webhook", cfg.WebhookURL != "").
		Msg("configuration loaded")

	return cfg, nil
}

// RegionAllowed reports whether r is one of the configured server codes.
func (c *Config) RegionAllowed(r domain.Region) bool {
	for _, v := range c.Regions {
		if v == r {
			return true
		}
	}
	return false
}

func parseRegions(raw string) ([]domain.Region, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.AllRegions(), nil
	}
	var regions []domain.Region
	for _, part := range strings.Split(raw, ",") {
		r, err := domain.ParseRegion(part)
		if err != nil {
			return nil, fmt.Errorf("VALID_REGIONS: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

var Module = fx.Provide(Load)
