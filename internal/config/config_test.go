package config

import (
	"testing"
	"time"

	"lp-tracker/internal/constants"
	"lp-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "RGAPI-test", cfg.RiotAPIKey)
	assert.Equal(t, constants.DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, 100, cfg.HistoryCapacity)
	assert.Equal(t, 20, cfg.MatchPageSize)
	assert.Equal(t, 420, cfg.QueueID)
	assert.Equal(t, "RANKED_SOLO_5x5", cfg.RankedQueueType)
	assert.Equal(t, domain.AllRegions(), cfg.Regions)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "RGAPI-test")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("POLL_INTERVAL", "90s")
	t.Setenv("HISTORY_CAPACITY", "50")
	t.Setenv("VALID_REGIONS", "euw, EUN")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.PollInterval)
	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, []domain.Region{domain.RegionEUW, domain.RegionEUN}, cfg.Regions)
	assert.True(t, cfg.RegionAllowed(domain.RegionEUW))
	assert.False(t, cfg.RegionAllowed(domain.RegionNA))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		t.Setenv("RIOT_API_KEY", "")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
	t.Run("bad region", func(t *testing.T) {
		t.Setenv("RIOT_API_KEY", "k")
		t.Setenv("VALID_REGIONS", "mars")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
	t.Run("bad page size", func(t *testing.T) {
		t.Setenv("RIOT_API_KEY", "k")
		t.Setenv("MATCH_PAGE_SIZE", "-3")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
}
