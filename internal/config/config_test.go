package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inv_checker/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	t.Setenv("STEAM_ID", "76561198000000001")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal("76561198000000001", cfg.Steam.SteamID)
	rq.Equal(730, cfg.Steam.AppID)
	rq.Equal(2, cfg.Steam.ContextID)
	rq.Equal(3, cfg.Steam.Currency)
	rq.Equal("english", cfg.Steam.Language)
	rq.Equal(100, cfg.Steam.PageSize)

	rq.Equal("price_cache.json", cfg.Cache.File)
	rq.Equal(24*time.Hour, cfg.Cache.Duration)

	rq.Equal(time.Second, cfg.RateLimit.BaseDelay)
	rq.Equal(time.Minute, cfg.RateLimit.MaxDelay)
	rq.InDelta(2.0, cfg.RateLimit.GrowthFactor, 0.0001)
	rq.InDelta(0.2, cfg.RateLimit.Jitter, 0.0001)
	rq.Equal(5, cfg.RateLimit.MaxAttempts)

	rq.Equal(":8080", cfg.Server.HTTPAddress)
	rq.Equal(time.Hour, cfg.Worker.RefreshInterval)

	rq.False(cfg.Postgres.Enabled())
	rq.False(cfg.Redis.Enabled())
	rq.False(cfg.Notifier.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("STEAM_ID", "76561198000000001")
	t.Setenv("STEAM_CURRENCY", "1")
	t.Setenv("CACHE_DURATION", "1h")
	t.Setenv("RATE_BASE_DELAY", "500ms")
	t.Setenv("PG_DSN", "postgres://localhost/inv")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(1, cfg.Steam.Currency)
	rq.Equal(time.Hour, cfg.Cache.Duration)
	rq.Equal(500*time.Millisecond, cfg.RateLimit.BaseDelay)
	rq.True(cfg.Postgres.Enabled())
	rq.True(cfg.Redis.Enabled())
}

func TestLoadRejectsBadSteamID(t *testing.T) {
	rq := require.New(t)

	t.Setenv("STEAM_ID", "not-a-steam-id-at-all")

	_, err := config.Load()
	rq.Error(err)
}

func TestLoadRejectsGrowthFactorBelowOne(t *testing.T) {
	rq := require.New(t)

	t.Setenv("STEAM_ID", "76561198000000001")
	t.Setenv("RATE_GROWTH_FACTOR", "0.5")

	_, err := config.Load()
	rq.Error(err)
}
