package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/enrollment-ledger/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "enrollment-ledger", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, logger.LevelInfo, cfg.Level())
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.Redis.Disabled)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.DailyCountsTTL)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/ledger?sslmode=disable")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("REDIS_DISABLED", "false")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_DAILY_COUNTS_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
	assert.Equal(t, logger.LevelDebug, cfg.Level())
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.False(t, cfg.Redis.Disabled)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 30*time.Second, cfg.Redis.DailyCountsTTL)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse env:")
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "qa")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("REDIS_DISABLED", "false")
	t.Setenv("REDIS_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "REDIS_PORT")
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `APP_TIMEZONE "Mars/Olympus_Mons" is not a known time zone`)

	cfg := &Config{App: AppConfig{Timezone: "Mars/Olympus_Mons"}}
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestLoad_NamedTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Almaty")

	cfg, err := Load()
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Almaty", loc.String())
}
