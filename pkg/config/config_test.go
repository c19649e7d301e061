package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "09:00", cfg.WorkStart)
	assert.Equal(t, "17:00", cfg.WorkEnd)
	assert.Equal(t, "12:00", cfg.LunchStart)
	assert.Equal(t, 60, cfg.LunchDurationMinutes)
	assert.Equal(t, 5*time.Minute, cfg.CalendarCacheTTL)
	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/dayli")
	t.Setenv("CALENDAR_CACHE_TTL", "90s")
	t.Setenv("LUNCH_DURATION_MINUTES", "30")
	t.Setenv("WORK_START", "08:00")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/dayli", cfg.DatabaseURL)
	assert.Equal(t, 90*time.Second, cfg.CalendarCacheTTL)
	assert.Equal(t, 30, cfg.LunchDurationMinutes)
	assert.Equal(t, "08:00", cfg.WorkStart)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LUNCH_DURATION_MINUTES", "soon")
	t.Setenv("CALENDAR_CACHE_TTL", "whenever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.LunchDurationMinutes)
	assert.Equal(t, 5*time.Minute, cfg.CalendarCacheTTL)
}
