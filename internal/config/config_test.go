package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("REMINDER_TIME", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "momentum.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "20:00", cfg.ReminderTime)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.BotEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "abc")
	t.Setenv("DATABASE_URL", "data/m.db")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("REMINDER_TIME", "07:30")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, "data/m.db", cfg.DatabaseURL)
	assert.Equal(t, "07:30", cfg.ReminderTime)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("TIMEZONE", "")
	t.Setenv("REMINDER_TIME", "25:00")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REMINDER_TIME", "")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.Error(t, err)
}
