package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot, the HTTP API and the scheduler.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	HTTPAddr      string
	Location      *time.Location
	ReminderTime  string
	LogLevel      string
}

// Load reads configuration from environment variables with sane defaults.
// Values from a .env file in the working directory are used when present;
// real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:      strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		ReminderTime:  strings.TrimSpace(os.Getenv("REMINDER_TIME")),
		LogLevel:      strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "momentum.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = "20:00"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	loc, err := parseLocation(strings.TrimSpace(os.Getenv("TIMEZONE")))
	if err != nil {
		return cfg, err
	}
	cfg.Location = loc

	if err := validateClock(cfg.ReminderTime); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func parseLocation(raw string) (*time.Location, error) {
	if raw == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", raw, err)
	}
	return loc, nil
}

func validateClock(raw string) error {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return fmt.Errorf("REMINDER_TIME %q, expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("REMINDER_TIME %q: invalid hour", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("REMINDER_TIME %q: invalid minute", raw)
	}
	return nil
}
