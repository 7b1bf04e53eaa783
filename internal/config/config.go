package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	Top5SyncURL    string
	Timezone       string
	// NotifyWindowDays is how far ahead the notification feed looks for
	// expense occurrences.
	NotifyWindowDays int
	// ExpenseAlertThreshold is the minimum amount worth a feed entry.
	ExpenseAlertThreshold float64
	RecomputeInterval     time.Duration
	SyncDebounce          time.Duration
	SyncCooldown          time.Duration
	// SweepTime is the HH:MM local time of the daily read-past sweep.
	SweepTime string
}

// Load reads configuration from environment variables with sane defaults.
// Nothing is required: with no token and no sync URL the app still runs,
// it just keeps everything local.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:           strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken:         strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		Top5SyncURL:           strings.TrimSpace(os.Getenv("TOP5_SYNC_URL")),
		Timezone:              strings.TrimSpace(os.Getenv("TIMEZONE")),
		NotifyWindowDays:      parseInt(os.Getenv("NOTIFY_WINDOW_DAYS"), 14),
		ExpenseAlertThreshold: parseFloat(os.Getenv("EXPENSE_ALERT_THRESHOLD"), 50),
		RecomputeInterval:     parseSeconds(os.Getenv("RECOMPUTE_INTERVAL_SECONDS"), 30*time.Second),
		SyncDebounce:          parseSeconds(os.Getenv("TOP5_SYNC_DEBOUNCE_SECONDS"), 5*time.Second),
		SyncCooldown:          parseMinutes(os.Getenv("TOP5_SYNC_COOLDOWN_MINUTES"), 10*time.Minute),
		SweepTime:             strings.TrimSpace(os.Getenv("SWEEP_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "pocket_planner.db"
	}
	if cfg.SweepTime == "" {
		cfg.SweepTime = "03:30"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q", raw)
		}
		cfg.TelegramChatID = chatID
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func parseInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseFloat(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

func parseSeconds(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func parseMinutes(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Minute
}
