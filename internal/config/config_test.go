package config

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "TOP5_SYNC_URL",
		"TIMEZONE", "NOTIFY_WINDOW_DAYS", "EXPENSE_ALERT_THRESHOLD",
		"RECOMPUTE_INTERVAL_SECONDS", "TOP5_SYNC_DEBOUNCE_SECONDS",
		"TOP5_SYNC_COOLDOWN_MINUTES", "SWEEP_TIME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.DatabaseURL, "pocket_planner.db")
	is.Equal(cfg.NotifyWindowDays, 14)
	is.Equal(cfg.ExpenseAlertThreshold, 50.0)
	is.Equal(cfg.RecomputeInterval, 30*time.Second)
	is.Equal(cfg.SyncDebounce, 5*time.Second)
	is.Equal(cfg.SyncCooldown, 10*time.Minute)
	is.Equal(cfg.SweepTime, "03:30")
	is.Equal(cfg.TelegramToken, "")
}

func TestLoadOverrides(t *testing.T) {
	is := is.New(t)
	clearEnv(t)
	t.Setenv("DATABASE_URL", "/tmp/planner/test.db")
	t.Setenv("NOTIFY_WINDOW_DAYS", "7")
	t.Setenv("EXPENSE_ALERT_THRESHOLD", "100")
	t.Setenv("RECOMPUTE_INTERVAL_SECONDS", "60")
	t.Setenv("SWEEP_TIME", "04:00")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.DatabaseURL, "/tmp/planner/test.db")
	is.Equal(cfg.NotifyWindowDays, 7)
	is.Equal(cfg.ExpenseAlertThreshold, 100.0)
	is.Equal(cfg.RecomputeInterval, time.Minute)
	is.Equal(cfg.SweepTime, "04:00")
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	is := is.New(t)
	clearEnv(t)
	t.Setenv("NOTIFY_WINDOW_DAYS", "not-a-number")
	t.Setenv("RECOMPUTE_INTERVAL_SECONDS", "-5")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.NotifyWindowDays, 14)
	is.Equal(cfg.RecomputeInterval, 30*time.Second)
}

func TestLoadTokenRequiresChatID(t *testing.T) {
	is := is.New(t)
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	_, err := Load()
	is.True(err != nil)

	t.Setenv("TELEGRAM_CHAT_ID", "42")
	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.TelegramChatID, int64(42))
}

func TestLocationFallsBackToLocal(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	cfg := Config{Timezone: "Not/AZone"}
	is.Equal(cfg.Location(), time.Local)

	cfg = Config{Timezone: "UTC"}
	is.Equal(cfg.Location().String(), "UTC")
}
