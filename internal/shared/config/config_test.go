package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsForPredictionService(t *testing.T) {
	t.Setenv("SERVICE_NAME", "prediction-service")
	t.Setenv("IDEMPOTENCY_TTL", "")

	cfg := Load()

	if cfg.HTTPPort != "8083" || cfg.MetricsPort != "9099" {
		t.Fatalf("unexpected ports http=%s metrics=%s", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("expected default idempotency ttl, got %s", cfg.IdempotencyTTL)
	}
	if cfg.TopicBoosterConsumed != "boosters_consumed" {
		t.Fatalf("unexpected booster topic %q", cfg.TopicBoosterConsumed)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "booster-usage-worker")
	t.Setenv("IDEMPOTENCY_LOCK_TTL", "5s")
	t.Setenv("DATABASE_URL", "sqlite://bolao.db")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg := Load()

	if cfg.MetricsPort != "9097" || cfg.HTTPPort != "" {
		t.Fatalf("unexpected worker ports http=%q metrics=%q", cfg.HTTPPort, cfg.MetricsPort)
	}
	if cfg.IdempotencyLockTTL != 5*time.Second {
		t.Fatalf("expected lock ttl override, got %s", cfg.IdempotencyLockTTL)
	}
	if cfg.DatabaseURL != "sqlite://bolao.db" || !cfg.AutoMigrate {
		t.Fatalf("unexpected db config %q migrate=%v", cfg.DatabaseURL, cfg.AutoMigrate)
	}
}

func TestGetEnvDurationRejectsInvalid(t *testing.T) {
	t.Setenv("SOME_TTL", "abc")
	if got := getEnvDuration("SOME_TTL", time.Minute); got != time.Minute {
		t.Fatalf("expected default on invalid value, got %s", got)
	}
	t.Setenv("SOME_TTL", "-5s")
	if got := getEnvDuration("SOME_TTL", time.Minute); got != time.Minute {
		t.Fatalf("expected default on negative value, got %s", got)
	}
}
