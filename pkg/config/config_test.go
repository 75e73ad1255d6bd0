package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Upstream.BaseURL != "https://api.thetrois.local" {
		t.Fatalf("unexpected upstream base url: %q", cfg.Upstream.BaseURL)
	}

	if got := cfg.Cache.OrdersTTL; got != 24*time.Hour {
		t.Fatalf("expected default orders TTL 24h, got %v", got)
	}

	if cfg.Storage.NormalizedDriver() != StorageDriverRedis {
		t.Fatalf("unexpected storage driver %q", cfg.Storage.Driver)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to return an error")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvUpstreamBaseURL, "https://api.thetrois.local")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvStorageDriver, "redis")
}
