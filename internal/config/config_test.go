package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.MLAPIBaseURL != "http://localhost:5000" {
		t.Errorf("default ML API URL = %q", cfg.MLAPIBaseURL)
	}
	if cfg.MLAPITimeout != 30*time.Second {
		t.Errorf("default ML API timeout = %s, want 30s", cfg.MLAPITimeout)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("allowed origins must never be empty")
	}
	if cfg.IsProduction() {
		t.Error("default environment must not be production")
	}
}

func TestLoadMLAPIURLTrailingSlash(t *testing.T) {
	t.Setenv("ML_API_URL", "https://predict.coffeeguard.rw/")

	cfg := Load()
	if cfg.MLAPIBaseURL != "https://predict.coffeeguard.rw" {
		t.Errorf("trailing slash not trimmed: %q", cfg.MLAPIBaseURL)
	}
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://www.coffeeguard.rw, http://localhost:3000 ,")

	cfg := Load()
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("got %d origins, want 2: %v", len(cfg.AllowedOrigins), cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "https://www.coffeeguard.rw" {
		t.Errorf("first origin = %q", cfg.AllowedOrigins[0])
	}
}

func TestLoadMLAPITimeoutOverride(t *testing.T) {
	t.Setenv("ML_API_TIMEOUT_SECONDS", "45")

	cfg := Load()
	if cfg.MLAPITimeout != 45*time.Second {
		t.Errorf("timeout = %s, want 45s", cfg.MLAPITimeout)
	}
}

func TestLoadMLAPITimeoutInvalid(t *testing.T) {
	t.Setenv("ML_API_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.MLAPITimeout != 30*time.Second {
		t.Errorf("invalid timeout must fall back to default, got %s", cfg.MLAPITimeout)
	}
}
