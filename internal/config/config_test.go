package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBName != "realestate" || cfg.Port != "5000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day access token, got %s", cfg.AccessTokenTTL)
	}
	if cfg.DefaultPageLimit != 10 || cfg.MaxPageLimit != 100 || cfg.FeaturedLimit != 6 {
		t.Fatalf("unexpected page limits: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Fatalf("expected development by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CACHE_TTL", "15")
	t.Setenv("MAX_PAGE_LIMIT", "5")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("API_BASE_URL", "https://api.example/")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(cfg.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("unexpected origins %q", got)
	}
	if cfg.CacheTTL != 15*time.Second {
		t.Fatalf("unexpected cache ttl %s", cfg.CacheTTL)
	}
	if cfg.DefaultPageLimit != 5 {
		t.Fatalf("default limit should be capped by max, got %d", cfg.DefaultPageLimit)
	}
	if !cfg.IsProduction() || cfg.APIBaseURL != "https://api.example" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestFromEnvRequiresSecrets(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET, MONGO_URI") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}
