package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.GuideFee != 75.0 {
		t.Fatalf("expected default guide fee")
	}
	if cfg.AuthMode != "passthrough" {
		t.Fatalf("expected passthrough auth mode")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTH_MODE", "credentials")
	t.Setenv("PLACES_API_URL", "https://example.supabase.co")
	t.Setenv("PLACES_API_KEY", "anon-key")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.AuthMode != "credentials" {
		t.Fatalf("expected override auth mode")
	}
	if cfg.PlacesAPIURL != "https://example.supabase.co" {
		t.Fatalf("expected override places api url")
	}
	if cfg.PlacesAPIKey != "anon-key" {
		t.Fatalf("expected override places api key")
	}
	if cfg.RedisPassword != "hunter2" {
		t.Fatalf("expected override redis password")
	}
}
