package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServiceName != "checkout" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected default env, got %q", cfg.Env)
	}
	if cfg.Currency != "€" {
		t.Fatalf("expected default currency, got %q", cfg.Currency)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "till")
	t.Setenv("ENV", "prod")
	t.Setenv("CURRENCY", "$")

	cfg := Load()
	if cfg.ServiceName != "till" || cfg.Env != "prod" || cfg.Currency != "$" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
