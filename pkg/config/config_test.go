package config

import (
	"os"
	"testing"
)

func clearLicensingEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CREENLY_APP_ENV",
		"CREENLY_APP_PORT",
		"CREENLY_LOG_LEVEL",
		"CREENLY_SUPABASE_URL",
		"CREENLY_SUPABASE_SERVICE_KEY",
		"PROJECTOR_SUPABASE_SERVICE_KEY",
		"CREENLY_RESEND_API_KEY",
		"RESEND_API_KEY",
		"CREENLY_RESEND_FROM_EMAIL",
	} {
		// t.Setenv registers restoration; Unsetenv makes the variable truly
		// absent so envconfig defaults apply.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLicensingEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.App.Port)
	}
	if cfg.Supabase.URL == "" {
		t.Fatalf("expected a default supabase URL")
	}
	if cfg.Supabase.ServiceKey() != "" {
		t.Fatalf("service key should be empty when unset")
	}
	if cfg.Resend.FromEmail != "licenses@creenly.com" {
		t.Fatalf("unexpected default sender %q", cfg.Resend.FromEmail)
	}
}

func TestLoadPrefersPrefixedKeys(t *testing.T) {
	clearLicensingEnv(t)
	t.Setenv("CREENLY_SUPABASE_SERVICE_KEY", "new-key")
	t.Setenv("PROJECTOR_SUPABASE_SERVICE_KEY", "legacy-key")
	t.Setenv("CREENLY_RESEND_API_KEY", "re_new")
	t.Setenv("RESEND_API_KEY", "re_legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if got := cfg.Supabase.ServiceKey(); got != "new-key" {
		t.Fatalf("expected prefixed supabase key, got %q", got)
	}
	if got := cfg.Resend.APIKey(); got != "re_new" {
		t.Fatalf("expected prefixed resend key, got %q", got)
	}
}

func TestLoadFallsBackToLegacyKeys(t *testing.T) {
	clearLicensingEnv(t)
	t.Setenv("PROJECTOR_SUPABASE_SERVICE_KEY", "legacy-key")
	t.Setenv("RESEND_API_KEY", "re_legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if got := cfg.Supabase.ServiceKey(); got != "legacy-key" {
		t.Fatalf("expected legacy supabase key, got %q", got)
	}
	if got := cfg.Resend.APIKey(); got != "re_legacy" {
		t.Fatalf("expected legacy resend key, got %q", got)
	}
}

func TestIsProd(t *testing.T) {
	clearLicensingEnv(t)
	t.Setenv("CREENLY_APP_ENV", "Production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected IsProd for %q", cfg.App.Env)
	}
}
