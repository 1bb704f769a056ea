package config_test

import (
	"testing"

	"github.com/docket-app/docket/internal/config"
)

func TestLoad_SessionSecretFallback(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	t.Run("dev_gets_a_fallback", func(t *testing.T) {
		t.Setenv("APP_ENV", "dev")

		cfg := config.Load()

		if cfg.SessionSecret == "" {
			t.Fatalf("dev must fall back to a usable secret")
		}
	})

	t.Run("prod_gets_no_fallback", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")

		cfg := config.Load()

		// an empty secret makes startup refuse to proceed
		if cfg.SessionSecret != "" {
			t.Fatalf("prod must not inherit the dev secret, got %q", cfg.SessionSecret)
		}
	})

	t.Run("explicit_secret_wins_everywhere", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("SESSION_SECRET", "from-env")

		cfg := config.Load()

		if cfg.SessionSecret != "from-env" {
			t.Fatalf("got %q, want the env value", cfg.SessionSecret)
		}
	})
}
