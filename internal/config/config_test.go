package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaultsTablePrefixByEnvironment(t *testing.T) {
	clearEnv(t, "ENVIRONMENT", "TABLE_PREFIX")

	os.Setenv("ENVIRONMENT", "prod")
	cfg := Load()
	if cfg.TablePrefix != "prod_" {
		t.Fatalf("prod table prefix = %q, want prod_", cfg.TablePrefix)
	}

	os.Setenv("ENVIRONMENT", "staging-or-anything-else")
	cfg = Load()
	if cfg.TablePrefix != "dev_" {
		t.Fatalf("unrecognized environment table prefix = %q, want dev_ fallback", cfg.TablePrefix)
	}
}

func TestLoadTablePrefixOverrideWins(t *testing.T) {
	clearEnv(t, "ENVIRONMENT", "TABLE_PREFIX")

	os.Setenv("ENVIRONMENT", "prod")
	os.Setenv("TABLE_PREFIX", "custom_")
	cfg := Load()
	if cfg.TablePrefix != "custom_" {
		t.Fatalf("table prefix = %q, want explicit TABLE_PREFIX override to win over environment default", cfg.TablePrefix)
	}
}

func TestLoadDebugDefaultsFalseInProd(t *testing.T) {
	clearEnv(t, "ENVIRONMENT", "DEBUG")

	os.Setenv("ENVIRONMENT", "prod")
	cfg := Load()
	if cfg.Debug {
		t.Fatal("Debug should default false in prod")
	}
}

func TestLoadDebugDefaultsTrueInDev(t *testing.T) {
	clearEnv(t, "ENVIRONMENT", "DEBUG")

	os.Setenv("ENVIRONMENT", "dev")
	cfg := Load()
	if !cfg.Debug {
		t.Fatal("Debug should default true in dev")
	}
}

func TestLoadMaxTokensParsesIntOrDefaults(t *testing.T) {
	clearEnv(t, "MAX_TOKENS")

	os.Setenv("MAX_TOKENS", "2048")
	cfg := Load()
	if cfg.MaxTokens != 2048 {
		t.Fatalf("MaxTokens = %d, want 2048", cfg.MaxTokens)
	}

	os.Setenv("MAX_TOKENS", "not-a-number")
	cfg = Load()
	if cfg.MaxTokens != 1024 {
		t.Fatalf("MaxTokens = %d, want default 1024 for an unparseable value", cfg.MaxTokens)
	}
}
