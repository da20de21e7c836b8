package config

import (
	"errors"
	"testing"
	"time"

	"github.com/engramhq/engram/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// Requirement: startup fails fast without a session secret, and on a secret
// too short to key the token hash.
func TestLoad_SecretRequired(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); !errors.Is(err, core.ErrSecretRequired) {
		t.Fatalf("Load() error = %v, want ErrSecretRequired", err)
	}

	t.Setenv("SESSION_SECRET", "tooshort")
	if _, err := Load(); !errors.Is(err, core.ErrSecretTooShort) {
		t.Fatalf("Load() error = %v, want ErrSecretTooShort", err)
	}
}

// Requirement: with only the secret set, development defaults apply.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "")
	t.Setenv("DB_URL", "")
	t.Setenv("AUTH_ORIGIN", "")
	t.Setenv("BLOCK_ORIGINS", "")
	t.Setenv("SESSION_MAX_AGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 3939 {
		t.Errorf("Port = %d, want 3939", cfg.Port)
	}
	if cfg.AuthOrigin != "https://auth.engramhq.xyz" {
		t.Errorf("AuthOrigin = %q", cfg.AuthOrigin)
	}
	if len(cfg.BlockOrigins) != 1 || cfg.BlockOrigins[0] != "http://localhost:8080" {
		t.Errorf("BlockOrigins = %v", cfg.BlockOrigins)
	}
	if cfg.SessionMaxAge != 7*24*time.Hour {
		t.Errorf("SessionMaxAge = %v", cfg.SessionMaxAge)
	}
}

// Requirement: the environment overrides every default; BLOCK_ORIGINS is a
// comma-separated whitelist.
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "8081")
	t.Setenv("DB_URL", "postgres://app@db:5432/engram")
	t.Setenv("AUTH_ORIGIN", "https://auth.example")
	t.Setenv("BLOCK_ORIGINS", "https://app.example, http://localhost:3000")
	t.Setenv("SESSION_MAX_AGE", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://app@db:5432/engram" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	want := []string{"https://app.example", "http://localhost:3000"}
	if len(cfg.BlockOrigins) != len(want) {
		t.Fatalf("BlockOrigins = %v, want %v", cfg.BlockOrigins, want)
	}
	for i := range want {
		if cfg.BlockOrigins[i] != want[i] {
			t.Errorf("BlockOrigins[%d] = %q, want %q", i, cfg.BlockOrigins[i], want[i])
		}
	}
	if cfg.SessionMaxAge != 48*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 48h", cfg.SessionMaxAge)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a non-numeric PORT")
	}
}

// Requirement: the policy value is derived from config, not read ambiently.
func TestConfig_OriginPolicy(t *testing.T) {
	cfg := &Config{
		AuthOrigin:   "https://auth.example",
		BlockOrigins: []string{"https://app.example"},
	}
	policy := cfg.OriginPolicy()
	if policy.AuthOrigin != cfg.AuthOrigin {
		t.Errorf("policy.AuthOrigin = %q", policy.AuthOrigin)
	}
	if len(policy.BlockOrigins) != 1 || policy.BlockOrigins[0] != "https://app.example" {
		t.Errorf("policy.BlockOrigins = %v", policy.BlockOrigins)
	}
}
