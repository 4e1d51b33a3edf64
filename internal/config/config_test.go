package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CONFIG_PATH", "PORT", "APP_MODE", "GEMINI_MODEL", "GEMINI_RANKING_MODEL", "GEMINI_TIMEOUT_SECONDS", "GENERATE_PER_MINUTE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Mode != "development" {
		t.Fatalf("server=%+v, want 8080/development", cfg.Server)
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" || cfg.Gemini.RankingModel != "gemini-pro" {
		t.Fatalf("gemini=%+v, want flash/pro defaults", cfg.Gemini)
	}
	if cfg.Gemini.TimeoutSeconds != 60 {
		t.Fatalf("TimeoutSeconds=%d, want 60", cfg.Gemini.TimeoutSeconds)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Fatalf("origins=%v, want both localhost defaults", cfg.CORS.Origins)
	}
}

func TestLoadConfigFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: "9000"
  mode: production
gemini:
  model: gemini-from-file
rate_limit:
  generate_per_minute: 12
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7777" {
		t.Fatalf("Port=%s, want env override over file", cfg.Server.Port)
	}
	if cfg.Server.Mode != "production" {
		t.Fatalf("Mode=%s, want file value", cfg.Server.Mode)
	}
	if cfg.Gemini.Model != "gemini-from-file" {
		t.Fatalf("Model=%s, want file value", cfg.Gemini.Model)
	}
	if cfg.RateLimit.GeneratePerMinute != 12 {
		t.Fatalf("GeneratePerMinute=%d, want 12", cfg.RateLimit.GeneratePerMinute)
	}
	if cfg.Gemini.RankingModel != "gemini-pro" {
		t.Fatalf("RankingModel=%s, want default kept", cfg.Gemini.RankingModel)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded with a missing config file")
	}
}
