package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sparklab/ideahub-backend/internal/platform/envutil"
)

// Config carries the knobs that are not secrets. Secrets (JWT key, Gemini
// API key, database password) stay env-only.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	Gemini struct {
		Model          string `yaml:"model"`
		RankingModel   string `yaml:"ranking_model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"gemini"`
	RateLimit struct {
		GeneratePerMinute int `yaml:"generate_per_minute"`
	} `yaml:"rate_limit"`
}

func defaults() Config {
	var c Config
	c.Server.Port = "8080"
	c.Server.Mode = "development"
	c.CORS.Origins = []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	c.Gemini.Model = "gemini-1.5-flash"
	c.Gemini.RankingModel = "gemini-pro"
	c.Gemini.TimeoutSeconds = 60
	c.RateLimit.GeneratePerMinute = 5
	return c
}

// Load reads CONFIG_PATH (when set) over compiled defaults, then lets the
// environment win over both.
func Load() (Config, error) {
	cfg := defaults()

	if path := envutil.String("CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Server.Port = envutil.String("PORT", cfg.Server.Port)
	cfg.Server.Mode = envutil.String("APP_MODE", cfg.Server.Mode)
	cfg.Gemini.Model = envutil.String("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.Gemini.RankingModel = envutil.String("GEMINI_RANKING_MODEL", cfg.Gemini.RankingModel)
	cfg.Gemini.TimeoutSeconds = envutil.Int("GEMINI_TIMEOUT_SECONDS", cfg.Gemini.TimeoutSeconds)
	cfg.RateLimit.GeneratePerMinute = envutil.Int("GENERATE_PER_MINUTE", cfg.RateLimit.GeneratePerMinute)
	return cfg, nil
}
