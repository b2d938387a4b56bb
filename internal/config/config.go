package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Generation service (Perplexity-compatible chat completions API)
	PPLXBaseURL string
	PPLXAPIKey  string
	PPLXModel   string

	// Auth for /api routes. Empty disables auth (local use).
	APIKey string

	// Main answer call
	Temperature float64
	MaxTokens   int

	// Follow-up question call
	FollowupTemperature float64
	FollowupMaxTokens   int

	// History
	HistorySize int
	HistoryTTL  time.Duration

	// Transport
	RequestTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		PPLXBaseURL: envOr("PPLX_BASE_URL", "https://api.perplexity.ai"),
		PPLXAPIKey:  os.Getenv("PPLX_API_KEY"),
		PPLXModel:   envOr("PPLX_MODEL", "medical-pplx"),

		APIKey: os.Getenv("GLPASSIST_API_KEY"),

		Temperature: envFloat("TEMPERATURE", 0.1),
		MaxTokens:   envInt("MAX_TOKENS", 1500),

		FollowupTemperature: envFloat("FOLLOWUP_TEMPERATURE", 0.7),
		FollowupMaxTokens:   envInt("FOLLOWUP_MAX_TOKENS", 300),

		HistorySize: envInt("HISTORY_SIZE", 100),
		HistoryTTL:  envDuration("HISTORY_TTL", 24*time.Hour),

		RequestTimeout: envDuration("REQUEST_TIMEOUT", 120*time.Second),
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.FollowupMaxTokens <= 0 {
		cfg.FollowupMaxTokens = 300
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if cfg.HistoryTTL <= 0 {
		cfg.HistoryTTL = 24 * time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.PPLXAPIKey == "" {
		return fmt.Errorf("PPLX_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
