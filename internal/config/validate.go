package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for startup-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if c.Chat.HistorySize < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_HISTORY_SIZE must be positive, got %d", c.Chat.HistorySize))
	}
	if c.Chat.HistoryTTL <= 0 {
		errs = append(errs, "CHAT_HISTORY_TTL must be positive")
	}
	if c.Weather.CacheTTL <= 0 {
		errs = append(errs, "WEATHER_CACHE_TTL must be positive")
	}
	if c.Chat.RateMax < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_RATE_MAX must be positive, got %d", c.Chat.RateMax))
	}
	if c.Chat.RateWindowSec < 1 {
		errs = append(errs, fmt.Sprintf("CHAT_RATE_WINDOW_SEC must be positive, got %d", c.Chat.RateWindowSec))
	}

	if len(c.LLM.Models) == 0 {
		errs = append(errs, "LLM_MODELS must name at least one candidate model")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be debug|info|warn|error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text|json, got %q", c.Log.Format))
	}

	// Missing provider keys degrade the service rather than failing startup,
	// so the health endpoint can report it and static assets still serve.
	if c.LLM.APIKey == "" {
		slog.Warn("LLM_API_KEY is empty, chat and reminder parsing will be unavailable")
	}
	if c.Weather.APIKey == "" {
		slog.Warn("WEATHER_API_KEY is empty, weather lookups will be unavailable")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
