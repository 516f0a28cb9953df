package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Weather WeatherConfig
	Chat    ChatConfig
	Redis   RedisConfig
	Static  StaticConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
}

type WeatherConfig struct {
	APIKey      string
	DefaultCity string
	CacheTTL    time.Duration
}

type ChatConfig struct {
	HistorySize   int
	HistoryTTL    time.Duration
	RateMax       int
	RateWindowSec int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StaticConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

// DefaultModels is the fallback candidate list probed at startup when
// LLM_MODELS is not set. Order matters: the first servable model wins.
var DefaultModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-3.5-turbo",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		LLM: LLMConfig{
			APIKey:  k.String("llm.api.key"),
			BaseURL: k.String("llm.base.url"),
		},
		Weather: WeatherConfig{
			APIKey:      k.String("weather.api.key"),
			DefaultCity: k.String("weather.city"),
		},
		Chat: ChatConfig{
			HistorySize:   k.Int("chat.history.size"),
			RateMax:       k.Int("chat.rate.max"),
			RateWindowSec: k.Int("chat.rate.window.sec"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		Static: StaticConfig{
			Dir: k.String("static.dir"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	if models := k.String("llm.models"); models != "" {
		cfg.LLM.Models = splitCSV(models)
	}
	if origins := k.String("cors.allowed.origins"); origins != "" {
		cfg.Server.CORSAllowedOrigins = splitCSV(origins)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.LLM.Models) == 0 {
		cfg.LLM.Models = DefaultModels
	}
	if cfg.Weather.DefaultCity == "" {
		cfg.Weather.DefaultCity = "Lisbon"
	}
	if cfg.Chat.HistorySize == 0 {
		cfg.Chat.HistorySize = 20
	}
	if cfg.Chat.RateMax == 0 {
		cfg.Chat.RateMax = 30
	}
	if cfg.Chat.RateWindowSec == 0 {
		cfg.Chat.RateWindowSec = 60
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Static.Dir == "" {
		cfg.Static.Dir = "./public"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	cacheTTLStr := k.String("weather.cache.ttl")
	if cacheTTLStr == "" {
		cacheTTLStr = "10m"
	}
	cfg.Weather.CacheTTL, err = time.ParseDuration(cacheTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing weather cache ttl: %w", err)
	}

	historyTTLStr := k.String("chat.history.ttl")
	if historyTTLStr == "" {
		historyTTLStr = "1h"
	}
	cfg.Chat.HistoryTTL, err = time.ParseDuration(historyTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing chat history ttl: %w", err)
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
