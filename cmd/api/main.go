package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nimbus-assistant/nimbus/internal/api"
	"github.com/nimbus-assistant/nimbus/internal/chat"
	"github.com/nimbus-assistant/nimbus/internal/config"
	"github.com/nimbus-assistant/nimbus/internal/llm"
	"github.com/nimbus-assistant/nimbus/internal/middleware"
	iredis "github.com/nimbus-assistant/nimbus/internal/redis"
	"github.com/nimbus-assistant/nimbus/internal/reminder"
	"github.com/nimbus-assistant/nimbus/internal/server"
	"github.com/nimbus-assistant/nimbus/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Model handshake
	model := llm.NewClient(cfg.LLM)
	model.Probe(ctx, cfg.LLM.Models)

	// Weather
	weatherClient := weather.NewClient(cfg.Weather.APIKey)
	weatherSvc := weather.NewService(
		weatherClient,
		redisClient,
		cfg.Weather.CacheTTL,
		cfg.Weather.DefaultCity,
		cfg.Weather.APIKey != "",
	)
	weatherHandler := weather.NewHandler(weatherSvc)

	// Chat
	historyStore := chat.NewHistoryStore(redisClient, cfg.Chat.HistorySize, cfg.Chat.HistoryTTL)
	chatSvc := chat.NewService(model, historyStore, weatherSvc)
	chatHandler := chat.NewHandler(chatSvc)

	// Reminder extraction
	extractor := reminder.NewExtractor(model)
	reminderHandler := reminder.NewHandler(extractor)

	// Rate limiting on chat routes
	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.Chat.RateMax, cfg.Chat.RateWindowSec)

	// Router
	router := api.NewRouter(api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		StaticDir:          cfg.Static.Dir,
		ChatRateLimiter:    rateLimiter.Middleware,
	}, api.HandlerSet{
		SendChat:      chatHandler.Send,
		ClearChat:     chatHandler.Clear,
		GetWeather:    weatherHandler.Current,
		ParseReminder: reminderHandler.Parse,

		HealthStatus: func(ctx context.Context) api.HealthStatus {
			hs := api.HealthStatus{
				Status:    "ok",
				AIEnabled: model.Active(),
				Model:     model.Model(),
				Weather:   weatherSvc.Configured(),
				City:      cfg.Weather.DefaultCity,
				Redis:     "ok",
			}
			if !hs.AIEnabled {
				hs.Status = "degraded"
			}
			if err := iredis.HealthCheck(ctx, redisClient); err != nil {
				hs.Redis = "unreachable"
				hs.Status = "degraded"
			}
			return hs
		},
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
