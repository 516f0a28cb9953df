package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/nimbus-assistant/nimbus/internal/middleware"
)

// HealthStatus is the GET /api/health payload. The endpoint always
// answers 200; the status field carries the truth.
type HealthStatus struct {
	Status    string `json:"status"` // "ok" or "degraded"
	AIEnabled bool   `json:"aiEnabled"`
	Model     string `json:"model"`
	Weather   bool   `json:"weather"`
	City      string `json:"city"`
	Redis     string `json:"redis"`
}

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	SendChat      http.HandlerFunc
	ClearChat     http.HandlerFunc
	GetWeather    http.HandlerFunc
	ParseReminder http.HandlerFunc

	HealthStatus func(ctx context.Context) HealthStatus
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	StaticDir          string
	ChatRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe, always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			JSON(w, http.StatusOK, h.HealthStatus(r.Context()))
		})

		r.Get("/weather", h.GetWeather)
		r.Post("/parse-reminder", h.ParseReminder)

		// Chat routes fan out to the metered model, so they carry the
		// rate limiter.
		r.Group(func(r chi.Router) {
			if cfg.ChatRateLimiter != nil {
				r.Use(cfg.ChatRateLimiter)
			}
			r.Post("/chat", h.SendChat)
			r.Post("/chat/clear", h.ClearChat)
		})
	})

	// Front-end assets
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
