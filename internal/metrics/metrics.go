package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nimbus_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nimbus_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nimbus_llm_requests_total",
			Help: "Total number of upstream model calls by outcome.",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nimbus_llm_request_duration_seconds",
			Help:    "Upstream model call duration in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	ReminderParsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nimbus_reminder_parses_total",
			Help: "Total number of reminder extraction attempts by result.",
		},
		[]string{"result"},
	)

	WeatherCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nimbus_weather_cache_hits_total",
			Help: "Total number of weather lookups served from cache.",
		},
	)

	WeatherCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nimbus_weather_cache_misses_total",
			Help: "Total number of weather lookups that hit the provider.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LLMRequestsTotal,
		LLMRequestDuration,
		ReminderParsesTotal,
		WeatherCacheHitsTotal,
		WeatherCacheMissesTotal,
	)
}
