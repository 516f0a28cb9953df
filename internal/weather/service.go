package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimbus-assistant/nimbus/internal/metrics"
)

// Fetcher performs a live provider lookup.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (*Snapshot, error)
}

// Service serves weather snapshots through a per-city TTL cache in
// Redis. Within the TTL window no provider call is made for that city.
type Service struct {
	fetcher     Fetcher
	rdb         redis.Cmdable
	ttl         time.Duration
	defaultCity string
	configured  bool
}

func NewService(fetcher Fetcher, rdb redis.Cmdable, ttl time.Duration, defaultCity string, configured bool) *Service {
	return &Service{
		fetcher:     fetcher,
		rdb:         rdb,
		ttl:         ttl,
		defaultCity: defaultCity,
		configured:  configured,
	}
}

// Configured reports whether a provider API key is present.
func (s *Service) Configured() bool {
	return s.configured
}

// DefaultCity returns the city used when none is requested.
func (s *Service) DefaultCity() string {
	return s.defaultCity
}

func cacheKey(city string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(city))
}

// Current returns the snapshot for the given city, serving from cache
// when a reading younger than the TTL exists. An empty city falls back
// to the configured default.
func (s *Service) Current(ctx context.Context, city string) (*Snapshot, error) {
	if !s.configured {
		return nil, fmt.Errorf("weather provider not configured")
	}
	if strings.TrimSpace(city) == "" {
		city = s.defaultCity
	}

	key := cacheKey(city)
	if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var snap Snapshot
		if err := json.Unmarshal([]byte(val), &snap); err == nil {
			metrics.WeatherCacheHitsTotal.Inc()
			return &snap, nil
		}
		// Malformed cache entry: fall through to a live fetch.
	}

	metrics.WeatherCacheMissesTotal.Inc()
	snap, err := s.fetcher.Fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			slog.Warn("caching weather snapshot failed", "city", city, "error", err)
		}
	}

	return snap, nil
}
