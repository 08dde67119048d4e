// Package rediscache shares day lookups across runs through Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

const keyPrefix = "run-weather:day:"

// store is the subset of *redis.Client the cache uses.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Source wraps a WeatherSource with a Redis-backed cache keyed by
// (location, date). Only successful responses are stored, so a transient
// provider failure is retried by the next run. Redis errors are logged and
// bypass the cache.
type Source struct {
	inner   domain.WeatherSource
	client  store
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New creates a Redis cache decorator around a weather source.
func New(inner domain.WeatherSource, client *redis.Client, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Source {
	return &Source{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Source) HourlyObservations(ctx context.Context, coords domain.Coordinates, date string) ([]domain.HourSample, error) {
	key := cacheKey(coords, date)

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if day, ok := decodeDay(data); ok {
			s.metrics.WeatherCache.WithLabelValues("redis", "hit").Inc()
			return day.samples(), nil
		}
		s.logger.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("redis get failed", "key", key, "error", err)
	}
	s.metrics.WeatherCache.WithLabelValues("redis", "miss").Inc()

	hours, err := s.inner.HourlyObservations(ctx, coords, date)
	if err != nil {
		return nil, err
	}

	payload, err := encodeDay(hours)
	if err != nil {
		s.logger.Warn("encode cache entry failed", "key", key, "error", err)
		return hours, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("redis set failed", "key", key, "error", err)
	}
	return hours, nil
}

func cacheKey(coords domain.Coordinates, date string) string {
	return keyPrefix + coords.Location() + "|" + date
}

type cachedHour struct {
	Time *string `json:"time"`
	domain.Observation
}

type cachedDay struct {
	Hours []cachedHour `json:"hours"`
}

func encodeDay(hours []domain.HourSample) ([]byte, error) {
	day := cachedDay{Hours: make([]cachedHour, len(hours))}
	for i, h := range hours {
		day.Hours[i] = cachedHour{Time: h.Time, Observation: h.Observation}
	}
	return json.Marshal(day)
}

func decodeDay(data []byte) (cachedDay, bool) {
	var day cachedDay
	if err := json.Unmarshal(data, &day); err != nil {
		return cachedDay{}, false
	}
	return day, true
}

func (d cachedDay) samples() []domain.HourSample {
	hours := make([]domain.HourSample, len(d.Hours))
	for i, h := range d.Hours {
		hours[i] = domain.HourSample{Time: h.Time, Observation: h.Observation}
	}
	return hours
}
