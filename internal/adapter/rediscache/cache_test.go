package rediscache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// --- fakes ---

type memStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memStore) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

type countingSource struct {
	calls int
	hours []domain.HourSample
	err   error
}

func (m *countingSource) HourlyObservations(_ context.Context, _ domain.Coordinates, _ string) ([]domain.HourSample, error) {
	m.calls++
	return m.hours, m.err
}

var montreal = domain.Coordinates{Lat: 45.5, Lon: -73.6, Valid: true}

func sampleHours() []domain.HourSample {
	clock, temp := "08:00:00", "10.5"
	return []domain.HourSample{{Time: &clock, Observation: domain.Observation{Temp: &temp}}}
}

func newTestSource(inner domain.WeatherSource, st store) *Source {
	return &Source{
		inner:   inner,
		client:  st,
		ttl:     24 * time.Hour,
		metrics: observability.NewMetricsForTesting(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// --- Source tests ---

func TestSource_StoresSuccessWithTTL(t *testing.T) {
	inner := &countingSource{hours: sampleHours()}
	st := newMemStore()
	s := newTestSource(inner, st)

	h1, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.NoError(t, err)
	h2, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, inner.calls, "second lookup should be served from redis")
	assert.Equal(t, 24*time.Hour, st.ttls[cacheKey(montreal, "2024-05-04")])
}

func TestSource_FailureIsNotStored(t *testing.T) {
	inner := &countingSource{err: errors.New("request timed out")}
	st := newMemStore()
	s := newTestSource(inner, st)

	_, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.Error(t, err)
	assert.Empty(t, st.data)

	// The provider recovers; the next run must see fresh data.
	inner.err = nil
	inner.hours = sampleHours()

	hours, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.NoError(t, err)
	assert.Len(t, hours, 1)
	assert.Equal(t, 2, inner.calls)
}

func TestSource_RedisErrorFallsThrough(t *testing.T) {
	inner := &countingSource{hours: sampleHours()}
	st := newMemStore()
	st.getErr = errors.New("connection refused")
	s := newTestSource(inner, st)

	hours, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.NoError(t, err)
	assert.Len(t, hours, 1)
	assert.Equal(t, 1, inner.calls)
}

func TestSource_UnreadableEntryIsMiss(t *testing.T) {
	inner := &countingSource{hours: sampleHours()}
	st := newMemStore()
	st.data[cacheKey(montreal, "2024-05-04")] = "not json"
	s := newTestSource(inner, st)

	_, err := s.HourlyObservations(context.Background(), montreal, "2024-05-04")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

// --- encoding ---

func TestCacheKey(t *testing.T) {
	coords := domain.Coordinates{Lat: 45, Lon: -73.6, Valid: true}
	assert.Equal(t, "run-weather:day:45.0,-73.6|2024-05-04", cacheKey(coords, "2024-05-04"))
}

func TestCachedDay_ReplaysHours(t *testing.T) {
	clock, temp, cond := "08:00:00", "10.5", "Clear"
	hours := []domain.HourSample{
		{Time: &clock, Observation: domain.Observation{Temp: &temp, Conditions: &cond}},
		{Time: nil},
	}

	data, err := encodeDay(hours)
	require.NoError(t, err)

	day, ok := decodeDay(data)
	require.True(t, ok)
	got := day.samples()

	require.Len(t, got, 2)
	assert.Equal(t, "08:00:00", *got[0].Time)
	assert.Equal(t, "10.5", *got[0].Temp)
	assert.Nil(t, got[0].Humidity)
	assert.Equal(t, "Clear", *got[0].Conditions)
	assert.Nil(t, got[1].Time, "non-string clock times stay unselectable")
}

func TestCachedDay_EmptyDay(t *testing.T) {
	data, err := encodeDay(nil)
	require.NoError(t, err)

	day, ok := decodeDay(data)
	require.True(t, ok)
	assert.Empty(t, day.samples())
}

func TestDecodeDay_Garbage(t *testing.T) {
	_, ok := decodeDay([]byte("not json"))
	assert.False(t, ok)
}
