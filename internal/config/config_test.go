package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "vc-test-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/music_running_dataset.csv", cfg.InputPath)
	assert.Equal(t, "analysis_dataset/music_running_weather.csv", cfg.OutputPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, testAPIKey, cfg.VisualCrossingAPIKey)
	assert.Equal(t, defaultVisualCrossingURL, cfg.VisualCrossingBaseURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherTimeout)
	assert.False(t, cfg.WeatherBreaker)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, PacingFixed, cfg.PacingMode)
	assert.Equal(t, 0, cfg.WeatherCacheSize)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.RedisCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "enriched-runs", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", testAPIKey)
	t.Setenv("INPUT_PATH", "in.csv")
	t.Setenv("OUTPUT_PATH", "out/enriched.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("VISUAL_CROSSING_BASE_URL", "http://localhost:8081/timeline/")
	t.Setenv("WEATHER_TIMEOUT", "3s")
	t.Setenv("WEATHER_BREAKER_ENABLED", "true")
	t.Setenv("REQUEST_DELAY", "0s")
	t.Setenv("PACING_MODE", "interval")
	t.Setenv("WEATHER_CACHE_SIZE", "256")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_CACHE_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "runs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in.csv", cfg.InputPath)
	assert.Equal(t, "out/enriched.csv", cfg.OutputPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://localhost:8081/timeline", cfg.VisualCrossingBaseURL)
	assert.Equal(t, 3*time.Second, cfg.WeatherTimeout)
	assert.True(t, cfg.WeatherBreaker)
	assert.Equal(t, time.Duration(0), cfg.RequestDelay)
	assert.Equal(t, PacingInterval, cfg.PacingMode)
	assert.Equal(t, 256, cfg.WeatherCacheSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.RedisCacheTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "runs", cfg.KafkaSinkTopic)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VISUAL_CROSSING_API_KEY")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"LOG_LEVEL", "verbose"},
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"WEATHER_TIMEOUT", "0s"},
		{"REQUEST_DELAY", "-500ms"},
		{"REDIS_CACHE_TTL", "bad"},
		{"WEATHER_CACHE_SIZE", "-1"},
		{"WEATHER_CACHE_SIZE", "lots"},
		{"PACING_MODE", "burst"},
	}

	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv("VISUAL_CROSSING_API_KEY", testAPIKey)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoad_SameInputAndOutput(t *testing.T) {
	t.Setenv("VISUAL_CROSSING_API_KEY", testAPIKey)
	t.Setenv("INPUT_PATH", "runs.csv")
	t.Setenv("OUTPUT_PATH", "runs.csv")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_PATH")
}
