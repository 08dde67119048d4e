package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Pacing modes accepted by PACING_MODE.
const (
	PacingFixed    = "fixed"
	PacingInterval = "interval"
)

const defaultVisualCrossingURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath  string
	OutputPath string
	LogLevel   slog.Level
	LogFormat  string

	// HTTPAddr enables the ops server (/healthz, /readyz, /metrics) when set.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Visual Crossing weather provider.
	VisualCrossingAPIKey  string
	VisualCrossingBaseURL string
	WeatherTimeout        time.Duration
	WeatherBreaker        bool

	// Request pacing between rows.
	RequestDelay time.Duration
	PacingMode   string

	// Optional day caches. Zero size and empty URL disable them.
	WeatherCacheSize int
	RedisURL         string
	RedisCacheTTL    time.Duration

	// Optional Kafka sink for enriched rows.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	logLevel, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	requestDelay, err := time.ParseDuration(envOrDefault("REQUEST_DELAY", "500ms"))
	if err != nil || requestDelay < 0 {
		return nil, errors.New("invalid REQUEST_DELAY")
	}

	redisTTL, err := parsePositiveDuration("REDIS_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:       envOrDefault("INPUT_PATH", "data/music_running_dataset.csv"),
		OutputPath:      envOrDefault("OUTPUT_PATH", "analysis_dataset/music_running_weather.csv"),
		LogLevel:        logLevel,
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		VisualCrossingAPIKey:  os.Getenv("VISUAL_CROSSING_API_KEY"),
		VisualCrossingBaseURL: strings.TrimRight(envOrDefault("VISUAL_CROSSING_BASE_URL", defaultVisualCrossingURL), "/"),
		WeatherTimeout:        weatherTimeout,
		WeatherBreaker:        os.Getenv("WEATHER_BREAKER_ENABLED") == "true",

		RequestDelay: requestDelay,
		PacingMode:   envOrDefault("PACING_MODE", PacingFixed),

		WeatherCacheSize: cacheSize,
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisCacheTTL:    redisTTL,

		KafkaBrokers:   parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "enriched-runs"),
	}

	if cfg.VisualCrossingAPIKey == "" {
		return nil, errors.New("VISUAL_CROSSING_API_KEY is required")
	}
	if cfg.InputPath == cfg.OutputPath {
		return nil, errors.New("INPUT_PATH and OUTPUT_PATH must differ")
	}
	if cfg.PacingMode != PacingFixed && cfg.PacingMode != PacingInterval {
		return nil, fmt.Errorf("invalid PACING_MODE %q (allowed: %s, %s)", cfg.PacingMode, PacingFixed, PacingInterval)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("WEATHER_CACHE_SIZE")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid WEATHER_CACHE_SIZE %q", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
