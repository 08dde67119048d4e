// Command enrich adds hourly weather observations to a running-activities CSV.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/run-weather-etl/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/run-weather-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/run-weather-etl/internal/adapter/kafka"
	"github.com/couchcryptid/run-weather-etl/internal/adapter/rediscache"
	"github.com/couchcryptid/run-weather-etl/internal/adapter/visualcrossing"
	"github.com/couchcryptid/run-weather-etl/internal/config"
	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
	"github.com/couchcryptid/run-weather-etl/internal/pipeline"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, metrics); err != nil {
		logger.Error("enrichment failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	source, closeSource, err := newWeatherSource(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer closeSource()

	var loader pipeline.Loader = csvfile.NewWriter(cfg.OutputPath, metrics)
	if len(cfg.KafkaBrokers) > 0 {
		sink := kafkaadapter.NewWriter(cfg, metrics, logger)
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loader = pipeline.NewFanOut(loader, logger, sink)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(
		csvfile.NewReader(cfg.InputPath, metrics),
		pipeline.NewTransformer(source, logger),
		loader,
		newPacer(cfg),
		logger,
		metrics,
	)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("ops server shutdown error", "error", err)
			}
		}()
	}

	logger.Info("enrichment started", "input", cfg.InputPath, "output", cfg.OutputPath)
	if err := p.Run(ctx); err != nil {
		return err
	}
	logger.Info("wrote enriched dataset", "path", cfg.OutputPath)
	return nil
}

// newWeatherSource builds the provider client and layers the optional
// breaker and caches on top. The in-memory cache sits outermost.
func newWeatherSource(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (domain.WeatherSource, func(), error) {
	var source domain.WeatherSource = visualcrossing.NewClient(
		cfg.VisualCrossingAPIKey, cfg.VisualCrossingBaseURL, cfg.WeatherTimeout, metrics, logger)
	closeFn := func() {}

	if cfg.WeatherBreaker {
		source = visualcrossing.NewBreakerSource(source, logger)
		logger.Info("weather circuit breaker enabled")
	}

	if cfg.RedisURL != "" {
		client, err := rediscache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		source = rediscache.New(source, client, cfg.RedisCacheTTL, metrics, logger)
		closeFn = func() {
			if err := client.Close(); err != nil {
				logger.Error("redis close error", "error", err)
			}
		}
		logger.Info("redis day cache enabled", "ttl", cfg.RedisCacheTTL)
	}

	if cfg.WeatherCacheSize > 0 {
		source = visualcrossing.NewCachedSource(source, cfg.WeatherCacheSize, metrics)
		logger.Info("in-memory day cache enabled", "size", cfg.WeatherCacheSize)
	}

	return source, closeFn, nil
}

func newPacer(cfg *config.Config) pipeline.Pacer {
	if cfg.PacingMode == config.PacingInterval {
		return pipeline.NewMinInterval(cfg.RequestDelay)
	}
	return pipeline.NewFixedDelay(cfg.RequestDelay, clockwork.NewRealClock())
}
