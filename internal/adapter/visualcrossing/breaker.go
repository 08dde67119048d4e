package visualcrossing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
)

var errCircuitOpen = errors.New("circuit breaker open")

// BreakerSource stops calling the provider after repeated consecutive
// failures. While open, lookups fail fast and the rows degrade to empty
// observations like any other provider error.
type BreakerSource struct {
	inner   domain.WeatherSource
	circuit *gobreaker.CircuitBreaker
}

// NewBreakerSource trips after five consecutive failures and probes again
// after a minute.
func NewBreakerSource(inner domain.WeatherSource, logger *slog.Logger) *BreakerSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "visualcrossing",
		MaxRequests: 1,
		Timeout:     1 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerSource{inner: inner, circuit: cb}
}

func (b *BreakerSource) HourlyObservations(ctx context.Context, coords domain.Coordinates, date string) ([]domain.HourSample, error) {
	result, err := b.circuit.Execute(func() (interface{}, error) {
		return b.inner.HourlyObservations(ctx, coords, date)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}
	hours, _ := result.([]domain.HourSample)
	return hours, nil
}

// State reports the breaker state, mainly for tests and logs.
func (b *BreakerSource) State() gobreaker.State {
	return b.circuit.State()
}
