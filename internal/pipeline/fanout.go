package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
)

// FanOut writes to a primary loader and then to optional secondary sinks.
// Only primary failures are returned; secondary failures are logged.
type FanOut struct {
	primary     Loader
	secondaries []Loader
	logger      *slog.Logger
}

func NewFanOut(primary Loader, logger *slog.Logger, secondaries ...Loader) *FanOut {
	return &FanOut{primary: primary, secondaries: secondaries, logger: logger}
}

func (f *FanOut) Load(ctx context.Context, d domain.EnrichedDataset) error {
	if err := f.primary.Load(ctx, d); err != nil {
		return err
	}
	for _, l := range f.secondaries {
		if err := l.Load(ctx, d); err != nil {
			f.logger.Error("secondary sink failed", "error", err)
		}
	}
	return nil
}
