package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
)

// WeatherEnricher implements Transformer by parsing the start coordinates and
// looking up the nearest hourly observation.
type WeatherEnricher struct {
	source domain.WeatherSource
	logger *slog.Logger
}

// NewTransformer creates a WeatherEnricher backed by source.
func NewTransformer(source domain.WeatherSource, logger *slog.Logger) *WeatherEnricher {
	return &WeatherEnricher{source: source, logger: logger}
}

func (t *WeatherEnricher) Transform(ctx context.Context, rec domain.ActivityRecord) (domain.Observation, domain.LookupOutcome) {
	coords := domain.ParseCoordinates(rec.StartLatLng)
	if !coords.Valid {
		return domain.Observation{}, domain.OutcomeSkipped
	}
	if !rec.HasStartTime {
		t.logger.Warn("activity has no start time, skipping lookup",
			"row", rec.Index,
			"location", coords.Location(),
		)
		return domain.Observation{}, domain.OutcomeSkipped
	}
	obs, outcome := domain.LookupWeather(ctx, t.source, coords, rec.StartTime, t.logger)
	if outcome == domain.OutcomeSuccess && obs.IsEmpty() {
		t.logger.Debug("matched hour carries no weather attributes", "row", rec.Index, "location", coords.Location())
	}
	return obs, outcome
}
