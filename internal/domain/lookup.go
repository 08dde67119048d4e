package domain

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// LookupWeather finds the observation nearest in time-of-day to runAt at the
// given coordinates. Absent coordinates short-circuit without calling the
// source. Source failures are logged and resolve to an empty observation so
// the caller can keep the row (graceful degradation).
func LookupWeather(ctx context.Context, source WeatherSource, coords Coordinates, runAt time.Time, logger *slog.Logger) (Observation, LookupOutcome) {
	if !coords.Valid {
		return Observation{}, OutcomeSkipped
	}

	date := runAt.Format(time.DateOnly)
	hours, err := source.HourlyObservations(ctx, coords, date)
	if err != nil {
		logger.Warn("weather lookup failed",
			"location", coords.Location(),
			"date", date,
			"error", err,
		)
		return Observation{}, OutcomeError
	}

	best, ok := SelectClosestHour(hours, MinuteOfDay(runAt))
	if !ok {
		return Observation{}, OutcomeEmpty
	}
	return best.Observation, OutcomeSuccess
}

// SelectClosestHour returns the sample whose clock time is nearest to
// minuteOfDay. The scan keeps input order and only replaces the current best
// on a strictly smaller distance, so the first of several equal candidates
// wins. Samples with an unreadable clock time are skipped.
func SelectClosestHour(hours []HourSample, minuteOfDay int) (HourSample, bool) {
	var (
		best     HourSample
		bestDiff = -1
	)
	for _, h := range hours {
		if h.Time == nil {
			continue
		}
		minutes, ok := ClockMinutes(*h.Time)
		if !ok {
			continue
		}
		diff := abs(minutes - minuteOfDay)
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = h, diff
		}
	}
	return best, bestDiff >= 0
}

// ClockMinutes converts "HH:MM[:SS...]" to hours*60+minutes. Every
// colon-separated part must be an integer and at least two are required.
func ClockMinutes(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, false
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, false
		}
		values[i] = v
	}
	return values[0]*60 + values[1], true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
