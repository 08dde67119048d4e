package domain

import "context"

// WeatherColumns are the columns appended to every output row, in order.
var WeatherColumns = []string{"temp", "humidity", "windspeed", "precip", "conditions"}

// Observation holds the weather attributes matched to one activity, each as
// the provider wrote it: a number keeps its literal text ("12.0" stays
// "12.0"), a string is unquoted, and nil means null or absent. Values are
// never coerced, so a provider sending "N/A" for temp yields "N/A".
type Observation struct {
	Temp       *string `json:"temp"`
	Humidity   *string `json:"humidity"`
	WindSpeed  *string `json:"windspeed"`
	Precip     *string `json:"precip"`
	Conditions *string `json:"conditions"`
}

// IsEmpty reports whether no attribute is set.
func (o Observation) IsEmpty() bool {
	return o.Temp == nil && o.Humidity == nil && o.WindSpeed == nil && o.Precip == nil && o.Conditions == nil
}

// Columns renders the observation as output cells in WeatherColumns order.
// Null attributes become empty cells.
func (o Observation) Columns() []string {
	return []string{
		cellText(o.Temp),
		cellText(o.Humidity),
		cellText(o.WindSpeed),
		cellText(o.Precip),
		cellText(o.Conditions),
	}
}

func cellText(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// HourSample is one hourly entry returned by a weather provider.
// Time is the raw clock string ("HH:MM:SS"); nil means the provider sent a
// value that is not a string at all.
type HourSample struct {
	Time *string
	Observation
}

// WeatherSource returns the hourly observations for a location and calendar
// day (YYYY-MM-DD). An empty slice means the provider had no data.
type WeatherSource interface {
	HourlyObservations(ctx context.Context, coords Coordinates, date string) ([]HourSample, error)
}

// LookupOutcome classifies how a lookup resolved.
type LookupOutcome string

const (
	OutcomeSkipped LookupOutcome = "skipped" // no coordinates or start time, no request made
	OutcomeError   LookupOutcome = "error"
	OutcomeEmpty   LookupOutcome = "empty"
	OutcomeSuccess LookupOutcome = "success"
)
