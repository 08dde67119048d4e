// Package domain models running activities and the historical weather
// observations matched to them.
//
// # Input Data
//
// Activities arrive as rows of a delimited file. Two columns are interpreted:
//
//	start_latlng  a stringified coordinate pair, e.g. "[45.5, -73.6]".
//	              Lists and tuples are accepted, elements may be quoted.
//	start_dt      the activity start, e.g. "2024-05-04 07:42:10+00:00".
//
// Every other column passes through untouched. Empty cells and the usual NA
// tokens ("NaN", "null", "None", "N/A", ...) count as missing.
//
// # Weather Data
//
// Observations come from the Visual Crossing timeline API, one request per
// location and calendar day, at hourly granularity in metric units. Each hour
// carries a clock time ("HH:MM:SS") and the five attributes written out:
//
//	temp        degrees Celsius
//	humidity    relative humidity, percent
//	windspeed   km/h
//	precip      mm
//	conditions  descriptive label, e.g. "Partially cloudy"
//
// Values are written exactly as the provider sent them: "12.0" stays "12.0"
// and "12" stays "12". Dataframe tooling that coerces a column to float would
// print both as "12.0"; this package does not normalize numbers, so output
// follows the provider's JSON text instead.
//
// # Matching
//
// The hour whose clock time is nearest to the activity's start time-of-day is
// selected. Distance is |(h1*60+m1) - (h2*60+m2)| minutes within one day; the
// first hour reaching the minimum wins. Hours with an unreadable clock time
// are ignored. See [SelectClosestHour].
//
// # Missing Data
//
// Absent coordinates, provider failures and empty responses all resolve to a
// fully-null [Observation]. A row is never dropped: output row i is always
// input row i followed by its observation.
package domain
