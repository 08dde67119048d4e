package domain

import (
	"errors"
	"fmt"
	"time"
)

// Column names interpreted by the enrichment.
const (
	ColumnStartLatLng = "start_latlng"
	ColumnStartDT     = "start_dt"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Dataset is a tabular file held in memory: a header and rows of cells in
// file order.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// Shape returns the row and column counts.
func (d Dataset) Shape() (rows, cols int) {
	return len(d.Rows), len(d.Header)
}

// ColumnIndex returns the position of the first column with the given name.
func (d Dataset) ColumnIndex(name string) (int, bool) {
	for i, h := range d.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// ActivityRecord is the interpreted view of one input row.
type ActivityRecord struct {
	Index        int
	StartLatLng  string
	StartTime    time.Time
	HasStartTime bool
}

// NormalizeActivities extracts an ActivityRecord per row, parsing start_dt.
// Missing required columns and unparsable non-empty timestamps are fatal;
// empty timestamps leave HasStartTime unset.
func NormalizeActivities(d Dataset) ([]ActivityRecord, error) {
	latLngIdx, ok := d.ColumnIndex(ColumnStartLatLng)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnStartLatLng)
	}
	startIdx, ok := d.ColumnIndex(ColumnStartDT)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnStartDT)
	}

	records := make([]ActivityRecord, len(d.Rows))
	for i, row := range d.Rows {
		rec := ActivityRecord{Index: i, StartLatLng: cell(row, latLngIdx)}

		raw := cell(row, startIdx)
		if !IsMissing(raw) {
			t, err := ParseTimestamp(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", i, ColumnStartDT, err)
			}
			rec.StartTime = t
			rec.HasStartTime = true
		}
		records[i] = rec
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// EnrichedDataset is the output table: every input column followed by
// WeatherColumns.
type EnrichedDataset struct {
	Header []string
	Rows   [][]string
}

// Concat aligns observations with input rows by position. The counts must
// match.
func Concat(d Dataset, observations []Observation) (EnrichedDataset, error) {
	if len(observations) != len(d.Rows) {
		return EnrichedDataset{}, fmt.Errorf("concat: %d rows but %d observations", len(d.Rows), len(observations))
	}

	header := make([]string, 0, len(d.Header)+len(WeatherColumns))
	header = append(header, d.Header...)
	header = append(header, WeatherColumns...)

	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		out := make([]string, 0, len(row)+len(WeatherColumns))
		out = append(out, row...)
		out = append(out, observations[i].Columns()...)
		rows[i] = out
	}
	return EnrichedDataset{Header: header, Rows: rows}, nil
}
