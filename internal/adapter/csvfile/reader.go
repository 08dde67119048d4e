// Package csvfile loads the activities table from disk and writes the
// enriched table back.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// Reader loads a CSV file with a header row.
// It implements pipeline.Extractor.
type Reader struct {
	path    string
	metrics *observability.Metrics
}

// NewReader creates a Reader for the file at path.
func NewReader(path string, metrics *observability.Metrics) *Reader {
	return &Reader{path: path, metrics: metrics}
}

// Extract reads the whole file. A missing or empty file is an error.
func (r *Reader) Extract(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	d, err := readDataset(f)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	r.metrics.RowsRead.Add(float64(len(d.Rows)))
	return d, nil
}

func readDataset(src io.Reader) (domain.Dataset, error) {
	cr := csv.NewReader(src)
	// Short rows are padded to the header width; long rows are rejected.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Dataset{}, errors.New("empty file")
	}
	if err != nil {
		return domain.Dataset{}, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, err
		}
		if len(row) > len(header) {
			line, _ := cr.FieldPos(0)
			return domain.Dataset{}, fmt.Errorf("line %d: %d fields, header has %d", line, len(row), len(header))
		}
		rows = append(rows, padRow(row, len(header)))
	}
	return domain.Dataset{Header: header, Rows: rows}, nil
}

// padRow makes every row as wide as the header so appended weather columns
// stay aligned.
func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
