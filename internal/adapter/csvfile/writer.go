package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// Writer saves the enriched dataset as CSV without an index column.
// It implements pipeline.Loader.
type Writer struct {
	path    string
	metrics *observability.Metrics
}

// NewWriter creates a Writer for the file at path.
func NewWriter(path string, metrics *observability.Metrics) *Writer {
	return &Writer{path: path, metrics: metrics}
}

// Load writes to a temporary file in the target directory and renames it
// into place, so a failed write never leaves a truncated output behind.
// The parent directory is created when missing.
func (w *Writer) Load(ctx context.Context, d domain.EnrichedDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := writeDataset(tmp, d); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}

	w.metrics.RowsWritten.Add(float64(len(d.Rows)))
	return nil
}

func writeDataset(f io.Writer, d domain.EnrichedDataset) error {
	cw := csv.NewWriter(f)
	if err := cw.Write(d.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(d.Rows); err != nil {
		return err
	}
	return cw.Error()
}
