// Command validate checks an enriched output file against the input it was
// built from. It verifies row counts, that every input column passes through
// unchanged, and that the appended weather columns are well formed.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -input data/music_running_dataset.csv \
//	  -output analysis_dataset/music_running_weather.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/run-weather-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the input activities CSV")
	output := flag.String("output", "", "path to the enriched output CSV")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*input, *output))
}

func run(inputPath, outputPath string) int {
	fmt.Println("=== Run Weather Output Validation ===")
	fmt.Println()

	metrics := observability.NewMetrics()
	ctx := context.Background()

	in, err := csvfile.NewReader(inputPath, metrics).Extract(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load input: %v\n", err)
		return 1
	}
	out, err := csvfile.NewReader(outputPath, metrics).Extract(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load output: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateShape(in, out),
		validatePassthrough(in, out),
		validateWeatherColumns(in, out),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d input, %d output, %d with weather\n",
		len(in.Rows), len(out.Rows), countEnriched(in, out))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateShape(in, out domain.Dataset) *phase {
	p := &phase{name: "Shape (rows, header)"}

	if len(in.Rows) != len(out.Rows) {
		p.errorf("row count: input %d, output %d", len(in.Rows), len(out.Rows))
	}

	want := slices.Concat(in.Header, domain.WeatherColumns)
	if !slices.Equal(want, out.Header) {
		p.errorf("header: want %v, got %v", want, out.Header)
	}
	return p
}

func validatePassthrough(in, out domain.Dataset) *phase {
	p := &phase{name: "Passthrough columns unchanged"}

	for i := range min(len(in.Rows), len(out.Rows)) {
		for j, name := range in.Header {
			if j >= len(out.Rows[i]) {
				p.errorf("row %d: missing column %q", i, name)
				break
			}
			if in.Rows[i][j] != out.Rows[i][j] {
				p.errorf("row %d, column %q: input %q, output %q", i, name, in.Rows[i][j], out.Rows[i][j])
			}
		}
	}
	return p
}

func validateWeatherColumns(in, out domain.Dataset) *phase {
	p := &phase{name: "Weather columns aligned"}

	latLngIdx, hasLatLng := in.ColumnIndex(domain.ColumnStartLatLng)
	offset := len(in.Header)

	for i := range min(len(in.Rows), len(out.Rows)) {
		if len(out.Rows[i]) != len(out.Header) {
			p.errorf("row %d: %d fields, header has %d", i, len(out.Rows[i]), len(out.Header))
		}
		weather := weatherCells(out.Rows[i], offset)

		if hasLatLng && !domain.ParseCoordinates(in.Rows[i][latLngIdx]).Valid && hasAny(weather) {
			p.errorf("row %d: weather present without usable coordinates %q", i, in.Rows[i][latLngIdx])
		}
	}
	return p
}

// ── Helpers ──

func weatherCells(row []string, offset int) []string {
	cells := make([]string, len(domain.WeatherColumns))
	for j := range cells {
		if offset+j < len(row) {
			cells[j] = row[offset+j]
		}
	}
	return cells
}

func hasAny(cells []string) bool {
	return slices.ContainsFunc(cells, func(s string) bool { return s != "" })
}

func countEnriched(in, out domain.Dataset) int {
	n := 0
	for _, row := range out.Rows {
		if hasAny(weatherCells(row, len(in.Header))) {
			n++
		}
	}
	return n
}
