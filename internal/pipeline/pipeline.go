package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/run-weather-etl/internal/domain"
	"github.com/couchcryptid/run-weather-etl/internal/observability"
)

// Extractor loads the input dataset.
type Extractor interface {
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Transformer resolves the weather observation for one activity.
type Transformer interface {
	Transform(ctx context.Context, rec domain.ActivityRecord) (domain.Observation, domain.LookupOutcome)
}

// Loader writes the enriched dataset to its destination.
type Loader interface {
	Load(ctx context.Context, d domain.EnrichedDataset) error
}

// Pacer blocks between rows to bound the request rate.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Pipeline runs a single extract-enrich-load pass over the input file.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	pacer       Pacer
	logger      *slog.Logger
	metrics     *observability.Metrics
	loaded      atomic.Bool

	mu     sync.Mutex
	status domain.RunStatus
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, pacer Pacer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		pacer:       pacer,
		logger:      logger,
		metrics:     metrics,
		status: domain.RunStatus{
			Phase:    domain.PhaseStarting,
			Outcomes: map[domain.LookupOutcome]int{},
		},
	}
}

// CheckReadiness returns nil once the input dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.loaded.Load() {
		return errors.New("input dataset not loaded yet")
	}
	return nil
}

// Status returns a snapshot of the run progress.
func (p *Pipeline) Status() domain.RunStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status
	s.Outcomes = maps.Clone(p.status.Outcomes)
	return s
}

// Run enriches every input row in order and writes the result. Per-row
// lookup failures are recovered; any other error aborts the run before
// output is written.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	if err := p.run(ctx); err != nil {
		p.setPhase(domain.PhaseFailed)
		return err
	}
	p.setPhase(domain.PhaseDone)
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (p *Pipeline) run(ctx context.Context) error {
	dataset, err := p.extractor.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	rows, cols := dataset.Shape()
	p.logger.Info("dataset loaded", "rows", rows, "columns", cols)
	p.loaded.Store(true)

	records, err := domain.NormalizeActivities(dataset)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	p.mu.Lock()
	p.status.Phase = domain.PhaseEnriching
	p.status.RowsTotal = len(records)
	p.mu.Unlock()

	observations := make([]domain.Observation, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		obs, outcome := p.transformer.Transform(ctx, rec)
		observations = append(observations, obs)
		p.recordOutcome(outcome)

		if err := p.pacer.Wait(ctx); err != nil {
			return fmt.Errorf("pacing after row %d: %w", rec.Index, err)
		}
	}

	enriched, err := domain.Concat(dataset, observations)
	if err != nil {
		return err
	}

	p.setPhase(domain.PhaseWriting)
	if err := p.loader.Load(ctx, enriched); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	p.logSummary()
	return nil
}

func (p *Pipeline) recordOutcome(outcome domain.LookupOutcome) {
	p.metrics.Lookups.WithLabelValues(string(outcome)).Inc()

	p.mu.Lock()
	p.status.RowsDone++
	p.status.Outcomes[outcome]++
	done, total := p.status.RowsDone, p.status.RowsTotal
	p.mu.Unlock()

	if done%100 == 0 {
		p.logger.Info("enrichment progress", "rows_done", done, "rows_total", total)
	}
}

func (p *Pipeline) setPhase(phase domain.RunPhase) {
	p.mu.Lock()
	p.status.Phase = phase
	p.mu.Unlock()
}

func (p *Pipeline) logSummary() {
	s := p.Status()
	p.logger.Info("enrichment complete",
		"rows", s.RowsDone,
		"success", s.Outcomes[domain.OutcomeSuccess],
		"empty", s.Outcomes[domain.OutcomeEmpty],
		"error", s.Outcomes[domain.OutcomeError],
		"skipped", s.Outcomes[domain.OutcomeSkipped],
	)
}
