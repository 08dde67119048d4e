package domain

// RunPhase names the stage an enrichment run is in.
type RunPhase string

const (
	PhaseStarting  RunPhase = "starting"
	PhaseEnriching RunPhase = "enriching"
	PhaseWriting   RunPhase = "writing"
	PhaseDone      RunPhase = "done"
	PhaseFailed    RunPhase = "failed"
)

// RunStatus is a point-in-time snapshot of run progress.
type RunStatus struct {
	Phase     RunPhase              `json:"phase"`
	RowsTotal int                   `json:"rows_total"`
	RowsDone  int                   `json:"rows_done"`
	Outcomes  map[LookupOutcome]int `json:"outcomes"`
}
