package history

import (
	"time"

	"ripple/internal/engine"
)

const SchemaVersion = 1

// Run is one persisted analysis summary, used for trend reporting
// across repeated runs of the tool.
type Run struct {
	SchemaVersion   int       `json:"schema_version"`
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	FileCount       int       `json:"file_count"`
	EdgeCount       int       `json:"edge_count"`
	CycleCount      int       `json:"cycle_count"`
	ChangedCount    int       `json:"changed_count"`
	AffectedCount   int       `json:"affected_count"`
	ChainCount      int       `json:"chain_count"`
	SuggestionCount int       `json:"suggestion_count"`
	WarningCount    int       `json:"warning_count"`
}

// RunFromReport flattens a report into its persisted summary form.
func RunFromReport(r *engine.Report) Run {
	return Run{
		SchemaVersion:   SchemaVersion,
		RunID:           r.RunID,
		Timestamp:       r.GeneratedAt,
		CommitHash:      r.CommitHash,
		FileCount:       r.Summary.Files,
		EdgeCount:       r.Summary.Edges,
		CycleCount:      r.Summary.Cycles,
		ChangedCount:    len(r.ChangedPaths),
		AffectedCount:   r.Summary.AffectedFiles,
		ChainCount:      r.Summary.CallChains,
		SuggestionCount: r.Summary.Suggestions,
		WarningCount:    len(r.Warnings),
	}
}

// TrendPoint is one run annotated with deltas against the previous
// run in the same window.
type TrendPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	CommitHash    string    `json:"commit_hash,omitempty"`
	FileCount     int       `json:"file_count"`
	CycleCount    int       `json:"cycle_count"`
	AffectedCount int       `json:"affected_count"`
	DeltaFiles    int       `json:"delta_files"`
	DeltaCycles   int       `json:"delta_cycles"`
	DeltaAffected int       `json:"delta_affected"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}
