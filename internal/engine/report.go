package engine

import (
	"time"

	"github.com/google/uuid"

	"ripple/internal/chains"
	"ripple/internal/comptree"
	"ripple/internal/graph"
	"ripple/internal/rank"
)

// Summary captures the headline counts of an analysis run.
type Summary struct {
	Files         int `json:"files"`
	Nodes         int `json:"nodes"`
	Edges         int `json:"edges"`
	Cycles        int `json:"cycles"`
	AffectedFiles int `json:"affected_files"`
	CallChains    int `json:"call_chains"`
	Suggestions   int `json:"suggestions"`
}

// Analysis is the deterministic result of one pipeline run. It carries
// no run identity, so equal inputs serialize to equal bytes.
type Analysis struct {
	ChangedPaths  []string                   `json:"changed_paths"`
	Summary       Summary                    `json:"summary"`
	Cycles        []graph.Cycle              `json:"cycles"`
	Depths        map[string]int             `json:"depths"`
	Impact        *graph.ImpactResult        `json:"impact"`
	CallChains    []chains.CallChain         `json:"call_chains"`
	ComponentTree *comptree.Forest           `json:"component_tree"`
	Suggestions   []rank.TestPathSuggestion  `json:"suggestions"`
	Warnings      []string                   `json:"warnings,omitempty"`
}

// Report wraps an Analysis with run identity for persistence and
// rendering.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	CommitHash  string    `json:"commit_hash,omitempty"`
	*Analysis
}

func NewReport(analysis *Analysis, commitHash string) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		CommitHash:  commitHash,
		Analysis:    analysis,
	}
}
