// Package engine runs the full change-impact pipeline over one frozen
// fact snapshot: graph build, cycle detection, depth layering, impact
// propagation, call chains, component tree, and test-path ranking.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ripple/internal/chains"
	"ripple/internal/comptree"
	"ripple/internal/facts"
	"ripple/internal/graph"
	"ripple/internal/observability"
	"ripple/internal/rank"
)

type Engine struct {
	maxDepth int
}

func New(maxDepth int) *Engine {
	if maxDepth <= 0 {
		maxDepth = graph.DefaultMaxImpactDepth
	}
	return &Engine{maxDepth: maxDepth}
}

// Analyze is a pure function of the snapshot and seed set: running it
// twice on the same inputs yields identical results. The snapshot is
// never mutated.
func (e *Engine) Analyze(ctx context.Context, snap *facts.Snapshot, changedPaths []string) *Analysis {
	ctx, span := observability.Tracer.Start(ctx, "engine.Analyze")
	defer span.End()

	analysis := &Analysis{
		ChangedPaths: append([]string(nil), changedPaths...),
	}

	var g *graph.Graph
	e.stage(ctx, "build_graph", func() {
		g = graph.Build(snap)
	})

	e.stage(ctx, "detect_cycles", func() {
		analysis.Cycles = g.DetectCycles()
	})

	e.stage(ctx, "calculate_depths", func() {
		analysis.Depths = g.CalculateDepths()
	})

	e.stage(ctx, "propagate_impact", func() {
		analysis.Impact = g.PropagateImpact(changedPaths, e.maxDepth)
	})

	changedSet := make(map[string]bool, len(changedPaths))
	for _, p := range changedPaths {
		changedSet[p] = true
	}

	e.stage(ctx, "build_chains", func() {
		analysis.CallChains = chains.Build(snap, changedSet)
	})

	e.stage(ctx, "build_component_tree", func() {
		analysis.ComponentTree = comptree.Build(snap, changedSet)
	})

	e.stage(ctx, "rank_suggestions", func() {
		analysis.Suggestions = rank.Suggest(snap, g, changedSet, analysis.CallChains)
	})

	for _, seed := range analysis.Impact.UnknownSeeds {
		analysis.Warnings = append(analysis.Warnings, "unknown changed file: "+seed)
	}
	if analysis.Impact.Truncated {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("impact truncated at depth %d", e.maxDepth))
	}

	analysis.Summary = Summary{
		Files:         snap.Len(),
		Nodes:         g.NodeCount(),
		Edges:         g.EdgeCount(),
		Cycles:        len(analysis.Cycles),
		AffectedFiles: analysis.Impact.AffectedCount(),
		CallChains:    len(analysis.CallChains),
		Suggestions:   len(analysis.Suggestions),
	}

	observability.GraphNodes.Set(float64(g.NodeCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.CyclesDetected.Set(float64(len(analysis.Cycles)))
	observability.ImpactedNodes.Set(float64(analysis.Impact.AffectedCount()))
	observability.AnalysisRunsTotal.Inc()

	slog.Info("analysis complete",
		"files", analysis.Summary.Files,
		"edges", analysis.Summary.Edges,
		"cycles", analysis.Summary.Cycles,
		"affected", analysis.Summary.AffectedFiles,
		"warnings", len(analysis.Warnings))

	return analysis
}

func (e *Engine) stage(ctx context.Context, name string, fn func()) {
	_, span := observability.Tracer.Start(ctx, "engine."+name)
	defer span.End()

	start := time.Now()
	fn()
	observability.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
