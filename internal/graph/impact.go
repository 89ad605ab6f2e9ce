package graph

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultMaxImpactDepth bounds the propagation on pathological fan-in
// graphs. Callers needing full closure raise it explicitly.
const DefaultMaxImpactDepth = 10

var ErrImpactTargetNotFound = errors.New("impact target not found")

// UnknownSeedError reports a changed path that is not a graph node. It is
// surfaced as a warning; the propagation continues with the valid seeds.
type UnknownSeedError struct {
	Path string
}

func (e *UnknownSeedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrImpactTargetNotFound, e.Path)
}

func (e *UnknownSeedError) Unwrap() error {
	return ErrImpactTargetNotFound
}

// ImpactResult classifies every node reachable from the changed seed set
// over dependedOnBy edges. Direct is the seed itself, Indirect the first
// BFS layer, Transitive everything discovered at depth two or beyond.
// ImpactByDepth holds exactly layer i's nodes; layer 0 is the seed.
type ImpactResult struct {
	Direct        map[string]bool
	Indirect      map[string]bool
	Transitive    map[string]bool
	ImpactByDepth map[int][]string

	// UnknownSeeds lists changed paths absent from the graph, dropped
	// from the propagation.
	UnknownSeeds []string
	// Truncated is set when maxDepth was reached with a non-empty next
	// layer still pending. The partial result remains valid.
	Truncated bool
}

// Affected reports whether a path is in any impact layer.
func (r *ImpactResult) Affected(path string) bool {
	return r.Direct[path] || r.Indirect[path] || r.Transitive[path]
}

// AffectedCount returns the total number of impacted nodes including the
// seed.
func (r *ImpactResult) AffectedCount() int {
	return len(r.Direct) + len(r.Indirect) + len(r.Transitive)
}

// PropagateImpact runs layered BFS from the changed seed set over
// dependedOnBy edges, up to maxDepth layers (DefaultMaxImpactDepth when
// maxDepth <= 0). Unknown seeds are recorded and skipped, never fatal.
func (g *Graph) PropagateImpact(changedPaths []string, maxDepth int) *ImpactResult {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxImpactDepth
	}

	result := &ImpactResult{
		Direct:        make(map[string]bool),
		Indirect:      make(map[string]bool),
		Transitive:    make(map[string]bool),
		ImpactByDepth: make(map[int][]string),
	}

	seeds := make([]string, 0, len(changedPaths))
	seen := make(map[string]bool)
	for _, p := range changedPaths {
		if !g.Has(p) {
			result.UnknownSeeds = append(result.UnknownSeeds, p)
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		result.Direct[p] = true
		seeds = append(seeds, p)
	}
	sort.Strings(seeds)
	sort.Strings(result.UnknownSeeds)

	if len(seeds) == 0 {
		return result
	}
	result.ImpactByDepth[0] = seeds

	layer := seeds
	for depth := 1; depth <= maxDepth; depth++ {
		nextSet := make(map[string]bool)
		for _, node := range layer {
			for _, dependent := range g.DependedOnBy(node) {
				if seen[dependent] {
					continue
				}
				seen[dependent] = true
				nextSet[dependent] = true
			}
		}
		if len(nextSet) == 0 {
			return result
		}

		next := sortedKeys(nextSet)
		result.ImpactByDepth[depth] = next
		for _, node := range next {
			if depth == 1 {
				result.Indirect[node] = true
			} else {
				result.Transitive[node] = true
			}
		}
		layer = next
	}

	// A further non-empty layer may exist beyond maxDepth.
	for _, node := range layer {
		for _, dependent := range g.DependedOnBy(node) {
			if !seen[dependent] {
				result.Truncated = true
				return result
			}
		}
	}
	return result
}
