// Package rank turns changed components and high-risk call chains into a
// prioritized list of test-path suggestions.
package rank

import (
	"sort"
	"strconv"
	"strings"

	"ripple/internal/chains"
	"ripple/internal/facts"
	"ripple/internal/graph"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityOrder = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// TestPathSuggestion is one recommended manual or automated test target.
type TestPathSuggestion struct {
	Component        string
	File             string
	Route            string // inferred, empty when no page segment matches
	ChangedFunctions []string
	SideEffects      []facts.SideEffectKind
	Priority         Priority
	Weight           int    // node weight of the component's file, for report context
	Reason           string // short human-readable rationale
}

// Suggest builds suggestions for every changed component plus one per
// high-risk call chain, sorted by priority. The sort is stable so equal
// priorities keep their deterministic construction order.
func Suggest(snap *facts.Snapshot, g *graph.Graph, changedPaths map[string]bool, callChains []chains.CallChain) []TestPathSuggestion {
	var suggestions []TestPathSuggestion

	for _, path := range snap.Paths() {
		if !changedPaths[path] {
			continue
		}
		f, _ := snap.Get(path)
		for _, u := range f.Units {
			if u.Kind != facts.KindComponent {
				continue
			}
			suggestions = append(suggestions, suggestComponent(f, u, g))
		}
	}

	for _, chain := range callChains {
		if chain.RiskLevel != chains.RiskHigh {
			continue
		}
		suggestions = append(suggestions, TestPathSuggestion{
			Component: chain.EntryUnit,
			File:      chain.EntryFile,
			Priority:  PriorityHigh,
			Reason:    "high-risk call chain spanning " + strconv.Itoa(chain.SpansFiles()) + " files",
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return priorityOrder[suggestions[i].Priority] < priorityOrder[suggestions[j].Priority]
	})
	return suggestions
}

func suggestComponent(f *facts.FileFact, u facts.Unit, g *graph.Graph) TestPathSuggestion {
	s := TestPathSuggestion{
		Component: u.Name,
		File:      f.Path,
		Route:     InferRoute(f.Path),
	}

	for _, unit := range f.Units {
		if unit.Kind == facts.KindFunction {
			s.ChangedFunctions = append(s.ChangedFunctions, unit.Name)
		}
	}
	for kind := range f.SideEffects {
		s.SideEffects = append(s.SideEffects, kind)
	}
	sort.Slice(s.SideEffects, func(i, j int) bool { return s.SideEffects[i] < s.SideEffects[j] })

	if meta := g.Metadata(f.Path); meta != nil {
		s.Weight = meta.Weight
	}

	highRisk := false
	for kind := range f.SideEffects {
		if facts.HighRiskSideEffects[kind] {
			highRisk = true
			break
		}
	}
	manyChildren := len(u.ChildComponents) > 3
	manyHandlers := u.HandlerCount > 3

	// First match wins.
	switch {
	case highRisk && manyChildren:
		s.Priority = PriorityCritical
		s.Reason = "high-risk side effects on a widely composed component"
	case highRisk:
		s.Priority = PriorityHigh
		s.Reason = "high-risk side effects"
	case manyChildren:
		s.Priority = PriorityHigh
		s.Reason = "widely composed component"
	case manyHandlers:
		s.Priority = PriorityMedium
		s.Reason = "many event handlers"
	default:
		s.Priority = PriorityLow
		s.Reason = "changed component"
	}
	return s
}

// InferRoute derives a page route from /pages/ or /views/ segments, e.g.
// src/pages/user/Profile.tsx -> /user/profile. Empty when the path has no
// page segment.
func InferRoute(path string) string {
	lower := strings.ToLower(path)
	for _, marker := range []string{"/pages/", "/views/"} {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		rest := path[idx+len(marker):]
		if dot := strings.LastIndex(rest, "."); dot > 0 {
			rest = rest[:dot]
		}
		rest = strings.TrimSuffix(rest, "/index")
		if rest == "index" || rest == "" {
			return "/"
		}
		return "/" + strings.ToLower(rest)
	}
	return ""
}
