package graph

import (
	"sort"

	"ripple/internal/facts"
)

// Classification buckets a file by its role in the source tree, inferred
// from path segments.
type Classification string

const (
	ClassPage      Classification = "page"
	ClassComponent Classification = "component"
	ClassHook      Classification = "hook"
	ClassStore     Classification = "store"
	ClassAPI       Classification = "api"
	ClassUtil      Classification = "util"
	ClassType      Classification = "type"
	ClassConfig    Classification = "config"
	ClassOther     Classification = "other"
)

// baseWeight anchors the risk weight per classification.
var baseWeight = map[Classification]int{
	ClassAPI:       30,
	ClassStore:     25,
	ClassHook:      20,
	ClassConfig:    20,
	ClassUtil:      15,
	ClassComponent: 10,
	ClassPage:      10,
	ClassType:      5,
	ClassOther:     5,
}

// NodeMetadata describes one graph node after construction.
type NodeMetadata struct {
	Classification  Classification
	ModuleName      string
	ExportCount     int
	DependentCount  int
	DependencyCount int
	IsEntryPoint    bool
	Weight          int // 0..100
}

// Graph is a bidirectional file dependency graph. It is built once from a
// fact snapshot and never mutated afterwards, so it is safe for concurrent
// reads without locking.
type Graph struct {
	nodes        map[string]bool
	edges        map[string]map[string]bool // dependsOn: A -> set of B
	reverseEdges map[string]map[string]bool // dependedOnBy: B -> set of A
	meta         map[string]*NodeMetadata
}

// Build constructs the dependency graph from a frozen snapshot. Relative
// imports are resolved with extension probing; unresolved and external
// imports contribute no edge. Self-referential imports are accepted and
// produce a self-loop for the cycle detector to report.
func Build(snap *facts.Snapshot) *Graph {
	g := &Graph{
		nodes:        make(map[string]bool),
		edges:        make(map[string]map[string]bool),
		reverseEdges: make(map[string]map[string]bool),
		meta:         make(map[string]*NodeMetadata),
	}

	for _, path := range snap.Paths() {
		g.ensureNode(path)
	}

	for _, path := range snap.Paths() {
		fact, _ := snap.Get(path)
		for _, imp := range fact.Imports {
			if imp.IsExternal {
				continue
			}
			target, ok := ResolveImport(path, imp.Target, snap)
			if !ok {
				continue
			}
			g.addEdge(path, target)
		}
	}

	for _, path := range snap.Paths() {
		fact, _ := snap.Get(path)
		g.meta[path] = buildMetadata(path, fact, len(g.reverseEdges[path]), len(g.edges[path]))
	}

	return g
}

func (g *Graph) ensureNode(path string) {
	if g.nodes[path] {
		return
	}
	g.nodes[path] = true
	g.edges[path] = make(map[string]bool)
	g.reverseEdges[path] = make(map[string]bool)
}

// addEdge inserts from -> to into both adjacency maps. The two maps stay
// exact transposes of one another.
func (g *Graph) addEdge(from, to string) {
	g.ensureNode(from)
	g.ensureNode(to)
	g.edges[from][to] = true
	g.reverseEdges[to][from] = true
}

func buildMetadata(path string, fact *facts.FileFact, dependents, dependencies int) *NodeMetadata {
	class := Classify(path)
	exportCount := 0
	if fact != nil {
		exportCount = len(fact.Exports)
	}

	weight := baseWeight[class]
	weight += minInt(dependents*3, 30)
	weight += minInt(exportCount*2, 20)
	if weight < 0 {
		weight = 0
	}
	if weight > 100 {
		weight = 100
	}

	return &NodeMetadata{
		Classification:  class,
		ModuleName:      ModuleName(path),
		ExportCount:     exportCount,
		DependentCount:  dependents,
		DependencyCount: dependencies,
		IsEntryPoint:    isEntryPoint(path),
		Weight:          weight,
	}
}

// Has reports whether the path is a node.
func (g *Graph) Has(path string) bool {
	return g.nodes[path]
}

// Nodes returns all node paths in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DependsOn returns the sorted dependency targets of a node.
func (g *Graph) DependsOn(path string) []string {
	return sortedKeys(g.edges[path])
}

// DependedOnBy returns the sorted dependents of a node.
func (g *Graph) DependedOnBy(path string) []string {
	return sortedKeys(g.reverseEdges[path])
}

// HasEdge reports whether from depends on to.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edges[from][to]
}

// OutDegree returns the number of dependencies of a node.
func (g *Graph) OutDegree(path string) int {
	return len(g.edges[path])
}

// Metadata returns the node metadata, or nil for unknown paths.
func (g *Graph) Metadata(path string) *NodeMetadata {
	return g.meta[path]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, targets := range g.edges {
		total += len(targets)
	}
	return total
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
