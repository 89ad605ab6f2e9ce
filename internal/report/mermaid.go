package report

import (
	"fmt"
	"strings"

	"ripple/internal/engine"
	"ripple/internal/graph"
)

type MermaidGenerator struct {
	graph *graph.Graph
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

// Generate renders the dependency graph as a flowchart, highlighting
// changed and affected nodes and thickening cycle edges.
func (m *MermaidGenerator) Generate(r *engine.Report) (string, error) {
	if m.graph == nil {
		return "", fmt.Errorf("graph is required")
	}

	var b strings.Builder
	b.WriteString("%%{init: {'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n")
	b.WriteString("flowchart LR\n")

	nodes := m.graph.Nodes()
	ids := make(map[string]string, len(nodes))
	for i, node := range nodes {
		ids[node] = fmt.Sprintf("n%d", i)
	}

	changed := make(map[string]bool, len(r.ChangedPaths))
	for _, p := range r.ChangedPaths {
		changed[p] = true
	}

	cycleEdges := make(map[string]bool)
	for _, c := range r.Cycles {
		for i := 0; i+1 < len(c.Path); i++ {
			cycleEdges[c.Path[i]+"|"+c.Path[i+1]] = true
		}
	}

	for _, node := range nodes {
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", ids[node], node)
	}

	for _, from := range nodes {
		for _, to := range m.graph.DependsOn(from) {
			arrow := "-->"
			if cycleEdges[from+"|"+to] {
				arrow = "==>"
			}
			fmt.Fprintf(&b, "  %s %s %s\n", ids[from], arrow, ids[to])
		}
	}

	var changedIDs, affectedIDs []string
	for _, node := range nodes {
		switch {
		case changed[node]:
			changedIDs = append(changedIDs, ids[node])
		case r.Impact != nil && r.Impact.Affected(node):
			affectedIDs = append(affectedIDs, ids[node])
		}
	}
	b.WriteString("  classDef changed fill:#f88,stroke:#900\n")
	b.WriteString("  classDef affected fill:#fc8,stroke:#960\n")
	if len(changedIDs) > 0 {
		fmt.Fprintf(&b, "  class %s changed\n", strings.Join(changedIDs, ","))
	}
	if len(affectedIDs) > 0 {
		fmt.Fprintf(&b, "  class %s affected\n", strings.Join(affectedIDs, ","))
	}

	return b.String(), nil
}
