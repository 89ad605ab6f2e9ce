package report

import (
	"fmt"
	"sort"
	"strings"

	"ripple/internal/comptree"
	"ripple/internal/engine"
)

// RenderMarkdown renders the report as a human-readable change-impact
// summary.
func RenderMarkdown(r *engine.Report) string {
	var b strings.Builder

	b.WriteString("# Change Impact Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if r.CommitHash != "" {
		fmt.Fprintf(&b, "- Commit: `%s`\n", r.CommitHash)
	}
	fmt.Fprintf(&b, "- Files: %d, edges: %d, cycles: %d, affected: %d\n\n",
		r.Summary.Files, r.Summary.Edges, r.Summary.Cycles, r.Summary.AffectedFiles)

	if len(r.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(r.ChangedPaths) > 0 {
		b.WriteString("## Changed Files\n\n")
		for _, p := range r.ChangedPaths {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}

	if len(r.Cycles) > 0 {
		b.WriteString("## Dependency Cycles\n\n")
		for _, c := range r.Cycles {
			fmt.Fprintf(&b, "- (%d) %s\n", c.Size, strings.Join(c.Path, " -> "))
		}
		b.WriteString("\n")
	}

	writeImpact(&b, r)
	writeChains(&b, r)
	writeComponentTree(&b, r)
	writeSuggestions(&b, r)

	return b.String()
}

func writeImpact(b *strings.Builder, r *engine.Report) {
	if r.Impact == nil || len(r.Impact.ImpactByDepth) == 0 {
		return
	}

	b.WriteString("## Impact Layers\n\n")
	depths := make([]int, 0, len(r.Impact.ImpactByDepth))
	for d := range r.Impact.ImpactByDepth {
		depths = append(depths, d)
	}
	sort.Ints(depths)

	for _, d := range depths {
		label := "transitive"
		switch d {
		case 0:
			label = "changed"
		case 1:
			label = "indirect"
		}
		fmt.Fprintf(b, "- **Layer %d** (%s): %s\n", d, label,
			strings.Join(r.Impact.ImpactByDepth[d], ", "))
	}
	b.WriteString("\n")
}

func writeChains(b *strings.Builder, r *engine.Report) {
	if len(r.CallChains) == 0 {
		return
	}

	b.WriteString("## Call Chains\n\n")
	for _, c := range r.CallChains {
		fmt.Fprintf(b, "### `%s` (%s risk, %d files)\n\n", c.EntryUnit, c.RiskLevel, c.SpansFiles())
		for _, n := range c.Nodes {
			marker := ""
			if n.IsChanged {
				marker = " *(changed)*"
			}
			fmt.Fprintf(b, "- depth %d: `%s` in `%s:%d`%s\n", n.Depth, n.Unit, n.File, n.Line, marker)
		}
		b.WriteString("\n")
	}
}

func writeComponentTree(b *strings.Builder, r *engine.Report) {
	if r.ComponentTree == nil || len(r.ComponentTree.Roots) == 0 {
		return
	}

	fmt.Fprintf(b, "## Component Tree (%d nodes, depth %d)\n\n",
		r.ComponentTree.TotalNodes, r.ComponentTree.MaxDepth)
	for _, root := range r.ComponentTree.Roots {
		writeTreeNode(b, root, 0)
	}
	b.WriteString("\n")
}

func writeTreeNode(b *strings.Builder, n *comptree.Node, indent int) {
	marker := ""
	if n.IsChanged {
		marker = " *(changed)*"
	} else if n.IsAffected {
		marker = " *(affected)*"
	}
	location := ""
	if n.File != "" {
		location = fmt.Sprintf(" - `%s`", n.File)
	}
	fmt.Fprintf(b, "%s- %s%s%s\n", strings.Repeat("  ", indent), n.Name, location, marker)
	for _, child := range n.Children {
		writeTreeNode(b, child, indent+1)
	}
}

func writeSuggestions(b *strings.Builder, r *engine.Report) {
	if len(r.Suggestions) == 0 {
		return
	}

	b.WriteString("## Suggested Test Paths\n\n")
	b.WriteString("| Priority | Component | Route | Weight | Reason |\n")
	b.WriteString("|----------|-----------|-------|--------|--------|\n")
	for _, s := range r.Suggestions {
		route := s.Route
		if route == "" {
			route = "-"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %d | %s |\n",
			s.Priority, s.Component, route, s.Weight, s.Reason)
	}
	b.WriteString("\n")
}
