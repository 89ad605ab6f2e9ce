package graph

// CalculateDepths assigns each node a dependency depth by breadth-first
// layering from leaf nodes (zero out-degree). Depth flows from
// dependencies to dependents over reverseEdges, keeping the maximum depth
// seen so a node reachable from several leaves reports its worst-case
// blast radius.
//
// Nodes on a cycle keep the depth of their first discovery; relaxing them
// again would loop forever through the cycle's back edge. First discovery
// is well defined because traversal order is fixed: leaves enter the
// queue in sorted path order and dependents are visited sorted, so
// repeated runs assign cyclic nodes the same depth. Nodes
// unreachable from any leaf get no entry at all; callers must treat a
// missing depth as unknown/cyclic, not as zero.
func (g *Graph) CalculateDepths() map[string]int {
	depths := make(map[string]int)
	inCycle := g.InCycle()

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.Nodes() {
		if g.OutDegree(node) == 0 {
			depths[node] = 0
			queue = append(queue, node)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		next := depths[curr] + 1

		for _, dependent := range g.DependedOnBy(curr) {
			existing, seen := depths[dependent]
			switch {
			case !seen:
				depths[dependent] = next
				queue = append(queue, dependent)
			case next > existing && !inCycle[dependent]:
				depths[dependent] = next
				queue = append(queue, dependent)
			}
		}
	}

	return depths
}
