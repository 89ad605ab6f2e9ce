package graph

// Cycle is one dependency cycle. Path starts and ends with the same node.
type Cycle struct {
	Path []string
	Size int
}

// DetectCycles finds every cycle reachable by depth-first traversal over
// the dependsOn edges. Traversal continues after each find, so cycles that
// share nodes may each be reported, and the same cycle can appear more
// than once under different orderings. That is deliberate: the output is a
// diagnostic, not an exact-once catalogue.
func (g *Graph) DetectCycles() []Cycle {
	var cycles []Cycle
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	for _, node := range g.Nodes() {
		if !visited[node] {
			cycles = findCycles(g, node, visited, onStack, nil, cycles)
		}
	}
	return cycles
}

// findCycles carries all traversal state as explicit parameters so the
// detector has no hidden shared state and can be re-run freely.
func findCycles(g *Graph, curr string, visited, onStack map[string]bool, path []string, cycles []Cycle) []Cycle {
	visited[curr] = true
	onStack[curr] = true
	path = append(path, curr)

	for _, next := range g.DependsOn(curr) {
		if onStack[next] {
			// Cut the path at the first occurrence of next and close it.
			start := -1
			for i, n := range path {
				if n == next {
					start = i
					break
				}
			}
			if start != -1 {
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, next)
				cycles = append(cycles, Cycle{Path: cycle, Size: len(cycle) - 1})
			}
			continue
		}
		if !visited[next] {
			cycles = findCycles(g, next, visited, onStack, path, cycles)
		}
	}

	onStack[curr] = false
	return cycles
}

// InCycle returns the set of nodes that participate in at least one cycle,
// including self-loops. Computed via Tarjan's strongly connected
// components.
func (g *Graph) InCycle() map[string]bool {
	nodes := g.Nodes()

	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexOf := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	inCycle := make(map[string]bool)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indexOf[v] = index
		lowLink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.DependsOn(v) {
			if _, seen := indexOf[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexOf[w] < lowLink[v] {
				lowLink[v] = indexOf[w]
			}
		}

		if lowLink[v] != indexOf[v] {
			return
		}
		component := make([]string, 0)
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		if len(component) > 1 {
			for _, n := range component {
				inCycle[n] = true
			}
		} else if g.HasEdge(component[0], component[0]) {
			inCycle[component[0]] = true
		}
	}

	for _, node := range nodes {
		if _, seen := indexOf[node]; !seen {
			strongConnect(node)
		}
	}
	return inCycle
}
