// Package comptree builds a UI-component composition forest from changed
// component units. Roots are components never referenced as a child of
// another: a topmost-changed approximation, not render-root detection.
package comptree

import (
	"sort"

	"ripple/internal/facts"
)

// Node is one component in the forest. Children are owned exclusively by
// their parent; cross-references by name are resolved once at build time.
type Node struct {
	Name       string
	File       string
	IsChanged  bool
	IsAffected bool
	Depth      int
	Children   []*Node
}

// Forest is the built composition forest with walk totals.
type Forest struct {
	Roots      []*Node
	TotalNodes int
	MaxDepth   int
}

// Build assembles the forest in two passes: first register every changed
// component by name, then wire children through the registry. Children
// without their own changed facts become stub nodes with an empty file,
// still tracked as affected. A registered component claimed by one parent
// is not re-parented; later references get a stub so the result stays a
// tree, not a graph.
func Build(snap *facts.Snapshot, changedPaths map[string]bool) *Forest {
	type entry struct {
		unit facts.Unit
		file string
	}

	// Pass 1: collect every changed component unit by name.
	registry := make(map[string]entry)
	names := make([]string, 0)
	for _, path := range snap.Paths() {
		if !changedPaths[path] {
			continue
		}
		f, _ := snap.Get(path)
		for _, u := range f.Units {
			if u.Kind != facts.KindComponent {
				continue
			}
			if _, exists := registry[u.Name]; exists {
				continue
			}
			registry[u.Name] = entry{unit: u, file: path}
			names = append(names, u.Name)
		}
	}
	sort.Strings(names)

	nodes := make(map[string]*Node, len(names))
	for _, name := range names {
		e := registry[name]
		nodes[name] = &Node{
			Name:       name,
			File:       e.file,
			IsChanged:  true,
			IsAffected: true,
		}
	}

	childNames := func(name string) []string {
		if e, ok := registry[name]; ok {
			return e.unit.ChildComponents
		}
		return nil
	}

	// Pass 2: wire children and track which names got claimed as children.
	// Only references from other nodes count toward claiming: a recursive
	// component naming itself stays a root candidate.
	referenced := make(map[string]bool)
	for _, name := range names {
		parent := nodes[name]
		for _, child := range registry[name].unit.ChildComponents {
			if child == name {
				// Self-reference; the recursion shows up as a stub child.
				parent.Children = append(parent.Children, &Node{
					Name:       child,
					IsChanged:  false,
					IsAffected: true,
				})
				continue
			}
			if childNode, ok := nodes[child]; ok && !referenced[child] && !reaches(child, name, childNames) {
				parent.Children = append(parent.Children, childNode)
				referenced[child] = true
				continue
			}
			// Stub: child did not change (or is already claimed); still
			// affected by composition.
			parent.Children = append(parent.Children, &Node{
				Name:       child,
				IsChanged:  false,
				IsAffected: true,
			})
			referenced[child] = true
		}
	}

	forest := &Forest{}
	for _, name := range names {
		if !referenced[name] {
			forest.Roots = append(forest.Roots, nodes[name])
		}
	}

	for _, root := range forest.Roots {
		assignDepths(root, 0, forest)
	}
	return forest
}

// reaches reports whether target is reachable from start through declared
// child references. Used to keep composition cycles from becoming pointer
// cycles: the back reference degrades to a stub.
func reaches(start, target string, children func(string) []string) bool {
	visited := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr == target {
			return true
		}
		if visited[curr] {
			continue
		}
		visited[curr] = true
		stack = append(stack, children(curr)...)
	}
	return false
}

func assignDepths(n *Node, depth int, forest *Forest) {
	n.Depth = depth
	forest.TotalNodes++
	if depth > forest.MaxDepth {
		forest.MaxDepth = depth
	}
	for _, child := range n.Children {
		assignDepths(child, depth+1, forest)
	}
}
