package comptree

import (
	"testing"

	"ripple/internal/facts"
)

func component(name string, children ...string) facts.Unit {
	return facts.Unit{Kind: facts.KindComponent, Name: name, ChildComponents: children}
}

func TestBuild_RootsAndStubs(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path:  "src/pages/Home.tsx",
			Units: []facts.Unit{component("HomePage", "Header", "ProductList")},
		},
		{
			Path:  "src/components/ProductList.tsx",
			Units: []facts.Unit{component("ProductList", "ProductCard")},
		},
	})
	changed := map[string]bool{
		"src/pages/Home.tsx":             true,
		"src/components/ProductList.tsx": true,
	}

	forest := Build(snap, changed)

	if len(forest.Roots) != 1 {
		t.Fatalf("expected 1 root (HomePage), got %d", len(forest.Roots))
	}
	root := forest.Roots[0]
	if root.Name != "HomePage" || !root.IsChanged || root.Depth != 0 {
		t.Errorf("unexpected root: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}

	var header, list *Node
	for _, c := range root.Children {
		switch c.Name {
		case "Header":
			header = c
		case "ProductList":
			list = c
		}
	}
	if header == nil || header.IsChanged || header.File != "" || !header.IsAffected {
		t.Errorf("Header should be an affected stub: %+v", header)
	}
	if list == nil || !list.IsChanged || list.File != "src/components/ProductList.tsx" {
		t.Errorf("ProductList should be the real changed node: %+v", list)
	}
	if len(list.Children) != 1 || list.Children[0].Name != "ProductCard" {
		t.Errorf("ProductList should own a ProductCard stub: %+v", list.Children)
	}
}

func TestBuild_Totals(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path:  "src/pages/Home.tsx",
			Units: []facts.Unit{component("HomePage", "ProductList")},
		},
		{
			Path:  "src/components/ProductList.tsx",
			Units: []facts.Unit{component("ProductList", "ProductCard")},
		},
	})
	changed := map[string]bool{
		"src/pages/Home.tsx":             true,
		"src/components/ProductList.tsx": true,
	}

	forest := Build(snap, changed)
	if forest.TotalNodes != 3 {
		t.Errorf("expected 3 nodes, got %d", forest.TotalNodes)
	}
	if forest.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", forest.MaxDepth)
	}
}

func TestBuild_IndependentChangedComponentsAreRoots(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{Path: "src/a.tsx", Units: []facts.Unit{component("Alpha")}},
		{Path: "src/b.tsx", Units: []facts.Unit{component("Beta")}},
	})
	changed := map[string]bool{"src/a.tsx": true, "src/b.tsx": true}

	forest := Build(snap, changed)
	if len(forest.Roots) != 2 {
		t.Errorf("unreferenced components must each be a root, got %d", len(forest.Roots))
	}
}

func TestBuild_MutualReferenceStaysATree(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{Path: "src/a.tsx", Units: []facts.Unit{component("Alpha", "Beta")}},
		{Path: "src/b.tsx", Units: []facts.Unit{component("Beta", "Alpha")}},
	})
	changed := map[string]bool{"src/a.tsx": true, "src/b.tsx": true}

	// Each appears in the other's child list, so by the root rule neither
	// is a root. The build must terminate and report an empty forest
	// rather than recurse through the mutual reference.
	forest := Build(snap, changed)
	if len(forest.Roots) != 0 {
		t.Errorf("mutually referenced components are never roots, got %d", len(forest.Roots))
	}
	if forest.TotalNodes != 0 {
		t.Errorf("empty forest expected, got %d nodes", forest.TotalNodes)
	}
}

func TestBuild_SelfReferencingComponentStaysRoot(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{Path: "src/components/TreeNode.tsx", Units: []facts.Unit{component("TreeNode", "TreeNode")}},
	})

	// A recursive component names itself as a child. Only references from
	// other nodes disqualify a root, so it must still appear.
	forest := Build(snap, map[string]bool{"src/components/TreeNode.tsx": true})
	if len(forest.Roots) != 1 {
		t.Fatalf("expected the recursive component as a root, got %d roots", len(forest.Roots))
	}
	root := forest.Roots[0]
	if root.Name != "TreeNode" || !root.IsChanged || root.File != "src/components/TreeNode.tsx" {
		t.Errorf("unexpected root: %+v", root)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "TreeNode" {
		t.Fatalf("the self-reference should be a single child, got %+v", root.Children)
	}
	stub := root.Children[0]
	if stub.IsChanged || stub.File != "" || !stub.IsAffected || len(stub.Children) != 0 {
		t.Errorf("self-reference must degrade to an affected stub: %+v", stub)
	}
	if forest.TotalNodes != 2 || forest.MaxDepth != 1 {
		t.Errorf("expected 2 nodes at max depth 1, got %d nodes, depth %d", forest.TotalNodes, forest.MaxDepth)
	}
}

func TestBuild_CycleBelowRootDegradesToStub(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{Path: "src/root.tsx", Units: []facts.Unit{component("Shell", "Alpha")}},
		{Path: "src/a.tsx", Units: []facts.Unit{component("Alpha", "Beta")}},
		{Path: "src/b.tsx", Units: []facts.Unit{component("Beta", "Alpha")}},
	})
	changed := map[string]bool{"src/root.tsx": true, "src/a.tsx": true, "src/b.tsx": true}

	forest := Build(snap, changed)
	if len(forest.Roots) != 1 || forest.Roots[0].Name != "Shell" {
		t.Fatalf("expected Shell as the sole root, got %+v", forest.Roots)
	}
	// The walk must terminate; the composition cycle is broken by a stub.
	if forest.MaxDepth > 3 {
		t.Errorf("cycle must not extend the walk, max depth %d", forest.MaxDepth)
	}
}

func TestBuild_NonComponentUnitsIgnored(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path: "src/a.tsx",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "helper"},
				component("Alpha"),
			},
		},
	})

	forest := Build(snap, map[string]bool{"src/a.tsx": true})
	if forest.TotalNodes != 1 {
		t.Errorf("only component units belong to the forest, got %d nodes", forest.TotalNodes)
	}
}
