package graph

import (
	"testing"

	"ripple/internal/facts"
)

func fact(path string, imports ...string) *facts.FileFact {
	f := &facts.FileFact{Path: path}
	for _, imp := range imports {
		f.Imports = append(f.Imports, facts.Import{Target: imp})
	}
	return f
}

func TestBuild_EdgesAndTranspose(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		fact("src/a.ts", "./b", "./missing", "react"),
		fact("src/b.ts", "./c/index"),
		fact("src/c/index.ts"),
	})
	g := Build(snap)

	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}
	if !g.HasEdge("src/a.ts", "src/b.ts") {
		t.Error("expected edge a -> b")
	}
	if !g.HasEdge("src/b.ts", "src/c/index.ts") {
		t.Error("expected edge b -> c/index")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges (unresolved and external dropped), got %d", g.EdgeCount())
	}

	// Every edge must appear in both adjacency maps.
	for _, a := range g.Nodes() {
		for _, b := range g.DependsOn(a) {
			found := false
			for _, back := range g.DependedOnBy(b) {
				if back == a {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("transpose invariant violated for edge %s -> %s", a, b)
			}
		}
	}
}

func TestBuild_SelfLoopAccepted(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		fact("src/a.ts", "./a"),
	})
	g := Build(snap)

	if !g.HasEdge("src/a.ts", "src/a.ts") {
		t.Error("self-referential import should produce a self-loop edge")
	}
}

func TestBuild_ExtensionProbingOrder(t *testing.T) {
	// Both candidates exist; .ts must win over .tsx.
	snap := facts.NewSnapshot([]*facts.FileFact{
		fact("src/a.ts", "./widget"),
		fact("src/widget.ts"),
		fact("src/widget.tsx"),
	})
	g := Build(snap)

	if !g.HasEdge("src/a.ts", "src/widget.ts") {
		t.Error("expected .ts candidate to win the probe order")
	}
	if g.HasEdge("src/a.ts", "src/widget.tsx") {
		t.Error(".tsx candidate should not be linked when .ts resolves")
	}
}

func TestBuild_Weight(t *testing.T) {
	// api base 30, two dependents (+6), one export (+2) = 38.
	api := fact("src/api/client.ts")
	api.Exports = []string{"fetchUser"}
	snap := facts.NewSnapshot([]*facts.FileFact{
		api,
		fact("src/a.ts", "./api/client"),
		fact("src/b.ts", "./api/client"),
	})
	g := Build(snap)

	meta := g.Metadata("src/api/client.ts")
	if meta == nil {
		t.Fatal("missing metadata for api node")
	}
	if meta.Classification != ClassAPI {
		t.Errorf("expected api classification, got %s", meta.Classification)
	}
	if meta.DependentCount != 2 {
		t.Errorf("expected 2 dependents, got %d", meta.DependentCount)
	}
	if meta.Weight != 38 {
		t.Errorf("expected weight 38, got %d", meta.Weight)
	}
}

func TestBuild_WeightClamped(t *testing.T) {
	hub := fact("src/api/hub.ts")
	for i := 0; i < 30; i++ {
		hub.Exports = append(hub.Exports, "export")
	}
	ff := []*facts.FileFact{hub}
	for i := 0; i < 15; i++ {
		ff = append(ff, fact("src/dep"+string(rune('a'+i))+".ts", "./api/hub"))
	}
	g := Build(facts.NewSnapshot(ff))

	meta := g.Metadata("src/api/hub.ts")
	// 30 base + capped 30 dependents + capped 20 exports = 80.
	if meta.Weight != 80 {
		t.Errorf("expected contributions capped at 30/20 (weight 80), got %d", meta.Weight)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Classification
	}{
		{"src/pages/Home.tsx", ClassPage},
		{"src/views/Login.tsx", ClassPage},
		{"src/components/Button.tsx", ClassComponent},
		{"src/hooks/useAuth.ts", ClassHook},
		{"src/useCart.ts", ClassHook},
		{"src/store/user.ts", ClassStore},
		{"src/api/client.ts", ClassAPI},
		{"src/services/http.ts", ClassAPI},
		{"src/utils/format.ts", ClassUtil},
		{"src/types/user.ts", ClassType},
		{"src/app.config.ts", ClassConfig},
		{"src/misc.ts", ClassOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestModuleName(t *testing.T) {
	if got := ModuleName("src/features/cart/slice.ts"); got != "features" {
		t.Errorf("expected module features, got %s", got)
	}
	if got := ModuleName("standalone.ts"); got != "standalone.ts" {
		t.Errorf("expected bare path as module, got %s", got)
	}
}

func TestIsEntryPoint(t *testing.T) {
	if !isEntryPoint("src/index.ts") {
		t.Error("index.ts should be an entry point")
	}
	if !isEntryPoint("src/App.tsx") {
		t.Error("App.tsx should be an entry point")
	}
	if isEntryPoint("src/components/Button.tsx") {
		t.Error("Button.tsx should not be an entry point")
	}
}
