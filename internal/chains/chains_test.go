package chains

import (
	"testing"

	"ripple/internal/facts"
)

func snapshot() *facts.Snapshot {
	return facts.NewSnapshot([]*facts.FileFact{
		{
			Path: "src/api/user.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "fetchUser", StartLine: 3, Calls: []string{"parseResponse"}},
			},
		},
		{
			Path: "src/utils/parse.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "parseResponse", StartLine: 1},
			},
		},
		{
			Path: "src/pages/Profile.tsx",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "loadProfile", StartLine: 10, Calls: []string{"fetchUser"}},
			},
		},
	})
}

func TestBuild_CallersAndCallees(t *testing.T) {
	changed := map[string]bool{"src/api/user.ts": true}
	chains := Build(snapshot(), changed)

	if len(chains) != 1 {
		t.Fatalf("expected 1 chain for the changed function, got %d", len(chains))
	}
	c := chains[0]
	if c.EntryUnit != "fetchUser" || c.EntryFile != "src/api/user.ts" {
		t.Errorf("unexpected entry: %s in %s", c.EntryUnit, c.EntryFile)
	}

	var caller, callee *ChainNode
	for i := range c.Nodes {
		switch c.Nodes[i].Unit {
		case "loadProfile":
			caller = &c.Nodes[i]
		case "parseResponse":
			callee = &c.Nodes[i]
		}
	}
	if caller == nil || caller.Depth != 1 {
		t.Error("expected loadProfile as a depth-1 caller")
	}
	if callee == nil || callee.Depth != 1 {
		t.Error("expected parseResponse as a depth-1 callee")
	}
	if c.Nodes[0].Depth != 0 || !c.Nodes[0].IsChanged {
		t.Error("entry node must sit at depth 0 and be marked changed")
	}
}

func TestBuild_RiskLevel(t *testing.T) {
	changed := map[string]bool{"src/api/user.ts": true}
	chains := Build(snapshot(), changed)

	// Entry changed and chain spans 3 files.
	if chains[0].RiskLevel != RiskHigh {
		t.Errorf("expected high risk, got %s", chains[0].RiskLevel)
	}
	if chains[0].SpansFiles() != 3 {
		t.Errorf("expected 3 involved files, got %d", chains[0].SpansFiles())
	}
}

func TestBuild_TwoFileChainIsMedium(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path: "src/a.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "doWork", StartLine: 1, Calls: []string{"helper"}},
			},
		},
		{
			Path: "src/b.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "helper", StartLine: 1},
			},
		},
	})

	chains := Build(snap, map[string]bool{"src/a.ts": true})
	if len(chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(chains))
	}
	if chains[0].RiskLevel != RiskMedium {
		t.Errorf("two-file chain should be medium, got %s", chains[0].RiskLevel)
	}
}

func TestBuild_OnlyFunctionUnitsSeed(t *testing.T) {
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path: "src/components/Button.tsx",
			Units: []facts.Unit{
				{Kind: facts.KindComponent, Name: "Button", StartLine: 1},
				{Kind: facts.KindType, Name: "ButtonProps", StartLine: 20},
				{Kind: facts.KindFunction, Name: "useButtonState", StartLine: 30},
			},
		},
	})

	chains := Build(snap, map[string]bool{"src/components/Button.tsx": true})
	if len(chains) != 1 {
		t.Fatalf("only function/hook units seed chains, got %d chains", len(chains))
	}
	if chains[0].EntryUnit != "useButtonState" {
		t.Errorf("unexpected entry %s", chains[0].EntryUnit)
	}
}

func TestBuild_NameCollisionOverMatches(t *testing.T) {
	// Two files declare init; the caller matching is by bare identifier,
	// so both a true caller and an unrelated one are picked up.
	snap := facts.NewSnapshot([]*facts.FileFact{
		{
			Path: "src/core.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "init", StartLine: 1},
			},
		},
		{
			Path: "src/other.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "boot", StartLine: 1, Calls: []string{"init"}},
			},
		},
		{
			Path: "src/unrelated.ts",
			Units: []facts.Unit{
				{Kind: facts.KindFunction, Name: "setup", StartLine: 1, Calls: []string{"init"}},
			},
		},
	})

	chains := Build(snap, map[string]bool{"src/core.ts": true})
	callers := 0
	for _, n := range chains[0].Nodes {
		if n.Depth == 1 {
			callers++
		}
	}
	if callers != 2 {
		t.Errorf("identifier matching should over-match both callers, got %d", callers)
	}
}
