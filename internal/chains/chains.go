// Package chains builds shallow caller/callee neighborhoods around changed
// functions. Matching is by bare identifier, not scope resolution: name
// collisions across files over-match, keeping the result a best-effort
// over-approximation.
package chains

import (
	"sort"

	"ripple/internal/facts"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
)

// ChainNode is one unit in a call chain. Depth 0 is the changed entry
// unit; callers and callees sit at depth 1.
type ChainNode struct {
	Unit      string
	File      string
	Line      int
	IsChanged bool
	Depth     int
}

// CallChain is the single-hop neighborhood of one changed function.
type CallChain struct {
	EntryUnit     string
	EntryFile     string
	Nodes         []ChainNode
	InvolvedFiles []string
	RiskLevel     RiskLevel
}

// SpansFiles returns the number of distinct files the chain touches.
func (c *CallChain) SpansFiles() int {
	return len(c.InvolvedFiles)
}

// Build constructs one chain per changed function or hook unit. Upward it
// scans every unit in the snapshot for calls matching the entry's name;
// downward it resolves each of the entry's own calls to any declared unit
// with that name. No recursion beyond depth 1 in either direction, so cost
// stays linear in the number of changed units.
func Build(snap *facts.Snapshot, changedPaths map[string]bool) []CallChain {
	var chains []CallChain

	for _, path := range snap.Paths() {
		if !changedPaths[path] {
			continue
		}
		f, _ := snap.Get(path)
		for _, u := range f.Units {
			if u.Kind != facts.KindFunction {
				continue
			}
			chains = append(chains, buildChain(snap, changedPaths, f, u))
		}
	}
	return chains
}

func buildChain(snap *facts.Snapshot, changedPaths map[string]bool, entryFile *facts.FileFact, entry facts.Unit) CallChain {
	chain := CallChain{
		EntryUnit: entry.Name,
		EntryFile: entryFile.Path,
	}
	files := map[string]bool{entryFile.Path: true}

	chain.Nodes = append(chain.Nodes, ChainNode{
		Unit:      entry.Name,
		File:      entryFile.Path,
		Line:      entry.StartLine,
		IsChanged: true,
		Depth:     0,
	})

	// Upward: every unit anywhere whose calls mention the entry name.
	snap.Units(func(f *facts.FileFact, u facts.Unit) {
		if f.Path == entryFile.Path && u.Name == entry.Name {
			return
		}
		for _, callee := range u.Calls {
			if callee != entry.Name {
				continue
			}
			chain.Nodes = append(chain.Nodes, ChainNode{
				Unit:      u.Name,
				File:      f.Path,
				Line:      u.StartLine,
				IsChanged: changedPaths[f.Path],
				Depth:     1,
			})
			files[f.Path] = true
			break
		}
	})

	// Downward: each called name resolved to any declared unit.
	for _, callee := range entry.Calls {
		target, targetFile := findUnit(snap, callee)
		if target == nil {
			continue
		}
		chain.Nodes = append(chain.Nodes, ChainNode{
			Unit:      target.Name,
			File:      targetFile,
			Line:      target.StartLine,
			IsChanged: changedPaths[targetFile],
			Depth:     1,
		})
		files[targetFile] = true
	}

	chain.InvolvedFiles = make([]string, 0, len(files))
	for f := range files {
		chain.InvolvedFiles = append(chain.InvolvedFiles, f)
	}
	sort.Strings(chain.InvolvedFiles)

	chain.RiskLevel = riskFor(chain)
	return chain
}

// riskFor tags a chain high when it holds a changed node and spans more
// than two distinct files, else medium.
func riskFor(chain CallChain) RiskLevel {
	changed := false
	for _, n := range chain.Nodes {
		if n.IsChanged {
			changed = true
			break
		}
	}
	if changed && len(chain.InvolvedFiles) > 2 {
		return RiskHigh
	}
	return RiskMedium
}

// findUnit returns the first declared unit with the given name, scanning
// files in sorted path order for determinism.
func findUnit(snap *facts.Snapshot, name string) (*facts.Unit, string) {
	for _, path := range snap.Paths() {
		f, _ := snap.Get(path)
		for i := range f.Units {
			if f.Units[i].Name == name {
				return &f.Units[i], path
			}
		}
	}
	return nil, ""
}
