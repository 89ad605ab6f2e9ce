package facts

import (
	"sort"
	"strings"
)

// SideEffectKind is the fixed vocabulary of side-effect tags produced by
// keyword detection in the extractor.
type SideEffectKind string

const (
	SideEffectNetwork       SideEffectKind = "network-request"
	SideEffectDOM           SideEffectKind = "dom-manipulation"
	SideEffectStorage       SideEffectKind = "storage-access"
	SideEffectTimer         SideEffectKind = "timer"
	SideEffectEventListener SideEffectKind = "event-listener"
	SideEffectConsole       SideEffectKind = "console"
	SideEffectStateMutation SideEffectKind = "state-mutation"
	SideEffectExternalAPI   SideEffectKind = "external-api"
)

// HighRiskSideEffects are the tags that escalate test-path priority.
var HighRiskSideEffects = map[SideEffectKind]bool{
	SideEffectNetwork:       true,
	SideEffectStorage:       true,
	SideEffectStateMutation: true,
	SideEffectExternalAPI:   true,
}

type UnitKind string

const (
	KindFunction  UnitKind = "function"
	KindComponent UnitKind = "component"
	KindClass     UnitKind = "class"
	KindType      UnitKind = "type"
)

// Unit is a named code element declared in a file.
type Unit struct {
	Kind            UnitKind
	Name            string
	StartLine       int
	EndLine         int
	Calls           []string // bare callee identifiers, unresolved
	ChildComponents []string // for component-kind units
	HandlerCount    int      // on*-prefixed JSX attributes in the unit body
	Exported        bool
}

// IsHook reports whether the unit follows the use* hook naming convention.
func (u Unit) IsHook() bool {
	if u.Kind != KindFunction {
		return false
	}
	if len(u.Name) < 4 || !strings.HasPrefix(u.Name, "use") {
		return false
	}
	c := u.Name[3]
	return c >= 'A' && c <= 'Z'
}

// Import is one import statement of a file.
type Import struct {
	Target     string // raw specifier, e.g. "./util" or "react"
	IsExternal bool   // bare module specifier, not a relative path
}

// FileFact is the structured description of one source file, supplied by
// the extractor. Read-only to the engine.
type FileFact struct {
	Path        string
	Imports     []Import
	Exports     []string
	Units       []Unit
	SideEffects map[SideEffectKind]bool
}

// HasSideEffect reports whether the file carries the given tag.
func (f *FileFact) HasSideEffect(kind SideEffectKind) bool {
	return f != nil && f.SideEffects[kind]
}

// Snapshot is a frozen set of FileFacts keyed by path. All engine stages
// consume a Snapshot and never mutate it.
type Snapshot struct {
	byPath map[string]*FileFact
	paths  []string
}

// NewSnapshot freezes the given facts. Later facts win on duplicate paths,
// matching re-extraction of an edited file.
func NewSnapshot(fileFacts []*FileFact) *Snapshot {
	s := &Snapshot{byPath: make(map[string]*FileFact, len(fileFacts))}
	for _, f := range fileFacts {
		if f == nil || f.Path == "" {
			continue
		}
		if _, exists := s.byPath[f.Path]; !exists {
			s.paths = append(s.paths, f.Path)
		}
		s.byPath[f.Path] = f
	}
	sort.Strings(s.paths)
	return s
}

// Get returns the fact for a path, if present.
func (s *Snapshot) Get(path string) (*FileFact, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// Has reports whether a path is part of the snapshot.
func (s *Snapshot) Has(path string) bool {
	_, ok := s.byPath[path]
	return ok
}

// Paths returns all fact paths in sorted order. The returned slice is
// shared; callers must not modify it.
func (s *Snapshot) Paths() []string {
	return s.paths
}

// Len returns the number of files in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.paths)
}

// Units iterates every declared unit in sorted path order, calling fn with
// the owning fact. Iteration order is deterministic.
func (s *Snapshot) Units(fn func(f *FileFact, u Unit)) {
	for _, p := range s.paths {
		f := s.byPath[p]
		for _, u := range f.Units {
			fn(f, u)
		}
	}
}
