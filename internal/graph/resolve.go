package graph

import (
	gopath "path"
	"strings"

	"ripple/internal/facts"
)

// probeExtensions is the fixed probing order for extensionless relative
// import specifiers.
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// ResolveImport resolves a relative import specifier from the importing
// file to a concrete node path in the snapshot. External (bare) specifiers
// and unresolvable paths return ok=false.
func ResolveImport(fromPath, specifier string, snap *facts.Snapshot) (string, bool) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") && specifier != "." && specifier != ".." {
		return "", false
	}

	base := gopath.Clean(gopath.Join(gopath.Dir(fromPath), specifier))

	// Specifier already carries a known extension.
	for _, ext := range probeExtensions {
		if strings.HasSuffix(base, ext) {
			if snap.Has(base) {
				return base, true
			}
			return "", false
		}
	}

	for _, ext := range probeExtensions {
		if candidate := base + ext; snap.Has(candidate) {
			return candidate, true
		}
	}
	for _, ext := range probeExtensions {
		if candidate := base + "/index" + ext; snap.Has(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// Classify infers a node classification from its path segments. The first
// matching rule wins; directory segments outrank filename conventions.
func Classify(path string) Classification {
	lower := strings.ToLower(path)
	segments := strings.Split(lower, "/")
	base := segments[len(segments)-1]
	name := strings.TrimSuffix(base, gopath.Ext(base))

	for _, seg := range segments[:len(segments)-1] {
		switch seg {
		case "pages", "views", "routes", "screens":
			return ClassPage
		case "components":
			return ClassComponent
		case "hooks":
			return ClassHook
		case "store", "stores", "state":
			return ClassStore
		case "api", "services":
			return ClassAPI
		case "utils", "util", "lib", "helpers":
			return ClassUtil
		case "types", "typings", "interfaces":
			return ClassType
		case "config", "configs":
			return ClassConfig
		}
	}

	switch {
	case strings.HasPrefix(name, "use") && len(name) > 3:
		return ClassHook
	case strings.Contains(name, "config"):
		return ClassConfig
	case strings.HasSuffix(name, ".types") || name == "types":
		return ClassType
	}
	return ClassOther
}

// ModuleName returns the first path segment under a source root, used to
// group files into coarse modules for reporting.
func ModuleName(path string) string {
	trimmed := path
	for _, root := range []string{"src/", "app/", "packages/"} {
		if strings.HasPrefix(trimmed, root) {
			trimmed = strings.TrimPrefix(trimmed, root)
			break
		}
	}
	if idx := strings.Index(trimmed, "/"); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// isEntryPoint flags filenames conventionally used as application roots.
func isEntryPoint(path string) bool {
	base := gopath.Base(path)
	name := strings.TrimSuffix(base, gopath.Ext(base))
	switch strings.ToLower(name) {
	case "main", "index", "app", "_app":
		return true
	}
	return false
}
