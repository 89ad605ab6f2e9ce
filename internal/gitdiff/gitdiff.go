// Package gitdiff supplies the changed-file seed set for impact
// analysis, either from an explicit list or from git.
package gitdiff

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ChangedFiles returns the files changed since the given ref (or the
// working tree diff when ref is empty), filtered to the supported
// extensions and normalized to slash-separated root-relative paths.
func ChangedFiles(projectRoot, ref string, extensions []string) ([]string, error) {
	args := []string{"diff", "--name-only"}
	if ref != "" {
		args = append(args, ref)
	}

	out, err := runGit(projectRoot, args...)
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}

	return ParseNameOnly(out, extensions), nil
}

// ParseNameOnly filters `git diff --name-only` output down to paths
// with a supported extension, deduplicated and sorted.
func ParseNameOnly(out string, extensions []string) []string {
	supported := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		supported[ext] = true
	}

	seen := make(map[string]bool)
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !supported[filepath.Ext(line)] {
			continue
		}
		p := filepath.ToSlash(line)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// ParseOverride splits a comma-separated path list supplied on the
// command line, normalized the same way as git output.
func ParseOverride(value string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p := filepath.ToSlash(filepath.Clean(part))
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// ResolveCommitMetadata returns the short hash and commit time of HEAD,
// or zero values outside a git repository.
func ResolveCommitMetadata(projectRoot string) (string, time.Time) {
	hash, err := runGit(projectRoot, "rev-parse", "--short=12", "HEAD")
	if err != nil || hash == "" {
		return "", time.Time{}
	}

	raw, err := runGit(projectRoot, "show", "-s", "--format=%cI", "HEAD")
	if err != nil {
		return hash, time.Time{}
	}
	commitTime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return hash, time.Time{}
	}
	return hash, commitTime.UTC()
}

func runGit(projectRoot string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", projectRoot}, args...)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}
