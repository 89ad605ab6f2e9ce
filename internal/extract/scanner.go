package extract

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"

	"ripple/internal/config"
	"ripple/internal/facts"
	"ripple/internal/observability"
)

// Scanner walks the configured source roots and extracts a fact
// snapshot. Files that fail to parse are logged and skipped.
type Scanner struct {
	parser     *Parser
	roots      []string
	extensions map[string]bool
	dirGlobs   []glob.Glob
	fileGlobs  []glob.Glob
}

func NewScanner(cfg *config.Config) (*Scanner, error) {
	s := &Scanner{
		parser:     NewParser(),
		roots:      cfg.SourceRoots,
		extensions: make(map[string]bool, len(cfg.Extensions)),
	}
	for _, ext := range cfg.Extensions {
		s.extensions[ext] = true
	}

	for _, p := range cfg.Exclude.Dirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, p := range cfg.Exclude.Files {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}

	return s, nil
}

// Scan extracts facts for every supported file under the source roots
// and freezes them into a snapshot.
func (s *Scanner) Scan() (*facts.Snapshot, error) {
	paths, err := s.collectPaths()
	if err != nil {
		return nil, err
	}

	fileFacts := make([]*facts.FileFact, 0, len(paths))
	for _, p := range paths {
		fact, err := s.processFile(p)
		if err != nil {
			slog.Warn("failed to extract facts", "path", p, "error", err)
			continue
		}
		fileFacts = append(fileFacts, fact)
	}

	return facts.NewSnapshot(fileFacts), nil
}

// ExtractFile re-extracts a single file, for incremental updates in
// watch mode.
func (s *Scanner) ExtractFile(path string) (*facts.FileFact, error) {
	return s.processFile(filepath.ToSlash(filepath.Clean(path)))
}

func (s *Scanner) collectPaths() ([]string, error) {
	var paths []string

	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !s.extensions[filepath.Ext(path)] || !s.parser.IsSupportedPath(path) {
				return nil
			}

			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			paths = append(paths, filepath.ToSlash(filepath.Clean(path)))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return paths, nil
}

func (s *Scanner) processFile(path string) (*facts.FileFact, error) {
	content, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	fact, err := s.parser.ParseFile(path, content)
	if err != nil {
		return nil, err
	}
	observability.ExtractionDuration.
		WithLabelValues(s.parser.detectLanguage(path)).
		Observe(time.Since(start).Seconds())

	return fact, nil
}
