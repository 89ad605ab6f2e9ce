// Package report renders an analysis report as JSON, Markdown, or a
// Mermaid impact diagram.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ripple/internal/engine"
)

func RenderJSON(r *engine.Report) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteFile writes rendered output, creating parent directories as
// needed.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write output %q: %w", path, err)
	}
	return nil
}
