package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
source_roots = ["./src"]
extensions = [".ts", ".tsx"]

[exclude]
dirs = ["node_modules"]
files = ["*.d.ts"]

[impact]
max_depth = 4

[watch]
debounce = "1s"

[output]
markdown = "impact.md"
json = "impact.json"

[history]
path = "ripple.db"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.SourceRoots) != 1 || cfg.SourceRoots[0] != "./src" {
		t.Errorf("Unexpected SourceRoots: %v", cfg.SourceRoots)
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Unexpected Extensions: %v", cfg.Extensions)
	}
	if cfg.Impact.MaxDepth != 4 {
		t.Errorf("Expected max_depth 4, got %d", cfg.Impact.MaxDepth)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Markdown != "impact.md" {
		t.Errorf("Expected markdown impact.md, got %s", cfg.Output.Markdown)
	}
	if cfg.History.Path != "ripple.db" {
		t.Errorf("Expected history path ripple.db, got %s", cfg.History.Path)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, _ := os.CreateTemp("", "config*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte(`source_roots = ["."]`))
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Impact.MaxDepth != 10 {
		t.Errorf("Expected default max_depth 10, got %d", cfg.Impact.MaxDepth)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Extensions) != 4 {
		t.Errorf("Expected the four default extensions, got %v", cfg.Extensions)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	if _, err := Load(tmpfile.Name()); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
