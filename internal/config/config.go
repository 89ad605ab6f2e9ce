package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	SourceRoots []string `toml:"source_roots"`
	Extensions  []string `toml:"extensions"`
	Exclude     Exclude  `toml:"exclude"`
	Impact      Impact   `toml:"impact"`
	Watch       Watch    `toml:"watch"`
	Output      Output   `toml:"output"`
	History     History  `toml:"history"`
	Tracing     Tracing  `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Impact struct {
	MaxDepth int `toml:"max_depth"`
}

type Watch struct {
	Debounce       time.Duration `toml:"debounce"`
	RescansPerMin  float64       `toml:"rescans_per_min"`
	ObserveAddress string        `toml:"observe_address"`
}

type Output struct {
	Markdown string `toml:"markdown"`
	JSON     string `toml:"json"`
	Mermaid  string `toml:"mermaid"`
}

type History struct {
	Path string `toml:"path"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"` // OTLP gRPC collector, empty disables export
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.SourceRoots) == 0 {
		c.SourceRoots = []string{"."}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".ts", ".tsx", ".js", ".jsx"}
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{"node_modules", "dist", "build", ".git"}
	}
	if c.Impact.MaxDepth == 0 {
		c.Impact.MaxDepth = 10
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.RescansPerMin == 0 {
		c.Watch.RescansPerMin = 30
	}
}
