package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ripple/internal/config"
	"ripple/internal/engine"
	"ripple/internal/gitdiff"
	"ripple/internal/observability"
	"ripple/internal/report"
)

var (
	configPath = flag.String("config", "./ripple.toml", "Path to config file")
	changed    = flag.String("changed", "", "Comma-separated changed files (overrides git diff)")
	since      = flag.String("since", "", "Git ref to diff against for the changed set")
	format     = flag.String("format", "markdown", "Stdout format: markdown, json or mermaid")
	outPath    = flag.String("out", "", "Write stdout format to a file instead")
	maxDepth   = flag.Int("max-depth", 0, "Impact propagation depth limit (overrides config)")
	watchMode  = flag.Bool("watch", false, "Re-run analysis on file changes")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	serve      = flag.Bool("serve", false, "Expose /metrics and /health while watching")
	trend      = flag.Bool("trend", false, "Print run history trend and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("ripple v%s\n", VERSION)
		os.Exit(0)
	}
	if *ui {
		*watchMode = true
	}

	setupLogging()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./ripple.toml" {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	ctx := context.Background()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	app, err := NewApp(cfg, *maxDepth)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *trend {
		if err := app.PrintTrend(time.Time{}); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	seeds, err := resolveSeeds(cfg)
	if err != nil {
		slog.Error("failed to resolve changed files", "error", err)
		os.Exit(1)
	}

	rep, snap, err := app.Run(ctx, seeds)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if err := app.GenerateOutputs(rep, snap); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if err := emit(app, rep); err != nil {
		slog.Error("failed to render report", "error", err)
		os.Exit(1)
	}

	if !*watchMode {
		return
	}

	if *serve || cfg.Watch.ObserveAddress != "" {
		addr := cfg.Watch.ObserveAddress
		if addr == "" {
			addr = ":9090"
		}
		srv := observability.NewServer(addr)
		srv.Start()
		defer srv.Stop(ctx)
	}

	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(rep); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		select {}
	}
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid stderr logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
				output = f
			}
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ripple", "ripple.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "ripple", "ripple.log")
	}

	return "ripple.log"
}

func resolveSeeds(cfg *config.Config) ([]string, error) {
	if *changed != "" {
		return gitdiff.ParseOverride(*changed), nil
	}
	return gitdiff.ChangedFiles(".", *since, cfg.Extensions)
}

func emit(app *App, rep *engine.Report) error {
	var content []byte
	switch *format {
	case "json":
		data, err := report.RenderJSON(rep)
		if err != nil {
			return err
		}
		content = data
	case "mermaid":
		diagram, err := app.mermaid(rep)
		if err != nil {
			return err
		}
		content = []byte(diagram)
	case "markdown", "":
		content = []byte(report.RenderMarkdown(rep))
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	if *outPath != "" {
		return report.WriteFile(*outPath, content)
	}
	if *ui {
		return nil
	}
	_, err := os.Stdout.Write(content)
	return err
}
