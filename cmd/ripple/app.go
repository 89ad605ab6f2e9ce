package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ripple/internal/config"
	"ripple/internal/engine"
	"ripple/internal/extract"
	"ripple/internal/facts"
	"ripple/internal/gitdiff"
	"ripple/internal/graph"
	"ripple/internal/history"
	"ripple/internal/observability"
	"ripple/internal/report"
	"ripple/internal/watcher"
)

type App struct {
	Config  *config.Config
	Scanner *extract.Scanner
	Engine  *engine.Engine

	store      *history.Store
	teaProgram *tea.Program
	lastSnap   *facts.Snapshot
}

func NewApp(cfg *config.Config, maxDepth int) (*App, error) {
	scanner, err := extract.NewScanner(cfg)
	if err != nil {
		return nil, err
	}

	if maxDepth <= 0 {
		maxDepth = cfg.Impact.MaxDepth
	}

	a := &App{
		Config:  cfg,
		Scanner: scanner,
		Engine:  engine.New(maxDepth),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Run scans the source roots, analyzes change impact for the given
// seeds, and returns the report with the snapshot it was built from.
func (a *App) Run(ctx context.Context, changedPaths []string) (*engine.Report, *facts.Snapshot, error) {
	start := time.Now()

	snap, err := a.Scanner.Scan()
	if err != nil {
		return nil, nil, fmt.Errorf("scan sources: %w", err)
	}
	slog.Debug("scan complete", "files", snap.Len(), "duration", time.Since(start))

	analysis := a.Engine.Analyze(ctx, snap, changedPaths)
	commitHash, _ := gitdiff.ResolveCommitMetadata(".")
	rep := engine.NewReport(analysis, commitHash)

	if a.store != nil {
		if err := a.store.SaveRun(history.RunFromReport(rep)); err != nil {
			slog.Warn("failed to persist run", "error", err)
		}
	}

	a.lastSnap = snap
	return rep, snap, nil
}

// mermaid renders the dependency diagram for the most recent run.
func (a *App) mermaid(rep *engine.Report) (string, error) {
	if a.lastSnap == nil {
		return "", fmt.Errorf("no analysis has run yet")
	}
	return report.NewMermaidGenerator(graph.Build(a.lastSnap)).Generate(rep)
}

// GenerateOutputs writes every output format the config enables.
func (a *App) GenerateOutputs(rep *engine.Report, snap *facts.Snapshot) error {
	out := a.Config.Output

	if out.JSON != "" {
		data, err := report.RenderJSON(rep)
		if err != nil {
			return err
		}
		if err := report.WriteFile(out.JSON, data); err != nil {
			return err
		}
	}

	if out.Markdown != "" {
		if err := report.WriteFile(out.Markdown, []byte(report.RenderMarkdown(rep))); err != nil {
			return err
		}
	}

	if out.Mermaid != "" {
		diagram, err := report.NewMermaidGenerator(graph.Build(snap)).Generate(rep)
		if err != nil {
			return err
		}
		if err := report.WriteFile(out.Mermaid, []byte(diagram)); err != nil {
			return err
		}
	}

	return nil
}

// PrintTrend loads persisted runs and prints their deltas.
func (a *App) PrintTrend(since time.Time) error {
	if a.store == nil {
		return fmt.Errorf("history is not configured")
	}

	runs, err := a.store.LoadRuns(since)
	if err != nil {
		return err
	}
	trend, err := history.BuildTrendReport(runs)
	if err != nil {
		return err
	}

	fmt.Printf("Runs: %d (%s to %s)\n", trend.RunCount,
		trend.Since.Format("2006-01-02 15:04"), trend.Until.Format("2006-01-02 15:04"))
	for _, p := range trend.Points {
		fmt.Printf("  %s  files=%d (%+d)  cycles=%d (%+d)  affected=%d (%+d)\n",
			p.Timestamp.Format("2006-01-02 15:04"),
			p.FileCount, p.DeltaFiles,
			p.CycleCount, p.DeltaCycles,
			p.AffectedCount, p.DeltaAffected)
	}
	return nil
}

// StartWatcher re-runs the analysis whenever a debounced change batch
// arrives. Changed batches become the new impact seed set.
func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.New(watcher.Options{
		Debounce:      a.Config.Watch.Debounce,
		Extensions:    a.Config.Extensions,
		ExcludeDirs:   a.Config.Exclude.Dirs,
		ExcludeFiles:  a.Config.Exclude.Files,
		RescansPerMin: a.Config.Watch.RescansPerMin,
		EventCount:    observability.WatcherEventsTotal.Inc,
	}, func(paths []string) {
		a.handleChanges(ctx, paths)
	})
	if err != nil {
		return err
	}
	// Runs for the lifetime of the process, never closed.
	return w.Watch(a.Config.SourceRoots)
}

func (a *App) handleChanges(ctx context.Context, paths []string) {
	slog.Info("files changed", "count", len(paths))

	rep, snap, err := a.Run(ctx, paths)
	if err != nil {
		slog.Error("re-analysis failed", "error", err)
		return
	}

	if err := a.GenerateOutputs(rep, snap); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{report: rep})
	} else {
		printSummary(rep)
	}
}

func (a *App) RunUI(rep *engine.Report) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{report: rep})
	}()

	_, err := p.Run()
	return err
}

func printSummary(rep *engine.Report) {
	fmt.Printf("%d files, %d edges, %d cycles, %d affected, %d suggestions\n",
		rep.Summary.Files, rep.Summary.Edges, rep.Summary.Cycles,
		rep.Summary.AffectedFiles, rep.Summary.Suggestions)
	for _, w := range rep.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
