package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ripple.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadRuns(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{RunID: "run-1", Timestamp: base, CommitHash: "aaa", FileCount: 10, EdgeCount: 14, CycleCount: 1, AffectedCount: 3},
		{RunID: "run-2", Timestamp: base.Add(time.Hour), CommitHash: "bbb", FileCount: 12, EdgeCount: 17, CycleCount: 0, AffectedCount: 5},
	}
	for _, run := range runs {
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	loaded, err := store.LoadRuns(time.Time{})
	if err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(loaded))
	}
	if loaded[0].RunID != "run-1" || loaded[1].RunID != "run-2" {
		t.Errorf("Runs out of order: %v %v", loaded[0].RunID, loaded[1].RunID)
	}
	if loaded[1].FileCount != 12 || loaded[1].EdgeCount != 17 {
		t.Errorf("Unexpected counts: %+v", loaded[1])
	}

	since, err := store.LoadRuns(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("LoadRuns since failed: %v", err)
	}
	if len(since) != 1 || since[0].RunID != "run-2" {
		t.Errorf("Expected only run-2 since cutoff, got %v", since)
	}
}

func TestSaveRunUpsert(t *testing.T) {
	store := openTestStore(t)

	run := Run{RunID: "run-1", Timestamp: time.Now().UTC(), FileCount: 10}
	if err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	run.FileCount = 11
	if err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadRuns(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 run after upsert, got %d", len(loaded))
	}
	if loaded[0].FileCount != 11 {
		t.Errorf("Expected updated file count 11, got %d", loaded[0].FileCount)
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveRun(Run{}); err == nil {
		t.Error("Expected error for empty run id")
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{RunID: "run-1", Timestamp: base, FileCount: 10, CycleCount: 2, AffectedCount: 4},
		{RunID: "run-2", Timestamp: base.Add(time.Hour), FileCount: 13, CycleCount: 1, AffectedCount: 9},
	}

	report, err := BuildTrendReport(runs)
	if err != nil {
		t.Fatal(err)
	}
	if report.RunCount != 2 {
		t.Errorf("Expected 2 points, got %d", report.RunCount)
	}
	second := report.Points[1]
	if second.DeltaFiles != 3 || second.DeltaCycles != -1 || second.DeltaAffected != 5 {
		t.Errorf("Unexpected deltas: %+v", second)
	}

	if _, err := BuildTrendReport(nil); err == nil {
		t.Error("Expected error for empty run list")
	}
}
