package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"clipper/internal/history"
	"clipper/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), history.DatabaseName))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	if err := store.StartRun(ctx, history.Run{ID: "run-1", InstructionFile: "/in/list.txt", StartedAt: started}); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	for i, outcome := range []history.Outcome{history.OutcomeExecuted, history.OutcomeRequeued} {
		rec := history.JobRecord{RunID: "run-1", Line: i + 1, OutputName: "Clip.mkv", Outcome: outcome, Command: "ffmpeg", OutputBytes: 2048}
		if err := store.RecordJob(ctx, rec); err != nil {
			t.Fatalf("RecordJob: %v", err)
		}
	}
	counts := history.Counts{Jobs: 2, Executed: 1, Succeeded: 1, Requeued: 1}
	if err := store.FinishRun(ctx, "run-1", started.Add(time.Minute), counts, "/backup/2026-05-01.txt"); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	run, err := store.GetRun(ctx, "run-1")
	if err != nil || run == nil {
		t.Fatalf("GetRun: %v %v", run, err)
	}
	if !run.Finished() || run.Counts != counts || run.BackupPath != "/backup/2026-05-01.txt" || !run.StartedAt.Equal(started) {
		t.Fatalf("unexpected run: %+v", run)
	}

	jobs, err := store.Jobs(ctx, "run-1")
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Outcome != history.OutcomeExecuted || jobs[1].Outcome != history.OutcomeRequeued || jobs[0].OutputBytes != 2048 {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.StartRun(ctx, history.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour), DryRun: id == "b"}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" || !runs[1].DryRun || runs[0].Finished() {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestGetRunMissing(t *testing.T) {
	store := openStore(t)
	run, err := store.GetRun(context.Background(), "nope")
	if err != nil || run != nil {
		t.Fatalf("expected nil run, got %v %v", run, err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.OpenForConfig(cfg)
	if err != nil {
		t.Fatalf("OpenForConfig: %v", err)
	}
	if err := store.StartRun(context.Background(), history.Run{ID: "x"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := history.OpenForConfig(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != history.Path(cfg) {
		t.Fatalf("path = %q", reopened.Path())
	}
	if run, _ := reopened.GetRun(context.Background(), "x"); run == nil {
		t.Fatal("expected run to persist")
	}
}

func TestStartRunRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.StartRun(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}
