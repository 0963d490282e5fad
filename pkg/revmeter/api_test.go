package revmeter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"revmeter/internal/engine"
	"revmeter/internal/event"
	"revmeter/internal/model"
	"revmeter/internal/stats"
)

func writeRecording(t *testing.T, events []model.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.raw")
	if err := os.WriteFile(path, event.EncodeBatch(events), 0o644); err != nil {
		t.Fatalf("write recording: %v", err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	ctx := context.Background()
	artifactsDir := t.TempDir()

	client, err := New(Options{StoreKind: "memory", ArtifactsDir: artifactsDir})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	// Two events spanning five sampling periods: five ticks, quiet spectrum.
	path := writeRecording(t, []model.Event{
		{T: 50, X: 0, Y: 0, On: true},
		{T: 500001, X: 0, Y: 0, On: false},
	})

	summary, err := client.Run(ctx, RunRequest{RunID: "e2e", InputPath: path, Layout: "dvs", BatchSize: 1})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RunID != "e2e" {
		t.Fatalf("unexpected run id: %s", summary.RunID)
	}
	if summary.EventCount != 2 {
		t.Fatalf("event count=%d want 2", summary.EventCount)
	}
	if summary.TickCount != 5 {
		t.Fatalf("tick count=%d want 5", summary.TickCount)
	}
	if summary.FinalRPM != 0 {
		t.Fatalf("quiet recording produced rpm %f", summary.FinalRPM)
	}

	estimates, err := client.Estimates(ctx, EstimatesRequest{RunID: "e2e"})
	if err != nil {
		t.Fatalf("estimates: %v", err)
	}
	if len(estimates) != 5 {
		t.Fatalf("stored %d estimates, want 5", len(estimates))
	}
	for i, est := range estimates {
		if est.Tick != i {
			t.Fatalf("estimate %d has tick %d", i, est.Tick)
		}
	}

	spectrum, err := client.Spectrum(ctx, SpectrumRequest{RunID: "e2e"})
	if err != nil {
		t.Fatalf("spectrum: %v", err)
	}
	if len(spectrum) != engine.FFTSamples {
		t.Fatalf("stored %d bins, want %d", len(spectrum), engine.FFTSamples)
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "e2e" {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	entries, err := stats.ListRunIndex(artifactsDir)
	if err != nil {
		t.Fatalf("list index: %v", err)
	}
	if len(entries) != 1 || entries[0].TickCount != 5 {
		t.Fatalf("unexpected index: %+v", entries)
	}
	if _, err := os.Stat(filepath.Join(summary.ArtifactsDir, "spectrum.csv")); err != nil {
		t.Fatalf("spectrum artifact missing: %v", err)
	}
}

func TestRunRequiresInput(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ArtifactsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Run(context.Background(), RunRequest{}); err == nil {
		t.Fatal("expected input path error")
	}
}

func TestEstimatesUnknownRun(t *testing.T) {
	client, err := New(Options{StoreKind: "memory", ArtifactsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Estimates(context.Background(), EstimatesRequest{RunID: "nope"}); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestLayouts(t *testing.T) {
	client, err := New(Options{StoreKind: "memory"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	layouts := client.Layouts()
	if len(layouts) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(layouts))
	}
	for _, l := range layouts {
		if l.RecordSize <= 0 || len(l.Fields) == 0 {
			t.Fatalf("malformed layout item: %+v", l)
		}
	}
}

func TestResetClearsRunHistory(t *testing.T) {
	ctx := context.Background()
	client, err := New(Options{StoreKind: "memory", ArtifactsDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	path := writeRecording(t, []model.Event{
		{T: 50, X: 0, Y: 0, On: true},
		{T: 100001, X: 0, Y: 0, On: false},
	})
	if _, err := client.Run(ctx, RunRequest{RunID: "wipe-me", InputPath: path}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := client.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	runs, err := client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history after reset, got %+v", runs)
	}
	if _, err := client.Estimates(ctx, EstimatesRequest{RunID: "wipe-me"}); err == nil {
		t.Fatal("expected estimates lookup to fail after reset")
	}
	if _, err := client.Spectrum(ctx, SpectrumRequest{RunID: "wipe-me"}); err == nil {
		t.Fatal("expected spectrum lookup to fail after reset")
	}

	// A fresh run after reset is recorded normally.
	if _, err := client.Run(ctx, RunRequest{RunID: "post-reset", InputPath: path}); err != nil {
		t.Fatalf("run after reset: %v", err)
	}
	runs, err = client.Runs(ctx, RunsRequest{})
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "post-reset" {
		t.Fatalf("unexpected history after reset: %+v", runs)
	}
}
