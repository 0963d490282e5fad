package revmeter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"revmeter/internal/engine"
	"revmeter/internal/event"
	"revmeter/internal/model"
	"revmeter/internal/stats"
	"revmeter/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultDBPath       = "revmeter.db"
	defaultLayout       = "dvs"
	defaultBatchSize    = 65536
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
}

// Client is the high-level entry point: it decodes recordings, drives an
// engine to completion, and persists run history and artifacts.
type Client struct {
	store       storage.Store
	initialized bool

	artifactsDir string
}

type RunRequest struct {
	RunID     string
	InputPath string
	Layout    string
	BatchSize int
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	EventCount   int
	TickCount    int
	FinalRPM     float64
	Estimates    []model.TickEstimate
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Layout       string
	EventCount   int
	TickCount    int
}

type EstimatesRequest struct {
	RunID string
	Limit int
}

type SpectrumRequest struct {
	RunID string
}

type LayoutItem struct {
	Name       string
	RecordSize int
	Fields     []string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

// Reset clears all persisted runs, estimate series, and spectra. Artifacts
// already written to disk are left alone.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.ensureStore(ctx); err != nil {
		return err
	}
	return c.store.Reset(ctx)
}

// Run decodes a recording, processes it through a fresh engine in batches,
// and records the outcome in the store and the artifacts directory.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.InputPath == "" {
		return RunSummary{}, errors.New("input path is required")
	}
	if req.Layout == "" {
		req.Layout = defaultLayout
	}
	if req.BatchSize <= 0 {
		req.BatchSize = defaultBatchSize
	}
	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}

	events, err := event.ReadFile(req.InputPath, req.Layout)
	if err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	runID := req.RunID
	if runID == "" {
		runID = fmt.Sprintf("%s-%d", req.Layout, now.Unix())
	}

	eng := engine.New()
	spectrum := make([]float32, engine.FFTSamples)
	var estimates []model.TickEstimate
	for start := 0; start < len(events); start += req.BatchSize {
		end := start + req.BatchSize
		if end > len(events) {
			end = len(events)
		}
		batch, err := eng.Process(events[start:end], spectrum)
		if err != nil {
			return RunSummary{}, fmt.Errorf("process batch at %d: %w", start, err)
		}
		estimates = append(estimates, batch...)
	}

	run := model.RunRecord{
		VersionedRecord: storage.Stamp(),
		ID:              runID,
		CreatedAtUTC:    now.Format(time.RFC3339Nano),
		InputPath:       req.InputPath,
		Layout:          req.Layout,
		EventCount:      len(events),
		TickCount:       len(estimates),
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveEstimates(ctx, model.EstimateSeries{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		Estimates:       estimates,
	}); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveSpectrum(ctx, model.SpectrumRecord{
		VersionedRecord: storage.Stamp(),
		RunID:           runID,
		Bins:            append([]float32(nil), spectrum...),
	}); err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:      runID,
			InputPath:  req.InputPath,
			Layout:     req.Layout,
			BatchSize:  req.BatchSize,
			EventCount: len(events),
			TickCount:  len(estimates),
		},
		Estimates: estimates,
		Spectrum:  spectrum,
	})
	if err != nil {
		return RunSummary{}, err
	}

	finalRPM := 0.0
	if len(estimates) > 0 {
		finalRPM = estimates[len(estimates)-1].RPM
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:        runID,
		CreatedAtUTC: run.CreatedAtUTC,
		Layout:       req.Layout,
		EventCount:   len(events),
		TickCount:    len(estimates),
		FinalRPM:     finalRPM,
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		EventCount:   len(events),
		TickCount:    len(estimates),
		FinalRPM:     finalRPM,
		Estimates:    estimates,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunItem{
			RunID:        run.ID,
			CreatedAtUTC: run.CreatedAtUTC,
			Layout:       run.Layout,
			EventCount:   run.EventCount,
			TickCount:    run.TickCount,
		})
	}
	return out, nil
}

func (c *Client) Estimates(ctx context.Context, req EstimatesRequest) ([]model.TickEstimate, error) {
	if req.RunID == "" {
		return nil, errors.New("run id is required")
	}
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	series, ok, err := c.store.GetEstimates(ctx, req.RunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("estimates not found for run id: %s", req.RunID)
	}
	estimates := series.Estimates
	if req.Limit > 0 && len(estimates) > req.Limit {
		estimates = estimates[:req.Limit]
	}
	return append([]model.TickEstimate(nil), estimates...), nil
}

func (c *Client) Spectrum(ctx context.Context, req SpectrumRequest) ([]float32, error) {
	if req.RunID == "" {
		return nil, errors.New("run id is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	spectrum, ok, err := c.store.GetSpectrum(ctx, req.RunID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("spectrum not found for run id: %s", req.RunID)
	}
	return append([]float32(nil), spectrum.Bins...), nil
}

// Layouts lists the supported sensor record layouts.
func (c *Client) Layouts() []LayoutItem {
	layouts := event.Registered()
	out := make([]LayoutItem, 0, len(layouts))
	for _, l := range layouts {
		fields := make([]string, 0, len(l.Fields))
		for _, f := range l.Fields {
			fields = append(fields, fmt.Sprintf("%s:%s@%d", f.Name, f.Kind, f.Offset))
		}
		out = append(out, LayoutItem{
			Name:       l.Name,
			RecordSize: l.RecordSize(),
			Fields:     fields,
		})
	}
	return out
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}
