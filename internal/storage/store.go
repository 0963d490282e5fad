package storage

import (
	"context"

	"revmeter/internal/model"
)

// Store defines persistence operations for run history: run metadata, the
// per-tick estimate series, and the final accumulated spectrum.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveEstimates(ctx context.Context, series model.EstimateSeries) error
	GetEstimates(ctx context.Context, runID string) (model.EstimateSeries, bool, error)
	SaveSpectrum(ctx context.Context, spectrum model.SpectrumRecord) error
	GetSpectrum(ctx context.Context, runID string) (model.SpectrumRecord, bool, error)
}
