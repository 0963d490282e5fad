package storage

import (
	"context"
	"sort"
	"sync"

	"revmeter/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	estimates   map[string]model.EstimateSeries
	spectra     map[string]model.SpectrumRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.estimates = make(map[string]model.EstimateSeries)
	s.spectra = make(map[string]model.SpectrumRecord)
	return nil
}

// Reset drops all stored runs, estimate series, and spectra.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunRecord)
	s.estimates = make(map[string]model.EstimateSeries)
	s.spectra = make(map[string]model.SpectrumRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAtUTC != out[b].CreatedAtUTC {
			return out[a].CreatedAtUTC > out[b].CreatedAtUTC
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func (s *MemoryStore) SaveEstimates(_ context.Context, series model.EstimateSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.estimates[series.RunID] = series
	return nil
}

func (s *MemoryStore) GetEstimates(_ context.Context, runID string) (model.EstimateSeries, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.estimates[runID]
	return series, ok, nil
}

func (s *MemoryStore) SaveSpectrum(_ context.Context, spectrum model.SpectrumRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spectra[spectrum.RunID] = spectrum
	return nil
}

func (s *MemoryStore) GetSpectrum(_ context.Context, runID string) (model.SpectrumRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spectrum, ok := s.spectra[runID]
	return spectrum, ok, nil
}
