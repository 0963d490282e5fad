package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"revmeter/internal/model"
)

var (
	ErrSpectrumSize    = errors.New("spectrum buffer size mismatch")
	ErrCoordinateRange = errors.New("event coordinate outside sensor bounds")
	ErrTimestampOrder  = errors.New("event timestamps must be non-decreasing")
)

// Engine is the streaming estimator. One instance owns all mutable state
// (grid, timelines, sample clock, spectrum accumulator) and is not
// internally synchronized: callers must serialize access to a single
// instance. Independent instances are fully independent.
//
// All state is allocated at construction; the steady-state processing path
// does not grow memory.
type Engine struct {
	grid *grid

	sampleIndex int
	nextSampleT uint64
	lastT       uint64

	ranking   []cellActivity
	spectral  *spectralAccumulator
	estimates []model.TickEstimate
}

type cellActivity struct {
	activity float64
	index    int
}

func New() *Engine {
	return &Engine{
		grid:        newGrid(),
		nextSampleT: uint64(math.Round(samplePeriod)),
		ranking:     make([]cellActivity, GridCells),
		spectral:    newSpectralAccumulator(),
	}
}

// SampleIndex reports how many ticks have fired over the engine's lifetime.
func (e *Engine) SampleIndex() int {
	return e.sampleIndex
}

// Process consumes an ordered event batch. For each event, any sampling
// boundaries the event's timestamp has strictly crossed fire first, each
// producing one estimate from state as it stood before this event; the
// event then updates the grid. After the batch, spectrum is overwritten
// with the accumulator as of the last tick (which may predate this call if
// no tick fired). The returned estimates cover only ticks fired during this
// call.
//
// Validation happens before any state is touched; a failed call leaves the
// engine reusable.
func (e *Engine) Process(events []model.Event, spectrum []float32) ([]model.TickEstimate, error) {
	if len(spectrum) != FFTSamples {
		return nil, fmt.Errorf("%w: need %d elements (got %d)", ErrSpectrumSize, FFTSamples, len(spectrum))
	}
	previous := e.lastT
	for i, ev := range events {
		if ev.X >= SensorWidth || ev.Y >= SensorHeight {
			return nil, fmt.Errorf("%w: event %d at (%d, %d)", ErrCoordinateRange, i, ev.X, ev.Y)
		}
		if ev.T < previous {
			return nil, fmt.Errorf("%w: event %d at t=%d after t=%d", ErrTimestampOrder, i, ev.T, previous)
		}
		previous = ev.T
	}

	e.estimates = e.estimates[:0]
	for _, ev := range events {
		for ev.T > e.nextSampleT {
			e.tick(ev.T)
		}
		e.grid.apply(ev.T, ev.X/SpatialDownsampling, ev.Y/SpatialDownsampling, ev.On)
	}
	if len(events) > 0 {
		e.lastT = events[len(events)-1].T
	}

	copy(spectrum, e.spectral.sum)
	if len(e.estimates) == 0 {
		return nil, nil
	}
	return append([]model.TickEstimate(nil), e.estimates...), nil
}

// tick ranks every cell's activity projected to now, accumulates the top
// contributors' spectra, and derives this tick's estimate.
func (e *Engine) tick(now uint64) {
	for i := range e.grid.timelines {
		e.ranking[i] = cellActivity{
			activity: e.grid.timelines[i].projectAt(now),
			index:    i,
		}
	}
	sort.Slice(e.ranking, func(a, b int) bool {
		if e.ranking[a].activity != e.ranking[b].activity {
			return e.ranking[a].activity > e.ranking[b].activity
		}
		return e.ranking[a].index < e.ranking[b].index
	})

	e.spectral.reset()
	for _, ranked := range e.ranking[:MostActiveCount] {
		e.spectral.accumulate(&e.grid.timelines[ranked.index], now)
	}

	e.estimates = append(e.estimates, model.TickEstimate{
		Tick:  e.sampleIndex,
		RPM:   estimateRPM(e.spectral.sum),
		TimeT: e.nextSampleT,
	})

	e.sampleIndex++
	e.nextSampleT = uint64(math.Round(float64(e.sampleIndex+1) * samplePeriod))
}
