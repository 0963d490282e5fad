package engine

import "math"

// Deployment-fixed sensor and pipeline parameters. These mirror the camera
// geometry and the sampling design; they are compile-time constants, not
// runtime configuration.
const (
	SensorWidth  = 1280
	SensorHeight = 720

	// SpatialDownsampling collapses raw pixels into grid cells by integer
	// division of both coordinates.
	SpatialDownsampling = 4

	// SignCheckRadius is the half-width of the consensus neighborhood; cells
	// within this distance of the grid edge are inert.
	SignCheckRadius = 1

	// ActivityTau is the decay time constant of the per-cell flip-rate
	// estimator, in microseconds.
	ActivityTau = 20000

	// TimelineLength bounds the flip history kept per cell.
	TimelineLength = 256

	// SamplingFrequency is the tick rate of the virtual sample clock, in Hz.
	SamplingFrequency = 10.0

	// MostActiveCount is how many cells contribute to each tick's spectrum.
	MostActiveCount = 40

	// FFTSamples is both the indicator-vector length and the spectrum bin
	// count; FFTFrequency is the indicator's virtual sample rate in Hz, so
	// the vector spans the most recent second before a tick.
	FFTSamples   = 1000
	FFTFrequency = 1000.0
)

const (
	GridWidth  = SensorWidth / SpatialDownsampling
	GridHeight = SensorHeight / SpatialDownsampling
	GridCells  = GridWidth * GridHeight

	activityMu   = -1.0 / float64(ActivityTau)
	samplePeriod = 1e6 / SamplingFrequency

	// unsetTimestamp marks an empty timeline slot.
	unsetTimestamp = math.MaxUint64
)
