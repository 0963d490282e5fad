package engine

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectralAccumulator owns the per-tick spectrum buffers and the transform
// plan. All buffers are allocated once; the accumulate path is
// allocation-free.
type spectralAccumulator struct {
	fft     *fourier.CmplxFFT
	samples []complex128
	coeffs  []complex128
	sum     []float32
}

func newSpectralAccumulator() *spectralAccumulator {
	return &spectralAccumulator{
		fft:     fourier.NewCmplxFFT(FFTSamples),
		samples: make([]complex128, FFTSamples),
		coeffs:  make([]complex128, FFTSamples),
		sum:     make([]float32, FFTSamples),
	}
}

func (a *spectralAccumulator) reset() {
	for i := range a.sum {
		a.sum[i] = 0
	}
}

// accumulate adds one cell's contribution at tick time t: the forward
// transform of its indicator vector, folded in as the absolute value of the
// real component per bin. The real-only measure is intentional; it is not
// the complex magnitude.
func (a *spectralAccumulator) accumulate(tl *timeline, t uint64) {
	tl.fill(a.samples, t)
	a.fft.Coefficients(a.coeffs, a.samples)
	for i, c := range a.coeffs {
		a.sum[i] += float32(math.Abs(real(c)))
	}
}
