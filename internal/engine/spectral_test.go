package engine

import (
	"math"
	"testing"
)

func TestAccumulateSingleImpulseMatchesClosedForm(t *testing.T) {
	acc := newSpectralAccumulator()
	acc.reset()

	var tl timeline
	tl.reset()
	tl.push(500000)

	acc.accumulate(&tl, 500000)

	// An impulse at the final sample n=N-1 transforms to
	// exp(-2*pi*i*k*(N-1)/N), whose real part is cos(2*pi*k/N).
	for k := 0; k < 8; k++ {
		want := math.Abs(math.Cos(2 * math.Pi * float64(k) / FFTSamples))
		if math.Abs(float64(acc.sum[k])-want) > 1e-4 {
			t.Fatalf("bin %d: got %f want %f", k, acc.sum[k], want)
		}
	}
}

func TestAccumulateSumsAbsRealOnly(t *testing.T) {
	acc := newSpectralAccumulator()
	acc.reset()

	var tl timeline
	tl.reset()
	tl.push(500000)

	acc.accumulate(&tl, 500000)
	acc.accumulate(&tl, 500000)

	// Two identical contributions double every bin; the quarter-period bin
	// has zero real part even though its complex magnitude is 1.
	if math.Abs(float64(acc.sum[0])-2) > 1e-4 {
		t.Fatalf("DC bin: got %f want 2", acc.sum[0])
	}
	quarter := FFTSamples / 4
	if math.Abs(float64(acc.sum[quarter])) > 1e-3 {
		t.Fatalf("quarter bin should be ~0 under the real-only measure, got %f", acc.sum[quarter])
	}
}

func TestResetClearsAccumulator(t *testing.T) {
	acc := newSpectralAccumulator()
	var tl timeline
	tl.reset()
	tl.push(1000)
	acc.accumulate(&tl, 1000)

	acc.reset()
	for i, v := range acc.sum {
		if v != 0 {
			t.Fatalf("bin %d not cleared: %f", i, v)
		}
	}
}
