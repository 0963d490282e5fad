package engine

import "math"

// timeline is one cell's flip history: a fixed ring of the most recent flip
// timestamps plus an exponentially decaying flip-rate estimate. Each
// confirmed flip contributes unit weight that decays with time constant
// ActivityTau. The stored activity is always the decayed value as of
// anchorT.
type timeline struct {
	timestamps [TimelineLength]uint64
	cursor     int
	activity   float64
	anchorT    uint64
}

func (tl *timeline) reset() {
	for i := range tl.timestamps {
		tl.timestamps[i] = unsetTimestamp
	}
	tl.cursor = 0
	tl.activity = 0
	tl.anchorT = 0
}

// push records a confirmed flip at time t, overwriting the oldest entry once
// the ring is full. The decay is applied over the elapsed time since the
// previous push, not since any tick.
func (tl *timeline) push(t uint64) {
	tl.timestamps[tl.cursor] = t
	tl.cursor = (tl.cursor + 1) % TimelineLength
	tl.activity = tl.activity*math.Exp(float64(t-tl.anchorT)*activityMu) + 1.0
	tl.anchorT = t
}

// projectAt returns the activity decayed to time t without mutating state.
func (tl *timeline) projectAt(t uint64) float64 {
	return tl.activity * math.Exp(float64(t-tl.anchorT)*activityMu)
}

// fill writes the cell's indicator vector into samples: a unit impulse per
// stored flip within the last second before t, the most recent landing at
// the final slot. Flips older than the window are dropped.
func (tl *timeline) fill(samples []complex128, t uint64) {
	for i := range samples {
		samples[i] = 0
	}
	index := tl.cursor
	for {
		ts := tl.timestamps[index]
		if ts != unsetTimestamp {
			reverse := int(math.Round(float64(t-ts) * (FFTFrequency / 1e6)))
			if reverse < FFTSamples {
				samples[FFTSamples-1-reverse] = 1
			}
		}
		index = (index + 1) % TimelineLength
		if index == tl.cursor {
			break
		}
	}
}
