package engine

// estimateRPM derives one rotational-speed candidate from the accumulated
// spectrum. The DC bin is skipped and only the lower half searched: the
// indicator vectors are real, so the abs-real spectrum mirrors around N/2.
// The peak bin is refined with a 3-point parabolic fit before converting
// bin index to Hz (bin * FFTFrequency / FFTSamples) and Hz to RPM. A silent
// spectrum yields 0.
func estimateRPM(sum []float32) float64 {
	peak := 0
	var peakValue float32
	for bin := 1; bin <= FFTSamples/2; bin++ {
		if sum[bin] > peakValue {
			peakValue = sum[bin]
			peak = bin
		}
	}
	if peak == 0 || peakValue == 0 {
		return 0
	}

	refined := float64(peak)
	if peak > 1 && peak < FFTSamples/2 {
		left := float64(sum[peak-1])
		center := float64(sum[peak])
		right := float64(sum[peak+1])
		denom := left - 2*center + right
		if denom != 0 {
			refined += 0.5 * (left - right) / denom
		}
	}

	hz := refined * FFTFrequency / FFTSamples
	return hz * 60
}
