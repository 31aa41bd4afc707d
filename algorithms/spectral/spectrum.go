package spectral

// Fixed analysis constants, deliberately not configurable.
const (
	// DefaultEnvelopeOrder is the length in bins of the centered moving
	// average that smooths the aggregate spectrum into the envelope curve.
	DefaultEnvelopeOrder = 9

	// DefaultNoiseFloor is the fraction of the spectrum peak a bin must
	// exceed to count toward the frequency bounds (-60 dB relative).
	DefaultNoiseFloor = 1e-3
)

// MeanSpectrum collapses a frame set into a single aggregate
// magnitude-vs-frequency curve by averaging frames per bin.
func MeanSpectrum(frames *SpectralFrames) []float64 {
	if frames == nil || frames.TimeFrames == 0 {
		return nil
	}

	spectrum := make([]float64, frames.FreqBins)
	for t := 0; t < frames.TimeFrames; t++ {
		for f := 0; f < frames.FreqBins; f++ {
			spectrum[f] += frames.Magnitude[t][f]
		}
	}

	scale := 1.0 / float64(frames.TimeFrames)
	for f := range spectrum {
		spectrum[f] *= scale
	}

	return spectrum
}

// SmoothSpectrum returns the spectral envelope: a centered moving average
// of the aggregate spectrum. order must be odd; edges average over the
// available neighbors only.
func SmoothSpectrum(spectrum []float64, order int) []float64 {
	if len(spectrum) == 0 {
		return nil
	}
	if order < 1 {
		order = 1
	}
	if order%2 == 0 {
		order++
	}

	half := order / 2
	envelope := make([]float64, len(spectrum))

	for i := range spectrum {
		lo := max(0, i-half)
		hi := min(len(spectrum)-1, i+half)

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += spectrum[j]
		}
		envelope[i] = sum / float64(hi-lo+1)
	}

	return envelope
}

// FrequencyBounds finds the lowest and highest frequency whose magnitude
// exceeds noiseFloor times the spectrum peak. It takes the unsmoothed
// aggregate spectrum: smoothing widens a tone's support and would bias the
// bounds by half the smoothing order. The third return is false when no
// bin clears the floor (silent or degenerate input); callers must report
// the bounds unavailable rather than defaulting to 0.
func FrequencyBounds(spectrum []float64, freqResolution, noiseFloor float64) (float64, float64, bool) {
	if len(spectrum) == 0 || freqResolution <= 0 {
		return 0, 0, false
	}

	peak := 0.0
	for _, mag := range spectrum {
		if mag > peak {
			peak = mag
		}
	}
	if peak <= 0 {
		return 0, 0, false
	}

	threshold := noiseFloor * peak

	minBin, maxBin := -1, -1
	for f, mag := range spectrum {
		if mag > threshold {
			if minBin < 0 {
				minBin = f
			}
			maxBin = f
		}
	}

	if minBin < 0 {
		return 0, 0, false
	}

	return float64(minBin) * freqResolution, float64(maxBin) * freqResolution, true
}
