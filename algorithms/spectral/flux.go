package spectral

import "math"

// Flux computes spectral flux (frame-to-frame spectral change) from a
// frame set. Only positive changes count, so energy onsets stand out.
func Flux(frames *SpectralFrames) []float64 {
	if frames == nil || frames.TimeFrames < 2 {
		return nil
	}

	flux := make([]float64, frames.TimeFrames-1)

	for t := 1; t < frames.TimeFrames; t++ {
		sum := 0.0
		for f := 0; f < frames.FreqBins; f++ {
			diff := frames.Magnitude[t][f] - frames.Magnitude[t-1][f]
			if diff > 0 {
				sum += diff * diff
			}
		}
		flux[t-1] = math.Sqrt(sum)
	}

	return flux
}
