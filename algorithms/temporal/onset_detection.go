package temporal

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
)

// OnsetDetection detects note/event onsets in audio signals. It works on
// spectral frames computed upstream so the pipeline never repeats a
// transform.
type OnsetDetection struct {
	envelopeExtractor *Envelope
}

// NewOnsetDetection creates a new onset detector
func NewOnsetDetection() *OnsetDetection {
	return &OnsetDetection{
		envelopeExtractor: NewEnvelope(),
	}
}

// DetectOnsets detects onsets from the spectral flux of an existing frame
// set. Returned positions are sample indices into the analyzed signal.
func (od *OnsetDetection) DetectOnsets(frames *spectral.SpectralFrames, threshold, minInterval float64) []int {
	flux := spectral.Flux(frames)
	if len(flux) == 0 {
		return []int{}
	}

	onsetFrames := od.findFluxPeaks(flux, threshold, minInterval, frames.HopSize, frames.SampleRate)

	onsetSamples := make([]int, len(onsetFrames))
	for i, frameIdx := range onsetFrames {
		onsetSamples[i] = frameIdx * frames.HopSize
	}

	return onsetSamples
}

// DetectOnsetsEnergy detects onsets using energy-based method
func (od *OnsetDetection) DetectOnsetsEnergy(signal []float64, sampleRate int, threshold, minInterval float64) []int {
	if len(signal) == 0 {
		return []int{}
	}

	frameSize := 512
	hopSize := 256
	envelope := od.envelopeExtractor.ComputeRMS(signal, frameSize, hopSize)

	if len(envelope) == 0 {
		return []int{}
	}

	// Only positive energy changes indicate onsets
	energyDiff := make([]float64, len(envelope)-1)
	for i := range energyDiff {
		diff := envelope[i+1] - envelope[i]
		if diff > 0 {
			energyDiff[i] = diff
		}
	}

	onsetFrames := od.findFluxPeaks(energyDiff, threshold, minInterval, hopSize, sampleRate)

	onsetSamples := make([]int, len(onsetFrames))
	for i, frameIdx := range onsetFrames {
		onsetSamples[i] = frameIdx * hopSize
	}

	return onsetSamples
}

// DetectOnsetsCombined runs both detectors with adaptive thresholds and
// merges the results, deduplicating within the minimum interval.
func (od *OnsetDetection) DetectOnsetsCombined(signal []float64, sampleRate int, frames *spectral.SpectralFrames) []int {
	if len(signal) == 0 {
		return []int{}
	}

	minInterval := 0.05 // 50ms minimum interval

	flux := spectral.Flux(frames)
	fluxOnsets := od.DetectOnsets(frames, od.AdaptiveThreshold(flux), minInterval)
	energyOnsets := od.DetectOnsetsEnergy(signal, sampleRate, 0.1, minInterval)

	return od.combineOnsets(fluxOnsets, energyOnsets, int(minInterval*float64(sampleRate)))
}

// findFluxPeaks finds peaks in flux/energy difference signals
func (od *OnsetDetection) findFluxPeaks(flux []float64, threshold, minInterval float64, hopSize, sampleRate int) []int {
	if len(flux) < 3 {
		return []int{}
	}

	minIntervalFrames := int(minInterval * float64(sampleRate) / float64(hopSize))

	var peaks []int
	lastPeakFrame := -minIntervalFrames // Allow first peak

	for i := 1; i < len(flux)-1; i++ {
		if flux[i] > flux[i-1] &&
			flux[i] > flux[i+1] &&
			flux[i] >= threshold &&
			i-lastPeakFrame >= minIntervalFrames {
			peaks = append(peaks, i)
			lastPeakFrame = i
		}
	}

	return peaks
}

// combineOnsets combines onset lists and removes duplicates within tolerance
func (od *OnsetDetection) combineOnsets(onsets1, onsets2 []int, tolerance int) []int {
	allOnsets := append(append([]int{}, onsets1...), onsets2...)
	if len(allOnsets) == 0 {
		return []int{}
	}

	sort.Ints(allOnsets)

	var uniqueOnsets []int
	for _, onset := range allOnsets {
		isDuplicate := false
		for _, existing := range uniqueOnsets {
			if abs(onset-existing) <= tolerance {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			uniqueOnsets = append(uniqueOnsets, onset)
		}
	}

	return uniqueOnsets
}

// AdaptiveThreshold calculates a peak-picking threshold from flux statistics
func (od *OnsetDetection) AdaptiveThreshold(flux []float64) float64 {
	if len(flux) == 0 {
		return 0.0
	}

	mean := 0.0
	for _, val := range flux {
		mean += val
	}
	mean /= float64(len(flux))

	variance := 0.0
	for _, val := range flux {
		diff := val - mean
		variance += diff * diff
	}
	variance /= float64(len(flux))

	// mean + 2 sigma keeps spurious micro-peaks out
	return mean + 2.0*math.Sqrt(variance)
}

// abs returns absolute value of integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
