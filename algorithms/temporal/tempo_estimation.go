package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
)

// MinTempoDuration is the shortest signal the estimator will analyze.
// Anything shorter cannot hold enough beat periods for a meaningful
// estimate and is reported unavailable instead of guessed.
const MinTempoDuration = 3.0 // seconds

// TempoEstimation estimates tempo in beats per minute from onset timing
// and from the periodicity of the energy envelope.
type TempoEstimation struct {
	onsetDetector     *OnsetDetection
	envelopeExtractor *Envelope
}

// NewTempoEstimation creates a new tempo estimator
func NewTempoEstimation() *TempoEstimation {
	return &TempoEstimation{
		onsetDetector:     NewOnsetDetection(),
		envelopeExtractor: NewEnvelope(),
	}
}

// EstimateTempo estimates tempo in BPM. The second return is false when
// the signal is too short or carries no detectable rhythmic structure.
func (te *TempoEstimation) EstimateTempo(signal []float64, sampleRate int, frames *spectral.SpectralFrames) (float64, bool) {
	if len(signal) == 0 || sampleRate <= 0 {
		return 0.0, false
	}

	if float64(len(signal))/float64(sampleRate) < MinTempoDuration {
		return 0.0, false
	}

	onsetTempo, onsetOK := te.estimateFromOnsets(signal, sampleRate, frames)
	autocorrTempo, autocorrOK := te.estimateFromAutocorrelation(signal, sampleRate)

	switch {
	case onsetOK && autocorrOK:
		// Prefer agreement; fall back to the onset estimate otherwise
		if math.Abs(onsetTempo-autocorrTempo) <= 10.0 {
			return (onsetTempo + autocorrTempo) / 2.0, true
		}
		return onsetTempo, true
	case onsetOK:
		return onsetTempo, true
	case autocorrOK:
		return autocorrTempo, true
	default:
		return 0.0, false
	}
}

// estimateFromOnsets estimates tempo from inter-onset intervals
func (te *TempoEstimation) estimateFromOnsets(signal []float64, sampleRate int, frames *spectral.SpectralFrames) (float64, bool) {
	onsets := te.onsetDetector.DetectOnsetsCombined(signal, sampleRate, frames)
	if len(onsets) < 2 {
		return 0.0, false
	}

	intervals := make([]float64, len(onsets)-1)
	for i := range intervals {
		intervalSamples := onsets[i+1] - onsets[i]
		intervals[i] = float64(intervalSamples) / float64(sampleRate)
	}

	return te.findTempoFromIntervals(intervals)
}

// findTempoFromIntervals votes inter-onset intervals into tempo bins
func (te *TempoEstimation) findTempoFromIntervals(intervals []float64) (float64, bool) {
	if len(intervals) == 0 {
		return 0.0, false
	}

	tempoRange := []float64{60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180, 200}
	tempoCounts := make([]int, len(tempoRange))

	for _, interval := range intervals {
		if interval > 0.2 && interval < 2.0 { // Valid beat interval range (30-300 BPM)
			tempo := 60.0 / interval

			bestIdx := 0
			bestDiff := math.Abs(tempo - tempoRange[0])
			for i, refTempo := range tempoRange {
				diff := math.Abs(tempo - refTempo)
				if diff < bestDiff {
					bestDiff = diff
					bestIdx = i
				}
			}

			if bestDiff < 10.0 { // Within 10 BPM tolerance
				tempoCounts[bestIdx]++
			}
		}
	}

	maxCount := 0
	bestTempo := 0.0
	for i, count := range tempoCounts {
		if count > maxCount {
			maxCount = count
			bestTempo = tempoRange[i]
		}
	}

	if maxCount == 0 {
		return 0.0, false
	}

	return bestTempo, true
}

// estimateFromAutocorrelation estimates tempo from the periodicity of the
// RMS energy envelope.
func (te *TempoEstimation) estimateFromAutocorrelation(signal []float64, sampleRate int) (float64, bool) {
	frameSize := int(0.1 * float64(sampleRate)) // 100ms frames for beat analysis
	hopSize := frameSize / 4                    // 25% overlap
	if frameSize <= 0 || hopSize <= 0 {
		return 0.0, false
	}

	envelope := te.envelopeExtractor.ComputeRMS(signal, frameSize, hopSize)
	if len(envelope) < 10 {
		return 0.0, false
	}

	maxLag := len(envelope) / 2
	autocorr := te.calculateAutocorrelation(envelope, maxLag)

	return te.findTempoFromAutocorrelation(autocorr, hopSize, sampleRate)
}

// calculateAutocorrelation calculates the normalized autocorrelation function
func (te *TempoEstimation) calculateAutocorrelation(signal []float64, maxLag int) []float64 {
	if maxLag > len(signal) {
		maxLag = len(signal)
	}

	autocorr := make([]float64, maxLag)

	for lag := 0; lag < maxLag; lag++ {
		sum := 0.0
		count := 0

		for i := 0; i < len(signal)-lag; i++ {
			sum += signal[i] * signal[i+lag]
			count++
		}

		if count > 0 {
			autocorr[lag] = sum / float64(count)
		}
	}

	if len(autocorr) > 0 && autocorr[0] > 0 {
		for i := range autocorr {
			autocorr[i] /= autocorr[0]
		}
	}

	return autocorr
}

// findTempoFromAutocorrelation finds the strongest peak in the 60-180 BPM band
func (te *TempoEstimation) findTempoFromAutocorrelation(autocorr []float64, hopSize, sampleRate int) (float64, bool) {
	if len(autocorr) < 10 {
		return 0.0, false
	}

	timePerFrame := float64(hopSize) / float64(sampleRate)

	minPeriodSec := 60.0 / 180.0 // 180 BPM
	maxPeriodSec := 1.0          // 60 BPM

	minLag := max(1, int(minPeriodSec/timePerFrame))
	maxLag := min(len(autocorr)-1, int(maxPeriodSec/timePerFrame))

	maxVal := 0.0
	bestLag := 0

	for lag := minLag; lag <= maxLag; lag++ {
		if lag > 0 && lag < len(autocorr)-1 {
			if autocorr[lag] > autocorr[lag-1] &&
				autocorr[lag] > autocorr[lag+1] &&
				autocorr[lag] > maxVal {
				maxVal = autocorr[lag]
				bestLag = lag
			}
		}
	}

	if bestLag == 0 {
		return 0.0, false
	}

	period := float64(bestLag) * timePerFrame
	return 60.0 / period, true
}
