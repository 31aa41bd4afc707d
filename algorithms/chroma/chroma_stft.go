package chroma

import (
	"math"

	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
)

// NumBins is the number of pitch classes in a chroma vector.
const NumBins = 12

// ChromaSTFT folds STFT magnitudes onto the 12 pitch classes
// (C, C#, D, D#, E, F, F#, G, G#, A, A#, B), octave-folded, with
// logarithmic frequency mapping and adjustable tuning (default A4=440Hz).
// It operates on frames computed upstream; it never runs its own STFT.
type ChromaSTFT struct {
	tuningFreq float64 // A4 frequency
	minFreq    float64 // Minimum frequency to consider
	maxFreq    float64 // Maximum frequency to consider
}

// NewChromaSTFT creates a chromagram calculator with a custom tuning
func NewChromaSTFT(tuningFreq float64) *ChromaSTFT {
	return &ChromaSTFT{
		tuningFreq: tuningFreq,
		minFreq:    80.0,   // Approximate E2
		maxFreq:    8000.0, // High enough for harmonics
	}
}

// NewChromaSTFTDefault creates a chromagram calculator with A4=440Hz tuning
func NewChromaSTFTDefault() *ChromaSTFT {
	return NewChromaSTFT(440.0)
}

// ComputeMean computes the chromagram of a frame set and averages it over
// time into a single 12-bin energy vector. Each frame is normalized to
// unit sum before averaging so the result is comparable across files
// analyzed with the same window settings. The second return is false when
// every frame is silent.
func (cs *ChromaSTFT) ComputeMean(frames *spectral.SpectralFrames) ([]float64, bool) {
	chromagram := cs.Compute(frames)
	if len(chromagram) == 0 {
		return nil, false
	}

	mean := make([]float64, NumBins)
	voiced := 0
	for _, frame := range chromagram {
		total := 0.0
		for bin := range frame {
			mean[bin] += frame[bin]
			total += frame[bin]
		}
		if total > 0 {
			voiced++
		}
	}

	if voiced == 0 {
		return nil, false
	}

	for bin := range mean {
		mean[bin] /= float64(len(chromagram))
	}

	return mean, true
}

// Compute converts an STFT magnitude frame set to a chromagram
// (one 12-bin vector per time frame).
func (cs *ChromaSTFT) Compute(frames *spectral.SpectralFrames) [][]float64 {
	if frames == nil || frames.TimeFrames == 0 {
		return nil
	}

	// Pre-calculate frequency to chroma bin mapping
	mapping := cs.calculateChromaMapping(frames.FreqBins, frames.FreqResolution)

	chromagram := make([][]float64, frames.TimeFrames)
	for t := 0; t < frames.TimeFrames; t++ {
		chromagram[t] = make([]float64, NumBins)

		for f := 0; f < frames.FreqBins; f++ {
			chromaBin := mapping[f]
			if chromaBin < 0 {
				continue
			}

			// Magnitude squared for energy
			magnitude := frames.Magnitude[t][f]
			chromagram[t][chromaBin] += magnitude * magnitude
		}

		normalizeChromaFrame(chromagram[t])
	}

	return chromagram
}

// calculateChromaMapping maps FFT bins to chroma bins
func (cs *ChromaSTFT) calculateChromaMapping(freqBins int, freqResolution float64) []int {
	mapping := make([]int, freqBins)

	for f := 0; f < freqBins; f++ {
		frequency := float64(f) * freqResolution

		if frequency < cs.minFreq || frequency > cs.maxFreq {
			mapping[f] = -1 // Outside valid range
			continue
		}

		midiNote := cs.frequencyToMIDI(frequency)
		mapping[f] = ((int(math.Round(midiNote)) % NumBins) + NumBins) % NumBins
	}

	return mapping
}

// frequencyToMIDI converts frequency to MIDI note number.
// A4 (tuningFreq) = MIDI note 69; MIDI note 60 is middle C, so note%12==0
// lands on pitch class C.
func (cs *ChromaSTFT) frequencyToMIDI(frequency float64) float64 {
	if frequency <= 0 {
		return 0
	}

	return 69.0 + 12.0*math.Log2(frequency/cs.tuningFreq)
}

// normalizeChromaFrame normalizes a single chroma frame to unit sum
func normalizeChromaFrame(chromaFrame []float64) {
	totalEnergy := 0.0
	for _, energy := range chromaFrame {
		totalEnergy += energy
	}

	if totalEnergy > 1e-10 {
		for i := range chromaFrame {
			chromaFrame[i] /= totalEnergy
		}
	}
}

// Labels returns the chroma bin labels
func Labels() []string {
	return []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
}
