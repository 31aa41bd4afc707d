package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Loudness constants. The floor keeps log10 finite on silence; the range
// clip bounds how far below the peak a sample may report, mirroring the
// usual amplitude-to-dB convention.
const (
	loudnessAmpFloor = 1e-5 // -100 dB
	loudnessTopDB    = 80.0
)

// Loudness computes energy-based loudness aggregates over a signal
type Loudness struct {
	// Stateless
}

// NewLoudness creates a new loudness calculator
func NewLoudness() *Loudness {
	return &Loudness{}
}

// ComputeAverage converts every sample to dB full scale and returns the
// arithmetic mean. The result is always finite, even for pure silence
// (which reports the floor, -100 dB).
func (l *Loudness) ComputeAverage(signal []float64) (float64, bool) {
	if len(signal) == 0 {
		return 0.0, false
	}

	db := l.AmplitudeToDB(signal)
	return stat.Mean(db, nil), true
}

// AmplitudeToDB converts sample amplitudes to dB, floored and clipped to
// loudnessTopDB below the signal peak.
func (l *Loudness) AmplitudeToDB(signal []float64) []float64 {
	db := make([]float64, len(signal))

	peakDB := -math.MaxFloat64
	for i, v := range signal {
		amp := math.Abs(v)
		if amp < loudnessAmpFloor {
			amp = loudnessAmpFloor
		}
		db[i] = 20.0 * math.Log10(amp)
		if db[i] > peakDB {
			peakDB = db[i]
		}
	}

	floor := peakDB - loudnessTopDB
	for i := range db {
		if db[i] < floor {
			db[i] = floor
		}
	}

	return db
}
