package temporal

import (
	"math"
	"testing"
)

func TestLoudnessSilenceFloor(t *testing.T) {
	t.Parallel()

	db, ok := NewLoudness().ComputeAverage(make([]float64, 4000))
	if !ok {
		t.Fatal("loudness of silence should still be computable")
	}
	if math.Abs(db-(-100.0)) > 1e-9 {
		t.Errorf("silence loudness = %f dB, want -100 (the amplitude floor)", db)
	}
}

func TestLoudnessFullScale(t *testing.T) {
	t.Parallel()

	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = 1.0
	}

	db, ok := NewLoudness().ComputeAverage(signal)
	if !ok {
		t.Fatal("loudness should be computable")
	}
	if math.Abs(db) > 1e-9 {
		t.Errorf("full-scale loudness = %f dB, want 0", db)
	}
}

func TestLoudnessEmptySignal(t *testing.T) {
	t.Parallel()

	if _, ok := NewLoudness().ComputeAverage(nil); ok {
		t.Error("loudness of an empty signal should be unavailable")
	}
}

func TestLoudnessSineLevel(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000
	signal := make([]float64, sampleRate)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}

	db, ok := NewLoudness().ComputeAverage(signal)
	if !ok {
		t.Fatal("loudness should be computable")
	}
	// Mean dB of a half-scale sine sits well below its -6 dB peak but far
	// above the floor
	if db > -6.0 || db < -40.0 {
		t.Errorf("sine loudness = %f dB, want between -40 and -6", db)
	}
	if math.IsNaN(db) || math.IsInf(db, 0) {
		t.Errorf("loudness must be finite, got %f", db)
	}
}

func TestAmplitudeToDBClipsToRange(t *testing.T) {
	t.Parallel()

	db := NewLoudness().AmplitudeToDB([]float64{1.0, 1e-9})

	if math.Abs(db[0]) > 1e-9 {
		t.Errorf("peak dB = %f, want 0", db[0])
	}
	// The tiny sample first hits the amplitude floor (-100 dB), then the
	// 80 dB range clip below the 0 dB peak
	if math.Abs(db[1]-(-80.0)) > 1e-9 {
		t.Errorf("clipped dB = %f, want -80", db[1])
	}
}
