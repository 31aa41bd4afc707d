package temporal

import (
	"testing"
)

func TestDetectOnsetsEnergyClickTrack(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000
	signal := clickTrack(sampleRate, 10.0, 120.0) // bursts every 0.5s

	onsets := NewOnsetDetection().DetectOnsetsEnergy(signal, sampleRate, 0.1, 0.05)
	if len(onsets) < 10 {
		t.Fatalf("detected %d onsets, want at least 10 for 19 audible beats", len(onsets))
	}

	// Inter-onset spacing should track the 0.5s beat period within the
	// envelope hop quantization
	beatSamples := sampleRate / 2
	for i := 1; i < len(onsets); i++ {
		interval := onsets[i] - onsets[i-1]
		if interval < beatSamples-800 || interval > beatSamples+800 {
			t.Fatalf("onset interval %d samples, want near %d", interval, beatSamples)
		}
	}
}

func TestDetectOnsetsEnergySilence(t *testing.T) {
	t.Parallel()

	onsets := NewOnsetDetection().DetectOnsetsEnergy(make([]float64, 40000), 8000, 0.1, 0.05)
	if len(onsets) != 0 {
		t.Errorf("detected %d onsets on silence, want 0", len(onsets))
	}
}

func TestDetectOnsetsCombinedClickTrack(t *testing.T) {
	t.Parallel()

	const sampleRate = 8000
	signal := clickTrack(sampleRate, 10.0, 120.0)
	frames := spectralFramesFor(t, signal, sampleRate)

	onsets := NewOnsetDetection().DetectOnsetsCombined(signal, sampleRate, frames)
	if len(onsets) < 10 {
		t.Fatalf("detected %d combined onsets, want at least 10", len(onsets))
	}

	// Deduplication keeps the list strictly increasing with no onsets
	// closer than the 50ms tolerance
	tolerance := int(0.05 * float64(sampleRate))
	for i := 1; i < len(onsets); i++ {
		if onsets[i]-onsets[i-1] <= tolerance {
			t.Fatalf("onsets %d and %d within the dedup tolerance", onsets[i-1], onsets[i])
		}
	}
}

func TestAdaptiveThreshold(t *testing.T) {
	t.Parallel()

	od := NewOnsetDetection()

	if got := od.AdaptiveThreshold(nil); got != 0 {
		t.Errorf("threshold of empty flux = %f, want 0", got)
	}

	// Constant flux has zero variance: threshold equals the mean
	flux := []float64{2, 2, 2, 2}
	if got := od.AdaptiveThreshold(flux); got != 2.0 {
		t.Errorf("threshold of constant flux = %f, want 2", got)
	}

	// A spike pushes the threshold above the background level
	spiky := []float64{0, 0, 0, 0, 0, 0, 0, 10}
	if got := od.AdaptiveThreshold(spiky); got <= 1.25 {
		t.Errorf("threshold = %f, want above the mean for spiky flux", got)
	}
}

func TestDetectOnsetsEmptyInput(t *testing.T) {
	t.Parallel()

	od := NewOnsetDetection()
	if got := od.DetectOnsets(nil, 0.1, 0.05); len(got) != 0 {
		t.Errorf("onsets from nil frames = %v, want empty", got)
	}
	if got := od.DetectOnsetsCombined(nil, 8000, nil); len(got) != 0 {
		t.Errorf("combined onsets from empty signal = %v, want empty", got)
	}
}
