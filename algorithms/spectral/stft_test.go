package spectral

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-inspect/algorithms/windowing"
)

// sineWave generates a sine at freq Hz. Using a frequency that lands on an
// exact FFT bin keeps leakage out of the magnitude checks.
func sineWave(freq float64, sampleRate, n int, amp float64) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return signal
}

func peakBin(magnitude []float64) int {
	best := 0
	for i, v := range magnitude {
		if v > magnitude[best] {
			best = i
		}
	}
	return best
}

func TestSTFTFrameGeometry(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 8000
		windowSize = 1024
		hopSize    = 256
	)

	signal := sineWave(1000, sampleRate, sampleRate, 0.5) // 1 second
	stft := NewSTFT()

	frames, err := stft.Compute(signal, windowSize, hopSize, sampleRate, windowing.NewHannPeriodic(windowSize))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	wantFrames := (len(signal)-windowSize)/hopSize + 1
	if frames.TimeFrames != wantFrames {
		t.Errorf("time frames = %d, want %d", frames.TimeFrames, wantFrames)
	}
	if frames.FreqBins != windowSize/2+1 {
		t.Errorf("freq bins = %d, want %d", frames.FreqBins, windowSize/2+1)
	}
	if len(frames.Magnitude) != wantFrames {
		t.Errorf("magnitude rows = %d, want %d", len(frames.Magnitude), wantFrames)
	}
	if len(frames.Magnitude[0]) != frames.FreqBins {
		t.Errorf("magnitude columns = %d, want %d", len(frames.Magnitude[0]), frames.FreqBins)
	}

	wantFreqRes := float64(sampleRate) / float64(windowSize)
	if math.Abs(frames.FreqResolution-wantFreqRes) > 1e-12 {
		t.Errorf("freq resolution = %f, want %f", frames.FreqResolution, wantFreqRes)
	}
	wantTimeRes := float64(hopSize) / float64(sampleRate)
	if math.Abs(frames.TimeResolution-wantTimeRes) > 1e-12 {
		t.Errorf("time resolution = %f, want %f", frames.TimeResolution, wantTimeRes)
	}

	if got := frames.FrameTime(10); math.Abs(got-10*wantTimeRes) > 1e-12 {
		t.Errorf("frame time(10) = %f, want %f", got, 10*wantTimeRes)
	}
	if got := frames.BinFrequency(128); math.Abs(got-1000.0) > 1e-9 {
		t.Errorf("bin frequency(128) = %f, want 1000", got)
	}
}

func TestSTFTSinePeakBin(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 8000
		windowSize = 1024
		hopSize    = 256
	)

	// 1000 Hz is exactly bin 128 at this rate and window size
	signal := sineWave(1000, sampleRate, sampleRate, 0.5)
	stft := NewSTFT()

	frames, err := stft.Compute(signal, windowSize, hopSize, sampleRate, windowing.NewHannPeriodic(windowSize))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	for i := 0; i < frames.TimeFrames; i++ {
		if got := peakBin(frames.Magnitude[i]); got != 128 {
			t.Fatalf("frame %d peak bin = %d, want 128", i, got)
		}
	}
}

func TestSTFTDeterministic(t *testing.T) {
	t.Parallel()

	const (
		sampleRate = 8000
		windowSize = 512
		hopSize    = 128
	)

	signal := sineWave(440, sampleRate, 4000, 0.7)
	stft := NewSTFT()
	window := windowing.NewHannPeriodic(windowSize)

	first, err := stft.Compute(signal, windowSize, hopSize, sampleRate, window)
	if err != nil {
		t.Fatalf("first compute failed: %v", err)
	}
	second, err := stft.Compute(signal, windowSize, hopSize, sampleRate, window)
	if err != nil {
		t.Fatalf("second compute failed: %v", err)
	}

	for ti := 0; ti < first.TimeFrames; ti++ {
		for f := 0; f < first.FreqBins; f++ {
			if first.Magnitude[ti][f] != second.Magnitude[ti][f] {
				t.Fatalf("frame %d bin %d differs across runs", ti, f)
			}
		}
	}
}

func TestSTFTInvalidInput(t *testing.T) {
	t.Parallel()

	stft := NewSTFT()

	if _, err := stft.Compute(nil, 1024, 256, 8000, nil); err == nil {
		t.Error("expected error for empty signal")
	}
	if _, err := stft.Compute(make([]float64, 100), 1024, 256, 8000, nil); err == nil {
		t.Error("expected error for signal shorter than the window")
	}
	if _, err := stft.Compute(make([]float64, 4096), 1024, 0, 8000, nil); err == nil {
		t.Error("expected error for zero hop size")
	}
	if _, err := stft.Compute(make([]float64, 4096), 0, 256, 8000, nil); err == nil {
		t.Error("expected error for zero window size")
	}
}
