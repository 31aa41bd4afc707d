package spectral

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFTImpulse(t *testing.T) {
	t.Parallel()

	signal := make([]float64, 64)
	signal[0] = 1.0

	result := NewFFT().Compute(signal)
	if len(result) != len(signal) {
		t.Fatalf("fft length = %d, want %d", len(result), len(signal))
	}

	// An impulse at t=0 has unit magnitude in every bin
	for i, v := range result {
		if math.Abs(cmplx.Abs(v)-1.0) > 1e-9 {
			t.Fatalf("bin %d magnitude = %f, want 1.0", i, cmplx.Abs(v))
		}
	}
}

func TestFFTSineBin(t *testing.T) {
	t.Parallel()

	const n = 64
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 4 * float64(i) / n)
	}

	result := NewFFT().Compute(signal)

	// A sine at exactly bin 4 concentrates all energy there (and its
	// mirror), magnitude n/2
	if got := cmplx.Abs(result[4]); math.Abs(got-n/2) > 1e-6 {
		t.Errorf("bin 4 magnitude = %f, want %d", got, n/2)
	}
	for i := 0; i < n/2 + 1; i++ {
		if i == 4 {
			continue
		}
		if got := cmplx.Abs(result[i]); got > 1e-6 {
			t.Errorf("bin %d magnitude = %f, want 0", i, got)
		}
	}
}
