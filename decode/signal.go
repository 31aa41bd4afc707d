package decode

// AudioSignal holds a decoded waveform. Samples are interleaved
// frame-major (all channels of frame 0, then frame 1, ...) and normalized
// to [-1, 1] by bit depth only; decoding never changes gain.
//
// The signal is immutable once returned by a decoder: analysis stages read
// it concurrently and must not modify it.
type AudioSignal struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"` // rate of Samples
	NativeRate int       `json:"native_rate"` // rate stored in the container
	Channels   int       `json:"channels"`
	Format     string    `json:"format"` // container format ("wav", "flac", codec name for ffmpeg decodes)
}

// Frames returns the number of sample frames (samples per channel).
func (s *AudioSignal) Frames() int {
	if s.Channels <= 0 {
		return 0
	}
	return len(s.Samples) / s.Channels
}

// Duration returns the signal duration in seconds, exact up to
// floating-point precision.
func (s *AudioSignal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames()) / float64(s.SampleRate)
}

// Mono returns a mono mix of the signal as a new slice. Multi-channel
// audio is averaged across channels per frame; mono audio is copied.
func (s *AudioSignal) Mono() []float64 {
	if s.Channels <= 1 {
		mono := make([]float64, len(s.Samples))
		copy(mono, s.Samples)
		return mono
	}

	frames := s.Frames()
	mono := make([]float64, frames)
	scale := 1.0 / float64(s.Channels)

	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < s.Channels; ch++ {
			sum += s.Samples[i*s.Channels+ch]
		}
		mono[i] = sum * scale
	}

	return mono
}
