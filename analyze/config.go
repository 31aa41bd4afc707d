package analyze

import (
	"fmt"

	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
	"github.com/RyanBlaney/sonido-inspect/decode"
)

// Config holds analysis configuration. The defaults are the documented,
// reproducible settings; two runs over the same file with equal configs
// produce identical reports.
type Config struct {
	// Spectral analysis
	WindowSize int `json:"window_size"`
	HopSize    int `json:"hop_size"`

	// Chroma tuning reference (A4, Hz)
	TuningFreq float64 `json:"tuning_freq"`

	// Fraction of the spectrum peak a bin must exceed to count toward
	// the frequency bounds
	NoiseFloor float64 `json:"noise_floor"`

	// Moving-average order (bins) for the spectral envelope
	EnvelopeOrder int `json:"envelope_order"`

	// Decoder settings
	Decoder *decode.DecoderConfig `json:"decoder"`
}

// DefaultConfig returns default analysis configuration
func DefaultConfig() *Config {
	return &Config{
		WindowSize:    2048,
		HopSize:       512,
		TuningFreq:    440.0,
		NoiseFloor:    spectral.DefaultNoiseFloor,
		EnvelopeOrder: spectral.DefaultEnvelopeOrder,
		Decoder:       decode.DefaultDecoderConfig(),
	}
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive: %d", c.WindowSize)
	}
	if c.HopSize <= 0 || c.HopSize > c.WindowSize {
		return fmt.Errorf("hop size must be in (0, window size]: %d", c.HopSize)
	}
	if c.TuningFreq <= 0 {
		return fmt.Errorf("tuning frequency must be positive: %f", c.TuningFreq)
	}
	if c.NoiseFloor <= 0 || c.NoiseFloor >= 1 {
		return fmt.Errorf("noise floor must be in (0, 1): %f", c.NoiseFloor)
	}
	if c.EnvelopeOrder < 1 {
		return fmt.Errorf("envelope order must be positive: %d", c.EnvelopeOrder)
	}
	if c.Decoder != nil {
		if err := c.Decoder.Validate(); err != nil {
			return fmt.Errorf("decoder config: %w", err)
		}
	}
	return nil
}
