package decode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-inspect/logging"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// AnalysisSampleRate is the rate FFmpeg-decoded audio is resampled to.
	// Native WAV/FLAC decoding always keeps the container rate.
	AnalysisSampleRate int           `json:"analysis_sample_rate"`
	FFmpegPath         string        `json:"ffmpeg_path"`
	FFprobePath        string        `json:"ffprobe_path"`
	Timeout            time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		AnalysisSampleRate: 44100,
		FFmpegPath:         "ffmpeg",  // Assume in PATH
		FFprobePath:        "ffprobe", // Assume in PATH
		Timeout:            30 * time.Second,
	}
}

// Validate checks the configuration for usable values
func (c *DecoderConfig) Validate() error {
	if c.AnalysisSampleRate <= 0 {
		return fmt.Errorf("analysis sample rate must be positive: %d", c.AnalysisSampleRate)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", c.Timeout)
	}
	return nil
}

// Decoder turns audio files into AudioSignals. WAV and FLAC decode
// natively; every other supported container goes through FFmpeg.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// GetSupportedFormats returns the file extensions this decoder accepts.
// The FFmpeg path accepts more in practice; these are the documented ones.
func (d *Decoder) GetSupportedFormats() []string {
	return []string{"wav", "flac", "mp3", "ogg", "aiff", "m4a", "aac", "opus"}
}

// File decodes an audio file into an AudioSignal. All failures are
// *DecodeError; the context cancels in-flight FFmpeg work.
func (d *Decoder) File(ctx context.Context, path string) (*AudioSignal, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "decoder",
		"function":  "File",
		"path":      path,
	})

	logger.Debug("Starting audio file decode")

	info, err := os.Stat(path)
	if err != nil {
		logger.Error(err, "Failed to stat audio file")
		return nil, newDecodeError(path, "open", err)
	}
	if info.Size() == 0 {
		return nil, newDecodeError(path, "open", ErrEmptyFile)
	}

	if err := ctx.Err(); err != nil {
		return nil, newDecodeError(path, "open", err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	var signal *AudioSignal
	switch ext {
	case "wav":
		signal, err = d.decodeWAV(path)
	case "flac":
		signal, err = d.decodeFLAC(path)
	case "mp3", "ogg", "aiff", "m4a", "aac", "opus":
		signal, err = d.decodeFFmpeg(ctx, path)
	default:
		return nil, newDecodeError(path, "open", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext))
	}
	if err != nil {
		return nil, err
	}

	if len(signal.Samples) == 0 {
		return nil, newDecodeError(path, "decode", ErrNoSamples)
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"format":      signal.Format,
		"sample_rate": signal.SampleRate,
		"native_rate": signal.NativeRate,
		"channels":    signal.Channels,
		"frames":      signal.Frames(),
		"duration":    signal.Duration(),
	})

	return signal, nil
}
