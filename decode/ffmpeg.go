package decode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-inspect/logging"
)

// probedMetadata holds detected audio properties from FFprobe
type probedMetadata struct {
	SampleRate int
	Channels   int
	Codec      string
	Duration   float64
}

// decodeFFmpeg decodes compressed formats through an FFmpeg subprocess:
// probe the stream with ffprobe, then have ffmpeg write raw float64
// little-endian PCM to stdout at the configured analysis rate.
func (d *Decoder) decodeFFmpeg(ctx context.Context, path string) (*AudioSignal, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "decoder",
		"function":  "decodeFFmpeg",
		"path":      path,
	})

	metadata, err := d.probeFile(ctx, path)
	if err != nil {
		logger.Error(err, "Failed to probe audio file")
		return nil, newDecodeError(path, "probe", err)
	}

	logger.Debug("Audio metadata detected", logging.Fields{
		"input_sample_rate": metadata.SampleRate,
		"input_channels":    metadata.Channels,
		"input_codec":       metadata.Codec,
		"input_duration":    metadata.Duration,
	})

	args := []string{
		"-v", "error",
		"-i", path,
		"-vn",
		"-f", "f64le", // Raw float64 little-endian to stdout
		"-ac", strconv.Itoa(metadata.Channels),
		"-ar", strconv.Itoa(d.config.AnalysisSampleRate),
		"pipe:1",
	}

	decodeCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(decodeCtx, d.config.FFmpegPath, args...)

	logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "FFmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
			return nil, newDecodeError(path, "decode",
				fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, string(exitError.Stderr)))
		}
		return nil, newDecodeError(path, "decode", fmt.Errorf("ffmpeg decode failed: %w", err))
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, newDecodeError(path, "decode", ErrNoSamples)
	}

	return &AudioSignal{
		Samples:    samples,
		SampleRate: d.config.AnalysisSampleRate,
		NativeRate: metadata.SampleRate,
		Channels:   metadata.Channels,
		Format:     metadata.Codec,
	}, nil
}

// probeFile uses ffprobe to get audio information from a file
func (d *Decoder) probeFile(ctx context.Context, path string) (*probedMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0", // First audio stream only
		path,
	}

	probeCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, d.config.FFprobePath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseFFprobeOutput(output)
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*probedMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]

	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %q", stream.SampleRate)
	}

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &probedMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat64 converts raw f64le bytes to []float64
func bytesToFloat64(data []byte) []float64 {
	if len(data)%8 != 0 {
		// Trim to multiple of 8 bytes
		data = data[:len(data)-(len(data)%8)]
	}

	if len(data) == 0 {
		return nil
	}

	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)

	for i := 0; i < sampleCount; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}
