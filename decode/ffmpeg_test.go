package decode

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseFFprobeOutput(t *testing.T) {
	t.Parallel()

	valid := `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":2,"duration":"12.5"}]}`

	meta, err := parseFFprobeOutput([]byte(valid))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if meta.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", meta.SampleRate)
	}
	if meta.Channels != 2 {
		t.Errorf("channels = %d, want 2", meta.Channels)
	}
	if meta.Codec != "mp3" {
		t.Errorf("codec = %q, want %q", meta.Codec, "mp3")
	}
	if math.Abs(meta.Duration-12.5) > 1e-12 {
		t.Errorf("duration = %f, want 12.5", meta.Duration)
	}

	// A missing duration is tolerated, everything else is not
	noDuration := `{"streams":[{"codec_type":"audio","codec_name":"ogg","sample_rate":"48000","channels":1}]}`
	meta, err = parseFFprobeOutput([]byte(noDuration))
	if err != nil {
		t.Fatalf("parse without duration failed: %v", err)
	}
	if meta.Duration != 0 {
		t.Errorf("duration = %f, want 0 when absent", meta.Duration)
	}

	bad := []struct {
		name string
		json string
	}{
		{"not json", `garbage`},
		{"no streams", `{"streams":[]}`},
		{"video stream", `{"streams":[{"codec_type":"video","codec_name":"h264","sample_rate":"44100","channels":2}]}`},
		{"bad sample rate", `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"fast","channels":2}]}`},
		{"zero sample rate", `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"0","channels":2}]}`},
		{"zero channels", `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":0}]}`},
		{"too many channels", `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"44100","channels":9}]}`},
	}
	for _, tc := range bad {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseFFprobeOutput([]byte(tc.json)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestBytesToFloat64(t *testing.T) {
	t.Parallel()

	want := []float64{0, 0.5, -1.0, 1e-9}
	data := make([]byte, len(want)*8)
	for i, v := range want {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}

	got := bytesToFloat64(data)
	if len(got) != len(want) {
		t.Fatalf("sample count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %g, want %g", i, got[i], want[i])
		}
	}

	// Trailing partial sample is dropped
	got = bytesToFloat64(append(data, 0xFF, 0xFF, 0xFF))
	if len(got) != len(want) {
		t.Errorf("sample count with trailing bytes = %d, want %d", len(got), len(want))
	}

	if got := bytesToFloat64(nil); got != nil {
		t.Errorf("samples from empty input = %v, want nil", got)
	}
	if got := bytesToFloat64([]byte{1, 2, 3}); got != nil {
		t.Errorf("samples from a sub-sample input = %v, want nil", got)
	}
}

// writeStubTool writes an executable shell script standing in for ffmpeg
// or ffprobe.
func writeStubTool(t *testing.T, dir, name, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub decoder tools need a POSIX shell")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub %s: %v", name, err)
	}
	return path
}

func TestDecodeFFmpegResamplesToAnalysisRate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Raw f64le PCM the ffmpeg stub will emit: 1600 samples at the
	// analysis rate
	want := make([]float64, 1600)
	for i := range want {
		want[i] = 0.25 * math.Sin(2*math.Pi*440*float64(i)/8000.0)
	}
	pcm := make([]byte, len(want)*8)
	for i, v := range want {
		binary.LittleEndian.PutUint64(pcm[i*8:], math.Float64bits(v))
	}
	pcmPath := filepath.Join(dir, "pcm.bin")
	if err := os.WriteFile(pcmPath, pcm, 0o644); err != nil {
		t.Fatalf("failed to write PCM fixture: %v", err)
	}

	probeJSON := `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"22050","channels":1,"duration":"0.2"}]}`
	ffprobe := writeStubTool(t, dir, "ffprobe", fmt.Sprintf("echo '%s'", probeJSON))
	ffmpeg := writeStubTool(t, dir, "ffmpeg", fmt.Sprintf("cat %q", pcmPath))

	input := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(input, []byte("compressed bytes"), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	config := DefaultDecoderConfig()
	config.FFmpegPath = ffmpeg
	config.FFprobePath = ffprobe
	config.AnalysisSampleRate = 8000

	signal, err := NewDecoder(config).File(context.Background(), input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// The analysis rate and the container's native rate stay distinct
	if signal.SampleRate != 8000 {
		t.Errorf("sample rate = %d, want the 8000 Hz analysis rate", signal.SampleRate)
	}
	if signal.NativeRate != 22050 {
		t.Errorf("native rate = %d, want the probed 22050 Hz", signal.NativeRate)
	}
	if signal.Channels != 1 {
		t.Errorf("channels = %d, want 1", signal.Channels)
	}
	if signal.Format != "mp3" {
		t.Errorf("format = %q, want %q", signal.Format, "mp3")
	}

	if signal.Frames() != len(want) {
		t.Fatalf("frames = %d, want %d", signal.Frames(), len(want))
	}
	for i := range want {
		if signal.Samples[i] != want[i] {
			t.Fatalf("sample %d = %g, want %g (f64le passthrough must be exact)", i, signal.Samples[i], want[i])
		}
	}
}

func TestDecodeFFmpegProbeFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ffprobe := writeStubTool(t, dir, "ffprobe", "exit 1")
	ffmpeg := writeStubTool(t, dir, "ffmpeg", "exit 1")

	input := filepath.Join(dir, "broken.mp3")
	if err := os.WriteFile(input, []byte("not really audio"), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	config := DefaultDecoderConfig()
	config.FFmpegPath = ffmpeg
	config.FFprobePath = ffprobe

	_, err := NewDecoder(config).File(context.Background(), input)
	if err == nil {
		t.Fatal("expected error when probing fails")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if decodeErr.Op != "probe" {
		t.Errorf("op = %q, want %q", decodeErr.Op, "probe")
	}
}
