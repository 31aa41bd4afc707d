package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-inspect/algorithms/chroma"
	"github.com/RyanBlaney/sonido-inspect/algorithms/common"
	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
	"github.com/RyanBlaney/sonido-inspect/algorithms/temporal"
	"github.com/RyanBlaney/sonido-inspect/algorithms/windowing"
	"github.com/RyanBlaney/sonido-inspect/decode"
	"github.com/RyanBlaney/sonido-inspect/logging"
	"github.com/RyanBlaney/sonido-inspect/meta"
)

// Per-field unavailability reasons. A field carrying one of these is
// explicitly marked unavailable; it is never silently omitted or
// defaulted to 0.
const (
	reasonTooShort    = "signal shorter than analysis window"
	reasonNoiseFloor  = "no spectral content above noise floor"
	reasonNoRhythm    = "signal too short or no rhythmic structure detected"
	reasonSilent      = "all analysis frames silent"
	reasonEmptySignal = "empty signal"
	reasonBelowFloor  = "signal below silence threshold"
)

// silenceAmplitude is the peak amplitude (about -80 dBFS) under which a
// signal counts as silent: frequency bounds, tempo and chroma are then
// reported unavailable instead of being estimated from noise.
const silenceAmplitude = 1e-4

// Analyzer runs the analysis pipeline. It holds no per-run state and is
// safe to reuse across files and goroutines.
type Analyzer struct {
	config  *Config
	decoder *decode.Decoder
	stft    *spectral.STFT
	logger  logging.Logger
}

// NewAnalyzer creates an analyzer with the given configuration.
// A nil config selects the documented defaults.
func NewAnalyzer(config *Config) (*Analyzer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis config: %w", err)
	}

	return &Analyzer{
		config:  config,
		decoder: decode.NewDecoder(config.Decoder),
		stft:    spectral.NewSTFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "analyzer",
		}),
	}, nil
}

// Analyze is a convenience entry point that builds a one-shot analyzer.
func Analyze(ctx context.Context, path string, config *Config) (*Report, error) {
	analyzer, err := NewAnalyzer(config)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(ctx, path)
}

// Analyze inspects a single audio file and produces its full report.
// Only decode failures are fatal; individual feature failures mark the
// field unavailable and the run still completes. Cancellation is checked
// between pipeline stages, never mid-feature.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*Report, error) {
	logger := a.logger.WithFields(logging.Fields{
		"function": "Analyze",
		"path":     path,
	})

	logger.Debug("Starting analysis run")

	// Stage 1: decode. The only fatal stage.
	signal, err := a.decoder.File(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	fileInfo := a.collectFileInfo(path, signal.Format)
	tags := meta.ReadTags(path)

	mono := signal.Mono()

	// Stage 2: time-domain features and the spectral transform run in
	// parallel against the immutable signal. This join is the only
	// synchronization point.
	var (
		maxAmp, avgAmp     float64
		loudness           float64
		loudnessOK         bool
		frames             *spectral.SpectralFrames
		spectrum, envelope []float64
		spectralErr        error
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		maxAmp = common.MaxAbs(signal.Samples)
		avgAmp = common.MeanAbs(signal.Samples)
		loudness, loudnessOK = temporal.NewLoudness().ComputeAverage(mono)
	}()

	go func() {
		defer wg.Done()
		window := windowing.NewHannPeriodic(a.config.WindowSize)
		frames, spectralErr = a.stft.Compute(mono, a.config.WindowSize, a.config.HopSize, signal.SampleRate, window)
		if spectralErr != nil {
			frames = nil
			return
		}
		spectrum = spectral.MeanSpectrum(frames)
		envelope = spectral.SmoothSpectrum(spectrum, a.config.EnvelopeOrder)
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	if spectralErr != nil {
		logger.Warn("Spectral transform unavailable", logging.Fields{
			"error": spectralErr.Error(),
		})
	}

	// Stage 3: features derived from the spectral frames
	features := FeatureReport{
		Duration:          signal.Duration(),
		SampleRate:        signal.NativeRate,
		SamplingFrequency: signal.SampleRate,
		Channels:          signal.Channels,
		MaxAmplitude:      scalarOf(maxAmp),
		AverageAmplitude:  scalarOf(avgAmp),
		AverageLoudness:   a.loudnessScalar(loudness, loudnessOK),
	}

	if maxAmp < silenceAmplitude {
		features.MinFrequency = scalarUnavailable(reasonBelowFloor)
		features.MaxFrequency = scalarUnavailable(reasonBelowFloor)
		features.Tempo = scalarUnavailable(reasonBelowFloor)
		features.Chroma = ChromaVector{Available: false, Reason: reasonBelowFloor}
	} else {
		features.MinFrequency = a.frequencyBound(frames, spectrum, true)
		features.MaxFrequency = a.frequencyBound(frames, spectrum, false)
		features.Tempo = a.tempo(mono, signal.SampleRate, frames)
		features.Chroma = a.chromaVector(frames)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	// Stage 4: visualization assembly, no recomputation
	viz := buildVisualization(mono, signal.SampleRate, frames, spectrum, envelope)

	logger.Debug("Analysis run completed", logging.Fields{
		"duration":    features.Duration,
		"sample_rate": features.SampleRate,
		"channels":    features.Channels,
	})

	return &Report{
		File:          fileInfo,
		Metadata:      tags,
		Features:      features,
		Visualization: viz,
	}, nil
}

// collectFileInfo gathers file-level facts plus the content digest
func (a *Analyzer) collectFileInfo(path, format string) FileInfo {
	info := FileInfo{
		Name:   filepath.Base(path),
		Format: format,
		Hash:   meta.Unknown,
	}

	if stat, err := os.Stat(path); err == nil {
		info.Size = stat.Size()
		info.Modified = stat.ModTime()
	}

	if format == "" {
		info.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	hash, err := meta.FileHash(path)
	if err != nil {
		a.logger.Warn("Failed to hash file", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
	} else {
		info.Hash = hash
	}

	return info
}

// frequencyBound resolves the min or max frequency feature. Bounds come
// from the unsmoothed spectrum so a pure tone reports within one bin of
// its frequency; the smoothed envelope is a visualization dataset only.
func (a *Analyzer) frequencyBound(frames *spectral.SpectralFrames, spectrum []float64, wantMin bool) Scalar {
	if frames == nil {
		return scalarUnavailable(reasonTooShort)
	}

	minFreq, maxFreq, ok := spectral.FrequencyBounds(spectrum, frames.FreqResolution, a.config.NoiseFloor)
	if !ok {
		return scalarUnavailable(reasonNoiseFloor)
	}

	if wantMin {
		return scalarOf(minFreq)
	}
	return scalarOf(maxFreq)
}

// tempo resolves the tempo feature
func (a *Analyzer) tempo(mono []float64, sampleRate int, frames *spectral.SpectralFrames) Scalar {
	bpm, ok := temporal.NewTempoEstimation().EstimateTempo(mono, sampleRate, frames)
	if !ok {
		return scalarUnavailable(reasonNoRhythm)
	}
	return scalarOf(bpm)
}

// loudnessScalar resolves the average loudness feature
func (a *Analyzer) loudnessScalar(loudness float64, ok bool) Scalar {
	if !ok {
		return scalarUnavailable(reasonEmptySignal)
	}
	return scalarOf(loudness)
}

// chromaVector resolves the chroma feature
func (a *Analyzer) chromaVector(frames *spectral.SpectralFrames) ChromaVector {
	if frames == nil {
		return ChromaVector{Available: false, Reason: reasonTooShort}
	}

	mean, ok := chroma.NewChromaSTFT(a.config.TuningFreq).ComputeMean(frames)
	if !ok {
		return ChromaVector{Available: false, Reason: reasonSilent}
	}

	return ChromaVector{
		Values:    mean,
		Labels:    chroma.Labels(),
		Available: true,
	}
}
