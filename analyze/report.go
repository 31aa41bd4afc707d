package analyze

import (
	"time"

	"github.com/RyanBlaney/sonido-inspect/meta"
)

// Scalar is a single feature value that is either present and finite or
// explicitly unavailable with a reason. Fields are never silently
// omitted from a finalized report.
type Scalar struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

func scalarOf(v float64) Scalar {
	return Scalar{Value: v, Available: true}
}

func scalarUnavailable(reason string) Scalar {
	return Scalar{Available: false, Reason: reason}
}

// ChromaVector is a 12-bin pitch-class energy vector with its note labels,
// or an explicit unavailability marker.
type ChromaVector struct {
	Values    []float64 `json:"values,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
}

// FeatureReport maps feature names to values for a single analysis run.
// SampleRate is the container's native rate; SamplingFrequency is the
// rate the analysis actually ran at (they differ only when the FFmpeg
// path resampled).
type FeatureReport struct {
	Duration          float64      `json:"duration"`
	SampleRate        int          `json:"sample_rate"`
	SamplingFrequency int          `json:"sampling_frequency"`
	Channels          int          `json:"channels"`
	MaxAmplitude      Scalar       `json:"max_amplitude"`
	AverageAmplitude  Scalar       `json:"average_amplitude"`
	MinFrequency      Scalar       `json:"min_frequency"`
	MaxFrequency      Scalar       `json:"max_frequency"`
	Tempo             Scalar       `json:"tempo"`
	AverageLoudness   Scalar       `json:"average_loudness"`
	Chroma            ChromaVector `json:"chroma"`
}

// FileInfo describes the analyzed file itself
type FileInfo struct {
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Hash     string    `json:"hash"`
}

// Report is the merged result of one analysis run: file info, metadata
// tags, the feature report and the visualization datasets. It has no
// lifetime beyond the run that produced it.
type Report struct {
	File          FileInfo           `json:"file"`
	Metadata      meta.Tags          `json:"metadata"`
	Features      FeatureReport      `json:"features"`
	Visualization *VisualizationData `json:"visualization,omitempty"`
}
