package analyze

import (
	"github.com/RyanBlaney/sonido-inspect/algorithms/spectral"
)

// WaveformPlot holds the time-domain plot dataset. Samples span exactly
// the signal duration: len(Samples) * SecondsPerSample == duration.
type WaveformPlot struct {
	Samples          []float64 `json:"samples"`
	SecondsPerSample float64   `json:"seconds_per_sample"`
}

// SpectrogramPlot holds the time-frequency plot dataset as a
// time x frequency magnitude grid.
type SpectrogramPlot struct {
	Magnitude        [][]float64 `json:"magnitude"`
	SecondsPerColumn float64     `json:"seconds_per_column"`
	HzPerRow         float64     `json:"hz_per_row"`
}

// SpectrumPlot holds a 1D magnitude-vs-frequency curve.
type SpectrumPlot struct {
	Magnitude []float64 `json:"magnitude"`
	HzPerBin  float64   `json:"hz_per_bin"`
}

// VisualizationData carries the four plot datasets of a run. All arrays
// are derived from values computed upstream and are read-only to
// consumers.
type VisualizationData struct {
	Waveform    WaveformPlot    `json:"waveform"`
	Spectrogram SpectrogramPlot `json:"spectrogram"`
	Spectrum    SpectrumPlot    `json:"spectrum"`
	Envelope    SpectrumPlot    `json:"envelope"`
}

// buildVisualization assembles the plot datasets from the mono signal and
// the spectral products already computed by the pipeline. Pure assembly;
// no transform runs here. frames, spectrum and envelope may be nil when
// the signal was too short for spectral analysis, in which case the
// corresponding datasets stay empty.
func buildVisualization(mono []float64, sampleRate int, frames *spectral.SpectralFrames, spectrum, envelope []float64) *VisualizationData {
	viz := &VisualizationData{
		Waveform: WaveformPlot{
			Samples:          mono,
			SecondsPerSample: 1.0 / float64(sampleRate),
		},
	}

	if frames != nil {
		viz.Spectrogram = SpectrogramPlot{
			Magnitude:        frames.Magnitude,
			SecondsPerColumn: frames.TimeResolution,
			HzPerRow:         frames.FreqResolution,
		}
		viz.Spectrum = SpectrumPlot{
			Magnitude: spectrum,
			HzPerBin:  frames.FreqResolution,
		}
		viz.Envelope = SpectrumPlot{
			Magnitude: envelope,
			HzPerBin:  frames.FreqResolution,
		}
	}

	return viz
}
