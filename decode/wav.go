package decode

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// decodeWAV reads a PCM WAV file natively via go-audio.
func (d *Decoder) decodeWAV(path string) (*AudioSignal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newDecodeError(path, "open", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, newDecodeError(path, "probe", fmt.Errorf("%w: not a valid WAV file", ErrCorruptStream))
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, newDecodeError(path, "decode", fmt.Errorf("%w: %v", ErrCorruptStream, err))
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, newDecodeError(path, "decode", ErrNoSamples)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}

	// Integer PCM scales by the signed range of the source bit depth
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) * scale
	}

	return &AudioSignal{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		NativeRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Format:     "wav",
	}, nil
}
