package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// decodeFLAC reads a FLAC file natively via mewkiz/flac, interleaving
// the per-channel subframes back into frame-major order.
func (d *Decoder) decodeFLAC(path string) (*AudioSignal, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, newDecodeError(path, "open", fmt.Errorf("%w: %v", ErrCorruptStream, err))
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	if channels <= 0 {
		return nil, newDecodeError(path, "probe", fmt.Errorf("invalid channel count: %d", channels))
	}

	scale := 1.0 / float64(int64(1)<<(info.BitsPerSample-1))

	var samples []float64
	if info.NSamples > 0 {
		samples = make([]float64, 0, int(info.NSamples)*channels)
	}

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, newDecodeError(path, "decode", fmt.Errorf("%w: %v", ErrCorruptStream, err))
		}

		if len(frame.Subframes) == 0 {
			continue
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float64(frame.Subframes[ch].Samples[i])*scale)
			}
		}
	}

	return &AudioSignal{
		Samples:    samples,
		SampleRate: int(info.SampleRate),
		NativeRate: int(info.SampleRate),
		Channels:   channels,
		Format:     "flac",
	}, nil
}
