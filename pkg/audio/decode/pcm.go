// ABOUTME: Raw PCM decoder
// ABOUTME: Decodes headerless 8, 16 and 24-bit little-endian PCM streams
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// Raw decodes interleaved little-endian PCM. 8-bit data is unsigned.
// A trailing partial frame is dropped.
func Raw(r io.Reader, format audio.Format) (*audio.PCM, error) {
	if format.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	var samples []int16
	switch format.BitDepth {
	case 8:
		samples = make([]int16, len(data))
		for i, b := range data {
			samples[i] = int16(int(b)<<8 - 0x8000)
		}
	case 16:
		samples = int16sLE(data)
	case 24:
		// 24-bit PCM: 3 bytes per sample
		samples = make([]int16, len(data)/3)
		for i := range samples {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.NormalizeToInt16(audio.SampleFrom24Bit(b), 24)
		}
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24)", format.BitDepth)
	}

	return &audio.PCM{
		SampleRate: format.SampleRate,
		Channels:   audio.Deinterleave(samples, format.Channels),
	}, nil
}
