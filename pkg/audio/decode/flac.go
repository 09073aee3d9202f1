// ABOUTME: FLAC decoder
// ABOUTME: Decodes FLAC streams of any bit depth to 16-bit PCM using mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLAC decodes a complete FLAC stream, folding every sample to 16 bits
func FLAC(r io.Reader) (*audio.PCM, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	out := make([][]int16, channels)

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse flac frame: %w", err)
		}

		subframes := make([][]int32, len(frame.Subframes))
		for ch, sub := range frame.Subframes {
			subframes[ch] = sub.Samples
		}
		if err := appendFrame(out, subframes, int(frame.BlockSize), bitDepth); err != nil {
			return nil, err
		}
	}

	return &audio.PCM{
		SampleRate: int(stream.Info.SampleRate),
		Channels:   out,
	}, nil
}

// appendFrame normalizes one decoded block onto the per-channel output
func appendFrame(out [][]int16, subframes [][]int32, blockSize, bitDepth int) error {
	if len(subframes) != len(out) {
		return fmt.Errorf("flac frame has %d channels, stream has %d", len(subframes), len(out))
	}
	for ch, samples := range subframes {
		if len(samples) < blockSize {
			return fmt.Errorf("flac subframe %d has %d samples, want %d", ch, len(samples), blockSize)
		}
		for _, s := range samples[:blockSize] {
			out[ch] = append(out[ch], audio.NormalizeToInt16(s, bitDepth))
		}
	}
	return nil
}
