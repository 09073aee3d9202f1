// ABOUTME: MP3 decoder
// ABOUTME: Decodes MP3 streams to stereo 16-bit PCM using go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes a complete MP3 stream. go-mp3 always produces
// interleaved stereo 16-bit little-endian output.
func MP3(r io.Reader) (*audio.PCM, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to read mp3 data: %w", err)
	}

	return &audio.PCM{
		SampleRate: decoder.SampleRate(),
		Channels:   audio.Deinterleave(int16sLE(raw), 2),
	}, nil
}

func int16sLE(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}
