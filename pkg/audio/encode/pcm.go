// ABOUTME: Raw PCM encoder
// ABOUTME: Writes channel sets as headerless 8, 16 or 24-bit little-endian PCM
package encode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// Raw writes p interleaved at bitDepth. 8-bit output is unsigned.
func Raw(w io.Writer, p *audio.PCM, bitDepth int) error {
	if len(p.Channels) == 0 {
		return fmt.Errorf("no channels to encode")
	}

	bw := bufio.NewWriter(w)
	for _, sample := range audio.Interleave(p.Channels) {
		var err error
		switch bitDepth {
		case 8:
			err = bw.WriteByte(byte((int(sample) + 0x8000) >> 8))
		case 16:
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(sample))
			_, err = bw.Write(b[:])
		case 24:
			// 24-bit PCM: 3 bytes per sample
			b := audio.SampleTo24Bit(audio.SampleFromInt16(sample))
			_, err = bw.Write(b[:])
		default:
			return fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24)", bitDepth)
		}
		if err != nil {
			return fmt.Errorf("failed to write pcm data: %w", err)
		}
	}
	return bw.Flush()
}
