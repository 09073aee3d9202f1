// ABOUTME: Interleaved block streaming across a channel set
// ABOUTME: Reads and writes multi-channel data block by block in channel order
package codec

import (
	"fmt"
	"io"
)

// ReadInterleaved sizes every channel from g and fills them from r, reading
// block 0 of each channel in channel order, then block 1, and so on.
func ReadInterleaved(r io.Reader, channels []Codec, g Geometry) error {
	for _, c := range channels {
		c.InitFromBlocks(g.BlockCount, g.BlockSize, g.BlockSamples, g.LastBlockSize, g.LastBlockSamples)
	}
	for i := 0; i < g.BlockCount; i++ {
		for ch, c := range channels {
			if err := c.ReadBlock(r, i, g.BlockSize, g.BlockSamples); err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
		}
	}
	return nil
}

// WriteInterleaved writes every channel to w block by block in channel order.
// All channels must share the same geometry.
func WriteInterleaved(w io.Writer, channels []Codec, blockSize, blockSamples int) error {
	if len(channels) == 0 {
		return nil
	}
	g := GeometryOf(channels[0], blockSize, blockSamples)
	for ch, c := range channels[1:] {
		if other := GeometryOf(c, blockSize, blockSamples); other != g {
			return fmt.Errorf("channel %d geometry %+v differs from channel 0 %+v", ch+1, other, g)
		}
	}
	for i := 0; i < g.BlockCount; i++ {
		for ch, c := range channels {
			if err := c.WriteBlock(w, i, blockSize, blockSamples); err != nil {
				return fmt.Errorf("channel %d: %w", ch, err)
			}
		}
	}
	return nil
}
