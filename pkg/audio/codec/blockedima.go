// ABOUTME: Blocked IMA-ADPCM codec
// ABOUTME: Segments the stream into fixed-size blocks, each an independent IMA-ADPCM stream
package codec

import (
	"fmt"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

const (
	DefaultImaBlockSize    = 0x200
	DefaultImaBlockSamples = 0x3F8
)

// ImaBlockSamples returns the number of samples a block of blockSize bytes holds
func ImaBlockSamples(blockSize int) int {
	return (blockSize - imaHeaderSize) * 2
}

// BlockedImaAdpcm stores IMA-ADPCM as consecutive self-headered blocks so a
// reader can seek to any block. Every block but the last is padded to BlockSize.
type BlockedImaAdpcm struct {
	buffer
	BlockSize    int
	BlockSamples int
}

// NewBlockedImaAdpcm creates a codec with 0x200 byte blocks of 0x3F8 samples
func NewBlockedImaAdpcm() *BlockedImaAdpcm {
	return &BlockedImaAdpcm{
		BlockSize:    DefaultImaBlockSize,
		BlockSamples: DefaultImaBlockSamples,
	}
}

func (c *BlockedImaAdpcm) Encoding() audio.Encoding { return audio.EncodingBlockedImaAdpcm }

// ToSamples decodes every block in turn
func (c *BlockedImaAdpcm) ToSamples() []int16 {
	samples := make([]int16, c.numSamples)
	if len(c.data) == 0 {
		return samples
	}
	for i, start := 0, 0; start < len(samples); i, start = i+1, start+c.BlockSamples {
		off := i * c.BlockSize
		if off >= len(c.data) {
			break
		}
		end := min(start+c.BlockSamples, len(samples))
		decodeIma(c.data[off:min(off+c.BlockSize, len(c.data))], samples[start:end])
	}
	return samples
}

// FromSamples encodes BlockSamples samples per block
func (c *BlockedImaAdpcm) FromSamples(samples []int16) {
	if imaBytes(c.BlockSamples) > c.BlockSize {
		panic(fmt.Sprintf("codec: %d samples do not fit a %d byte IMA-ADPCM block", c.BlockSamples, c.BlockSize))
	}
	data := make([]byte, 0, NumBlocks(len(samples), c.BlockSamples)*c.BlockSize)
	for start := 0; start < len(samples); start += c.BlockSamples {
		end := min(start+c.BlockSamples, len(samples))
		block := encodeIma(samples[start:end])
		data = append(data, block...)
		if end < len(samples) {
			data = append(data, make([]byte, c.BlockSize-len(block))...)
		}
	}
	c.data = data
	c.numSamples = len(samples)
}

// InitFromBlocks sizes the buffer and adopts the container's block layout
func (c *BlockedImaAdpcm) InitFromBlocks(blockCount, blockSize, blockSamples, lastBlockSize, lastBlockSamples int) {
	c.buffer.InitFromBlocks(blockCount, blockSize, blockSamples, lastBlockSize, lastBlockSamples)
	c.BlockSize = blockSize
	c.BlockSamples = blockSamples
}
