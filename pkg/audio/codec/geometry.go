// ABOUTME: Block geometry shared by every codec
// ABOUTME: Computes block counts and boundary block sizes and implements block I/O
package codec

import (
	"fmt"
	"io"
)

// Geometry describes how an encoded buffer is cut into streaming blocks
type Geometry struct {
	BlockCount       int
	BlockSize        int
	BlockSamples     int
	LastBlockSize    int
	LastBlockSamples int
}

// DataSize returns the byte length the geometry spans
func (g Geometry) DataSize() int {
	if g.BlockCount == 0 {
		return 0
	}
	return (g.BlockCount-1)*g.BlockSize + g.LastBlockSize
}

// NumSamples returns the sample count the geometry spans
func (g Geometry) NumSamples() int {
	if g.BlockCount == 0 {
		return 0
	}
	return (g.BlockCount-1)*g.BlockSamples + g.LastBlockSamples
}

// BlockLen returns the byte size of block i
func (g Geometry) BlockLen(i int) int {
	if i == g.BlockCount-1 {
		return g.LastBlockSize
	}
	return g.BlockSize
}

// GeometryOf computes the geometry of a codec's buffer for a nominal block size
func GeometryOf(c Codec, blockSize, blockSamples int) Geometry {
	return Geometry{
		BlockCount:       c.NumBlocks(blockSize, blockSamples),
		BlockSize:        blockSize,
		BlockSamples:     blockSamples,
		LastBlockSize:    c.LastBlockSize(blockSize, blockSamples),
		LastBlockSamples: c.LastBlockSamples(blockSize, blockSamples),
	}
}

// NumBlocks returns ceil(dataSize / blockSize)
func NumBlocks(dataSize, blockSize int) int {
	mustPositive("block size", blockSize)
	n := dataSize / blockSize
	if dataSize%blockSize != 0 {
		n++
	}
	return n
}

// LastBlockSize returns dataSize mod blockSize, or blockSize when the remainder is zero
func LastBlockSize(dataSize, blockSize int) int {
	mustPositive("block size", blockSize)
	n := dataSize % blockSize
	if n == 0 {
		n = blockSize
	}
	return n
}

// LastBlockSamples returns numSamples mod blockSamples, or blockSamples when the remainder is zero
func LastBlockSamples(numSamples, blockSamples int) int {
	mustPositive("block samples", blockSamples)
	n := numSamples % blockSamples
	if n == 0 {
		n = blockSamples
	}
	return n
}

func mustPositive(what string, v int) {
	if v <= 0 {
		panic(fmt.Sprintf("codec: %s must be positive, got %d", what, v))
	}
}

// buffer is the encoded byte buffer and sample count every variant carries.
// It implements the block half of the Codec contract.
type buffer struct {
	data       []byte
	numSamples int
}

func (b *buffer) NumSamples() int { return b.numSamples }
func (b *buffer) DataSize() int   { return len(b.data) }
func (b *buffer) Data() []byte    { return b.data }

func (b *buffer) SetData(data []byte, numSamples int) {
	b.data = data
	b.numSamples = numSamples
}

func (b *buffer) InitFromBlocks(blockCount, blockSize, blockSamples, lastBlockSize, lastBlockSamples int) {
	g := Geometry{
		BlockCount:       blockCount,
		BlockSize:        blockSize,
		BlockSamples:     blockSamples,
		LastBlockSize:    lastBlockSize,
		LastBlockSamples: lastBlockSamples,
	}
	b.data = make([]byte, g.DataSize())
	b.numSamples = g.NumSamples()
}

func (b *buffer) NumBlocks(blockSize, blockSamples int) int {
	return NumBlocks(len(b.data), blockSize)
}

func (b *buffer) LastBlockSize(blockSize, blockSamples int) int {
	return LastBlockSize(len(b.data), blockSize)
}

func (b *buffer) LastBlockSamples(blockSize, blockSamples int) int {
	return LastBlockSamples(b.numSamples, blockSamples)
}

// block returns the slice of the buffer holding block i.
// An index outside [0, NumBlocks) is a caller bug and panics.
func (b *buffer) block(i, blockSize int) []byte {
	n := NumBlocks(len(b.data), blockSize)
	if i < 0 || i >= n {
		panic(fmt.Sprintf("codec: block index %d out of range [0, %d)", i, n))
	}
	size := blockSize
	if i == n-1 {
		size = LastBlockSize(len(b.data), blockSize)
	}
	return b.data[i*blockSize : i*blockSize+size]
}

func (b *buffer) ReadBlock(r io.Reader, blockIndex, blockSize, blockSamples int) error {
	if _, err := io.ReadFull(r, b.block(blockIndex, blockSize)); err != nil {
		return fmt.Errorf("failed to read block %d: %w", blockIndex, err)
	}
	return nil
}

func (b *buffer) WriteBlock(w io.Writer, blockIndex, blockSize, blockSamples int) error {
	if _, err := w.Write(b.block(blockIndex, blockSize)); err != nil {
		return fmt.Errorf("failed to write block %d: %w", blockIndex, err)
	}
	return nil
}

func (b *buffer) ReadData(r io.Reader) error {
	if _, err := io.ReadFull(r, b.data); err != nil {
		return fmt.Errorf("failed to read %d data bytes: %w", len(b.data), err)
	}
	return nil
}

func (b *buffer) WriteData(w io.Writer) error {
	if _, err := w.Write(b.data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

