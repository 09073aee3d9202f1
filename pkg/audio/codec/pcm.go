// ABOUTME: Fixed-point PCM codecs
// ABOUTME: PCM16 pass-through, unsigned PCM8 with bias 128 and signed PCM8
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// PCM16 stores little-endian 16-bit samples; conversion is lossless
type PCM16 struct {
	buffer
}

// NewPCM16 creates a PCM16 codec holding samples
func NewPCM16(samples []int16) *PCM16 {
	p := &PCM16{}
	p.FromSamples(samples)
	return p
}

func (p *PCM16) Encoding() audio.Encoding { return audio.EncodingPCM16 }

// ToSamples converts the buffer to samples
func (p *PCM16) ToSamples() []int16 {
	samples := make([]int16, p.numSamples)
	for i := range samples {
		if i*2+1 >= len(p.data) {
			break
		}
		samples[i] = int16(binary.LittleEndian.Uint16(p.data[i*2:]))
	}
	return samples
}

// FromSamples stores samples as little-endian bytes
func (p *PCM16) FromSamples(samples []int16) {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	p.data = data
	p.numSamples = len(samples)
}

// PCM8 stores unsigned 8-bit samples biased by 128. Only the high byte of
// each 16-bit sample survives encoding.
type PCM8 struct {
	buffer
}

func (p *PCM8) Encoding() audio.Encoding { return audio.EncodingPCM8 }

// ToSamples converts the buffer to samples
func (p *PCM8) ToSamples() []int16 {
	samples := make([]int16, p.numSamples)
	for i := range samples {
		if i >= len(p.data) {
			break
		}
		samples[i] = int16(int(p.data[i])-128) << 8
	}
	return samples
}

// FromSamples truncates samples to their high byte
func (p *PCM8) FromSamples(samples []int16) {
	data := make([]byte, len(samples))
	for i, s := range samples {
		data[i] = byte((s >> 8) + 128)
	}
	p.data = data
	p.numSamples = len(samples)
}

// ToSignedPCM8 returns the samples with the bias removed
func (p *PCM8) ToSignedPCM8() []int8 {
	out := make([]int8, len(p.data))
	for i, b := range p.data {
		out[i] = int8(int(b) - 128)
	}
	return out
}

// SignedPCM8 stores two's complement 8-bit samples. It defines no block
// framing: the block half of the contract panics with ErrUnsupportedOperation.
type SignedPCM8 struct {
	buffer
}

func (p *SignedPCM8) Encoding() audio.Encoding { return audio.EncodingSignedPCM8 }

// ToSamples converts the buffer to samples
func (p *SignedPCM8) ToSamples() []int16 {
	samples := make([]int16, p.numSamples)
	for i := range samples {
		if i >= len(p.data) {
			break
		}
		samples[i] = int16(int8(p.data[i])) << 8
	}
	return samples
}

// FromSamples truncates samples to their high byte
func (p *SignedPCM8) FromSamples(samples []int16) {
	data := make([]byte, len(samples))
	for i, s := range samples {
		data[i] = byte(int8(s >> 8))
	}
	p.data = data
	p.numSamples = len(samples)
}

// ToPCM8 returns the samples biased by 128
func (p *SignedPCM8) ToPCM8() []byte {
	out := make([]byte, len(p.data))
	for i, b := range p.data {
		out[i] = byte(int(int8(b)) + 128)
	}
	return out
}

func (p *SignedPCM8) InitFromBlocks(blockCount, blockSize, blockSamples, lastBlockSize, lastBlockSamples int) {
	unsupported("InitFromBlocks")
}

func (p *SignedPCM8) NumBlocks(blockSize, blockSamples int) int {
	unsupported("NumBlocks")
	return 0
}

func (p *SignedPCM8) LastBlockSize(blockSize, blockSamples int) int {
	unsupported("LastBlockSize")
	return 0
}

func (p *SignedPCM8) LastBlockSamples(blockSize, blockSamples int) int {
	unsupported("LastBlockSamples")
	return 0
}

func (p *SignedPCM8) ReadBlock(r io.Reader, blockIndex, blockSize, blockSamples int) error {
	unsupported("ReadBlock")
	return nil
}

func (p *SignedPCM8) WriteBlock(w io.Writer, blockIndex, blockSize, blockSamples int) error {
	unsupported("WriteBlock")
	return nil
}

func unsupported(op string) {
	panic(fmt.Errorf("%w: %s on %s", ErrUnsupportedOperation, op, audio.EncodingSignedPCM8))
}
