// ABOUTME: Codec contract shared by every sample encoding
// ABOUTME: Defines the Codec interface, construction by encoding tag and channel conversion
package codec

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

var (
	// ErrUnsupportedOperation is raised when a variant has no definition for an operation
	ErrUnsupportedOperation = errors.New("codec: unsupported operation")

	// ErrUnknownEncoding is returned when no variant exists for an encoding tag
	ErrUnknownEncoding = errors.New("codec: unknown encoding")
)

// Codec is the capability set every sample encoding implements.
// Containers drive codecs only through this interface.
type Codec interface {
	// Encoding returns the tag of the variant
	Encoding() audio.Encoding

	// NumSamples returns the number of samples held in the buffer
	NumSamples() int

	// DataSize returns the length of the encoded buffer in bytes
	DataSize() int

	// Data returns the encoded buffer
	Data() []byte

	// SetData replaces the encoded buffer
	SetData(data []byte, numSamples int)

	// ToSamples decodes the whole buffer
	ToSamples() []int16

	// FromSamples encodes samples, replacing the buffer
	FromSamples(samples []int16)

	// InitFromBlocks sizes an empty buffer from container block fields
	InitFromBlocks(blockCount, blockSize, blockSamples, lastBlockSize, lastBlockSamples int)

	// NumBlocks returns the number of blocks the buffer spans
	NumBlocks(blockSize, blockSamples int) int

	// LastBlockSize returns the byte size of the final block
	LastBlockSize(blockSize, blockSamples int) int

	// LastBlockSamples returns the sample count of the final block
	LastBlockSamples(blockSize, blockSamples int) int

	// ReadBlock fills one block of the buffer from r
	ReadBlock(r io.Reader, blockIndex, blockSize, blockSamples int) error

	// WriteBlock writes one block of the buffer to w
	WriteBlock(w io.Writer, blockIndex, blockSize, blockSamples int) error

	// ReadData fills the whole buffer (DataSize bytes) from r
	ReadData(r io.Reader) error

	// WriteData writes the whole buffer to w
	WriteData(w io.Writer) error
}

// New creates an empty codec for an encoding
func New(enc audio.Encoding) (Codec, error) {
	switch enc {
	case audio.EncodingPCM16:
		return NewPCM16(nil), nil
	case audio.EncodingPCM8:
		return &PCM8{}, nil
	case audio.EncodingSignedPCM8:
		return &SignedPCM8{}, nil
	case audio.EncodingImaAdpcm:
		return &ImaAdpcm{}, nil
	case audio.EncodingBlockedImaAdpcm:
		return NewBlockedImaAdpcm(), nil
	case audio.EncodingDspAdpcm:
		return NewDspAdpcm(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
}

// ConvertOption tunes Convert
type ConvertOption func(*convertOptions)

type convertOptions struct {
	loopStart int
	loops     bool
}

// WithLoopStart records a loop point so DSP-ADPCM targets capture loop history
func WithLoopStart(sample int) ConvertOption {
	return func(o *convertOptions) {
		o.loopStart = sample
		o.loops = true
	}
}

// Convert re-encodes a channel set to enc by decoding each channel to PCM16
// and encoding the result. Channels are independent, so they are converted
// concurrently.
func Convert(enc audio.Encoding, channels []Codec, opts ...ConvertOption) ([]Codec, error) {
	var o convertOptions
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]Codec, len(channels))
	for i := range channels {
		c, err := New(enc)
		if err != nil {
			return nil, err
		}
		if d, ok := c.(*DspAdpcm); ok && o.loops {
			d.LoopStart = o.loopStart
			d.Loops = true
		}
		out[i] = c
	}

	var wg sync.WaitGroup
	for i := range channels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := channels[i]
			if src.Encoding() != enc {
				out[i].FromSamples(src.ToSamples())
				return
			}
			out[i].SetData(append([]byte(nil), src.Data()...), src.NumSamples())
			if d, ok := out[i].(*DspAdpcm); ok {
				d.Context = src.(*DspAdpcm).Context
				if o.loops {
					d.captureLoopHistory(d.ToSamples())
				}
			}
		}(i)
	}
	wg.Wait()

	return out, nil
}

// ToPCM16 normalizes a channel set to PCM16
func ToPCM16(channels []Codec) []*PCM16 {
	out := make([]*PCM16, len(channels))
	for i, c := range channels {
		if p, ok := c.(*PCM16); ok {
			out[i] = p
			continue
		}
		out[i] = NewPCM16(c.ToSamples())
	}
	return out
}
