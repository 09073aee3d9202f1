// ABOUTME: DSP-ADPCM (GC-ADPCM) codec
// ABOUTME: Frame decoder, encoder packaging, loop-history capture and per-block splitting
package codec

import (
	"fmt"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/gcadpcm"
)

const (
	// DspFrameSize is the byte size of one frame: a header byte and 7 data bytes
	DspFrameSize = 8

	// DspFrameSamples is the number of samples one frame holds
	DspFrameSamples = 14
)

// DspAdpcmEncoder computes coefficients and packs frames. Implementations
// must reconstruct samples with the same formula the decoder uses.
type DspAdpcmEncoder interface {
	Encode(samples []int16, seed History) (data []byte, coefs [8][2]int16)
}

// DspAdpcmEncoderFunc adapts a function to DspAdpcmEncoder
type DspAdpcmEncoderFunc func(samples []int16, seed History) ([]byte, [8][2]int16)

func (f DspAdpcmEncoderFunc) Encode(samples []int16, seed History) ([]byte, [8][2]int16) {
	return f(samples, seed)
}

// GCAdpcmEncoder is the default encoder, backed by package gcadpcm
var GCAdpcmEncoder DspAdpcmEncoder = DspAdpcmEncoderFunc(func(samples []int16, seed History) ([]byte, [8][2]int16) {
	return gcadpcm.Encode(samples, seed.Yn1, seed.Yn2, gcadpcm.DefaultSettings())
})

// DspAdpcm holds one channel of DSP-ADPCM frames and the context needed to
// decode them. The context belongs to this channel alone; decoding reads it
// but never mutates it.
type DspAdpcm struct {
	buffer
	Context DspContext

	// Loops and LoopStart select the sample whose history is captured on encode
	Loops     bool
	LoopStart int

	Encoder DspAdpcmEncoder
}

// NewDspAdpcm creates an empty codec using the default encoder
func NewDspAdpcm() *DspAdpcm {
	return &DspAdpcm{Encoder: GCAdpcmEncoder}
}

func (d *DspAdpcm) Encoding() audio.Encoding { return audio.EncodingDspAdpcm }

// ToSamples decodes the frames starting from the context history
func (d *DspAdpcm) ToSamples() []int16 {
	samples := make([]int16, d.numSamples)
	DecodeDsp(d.data, &d.Context, samples)
	return samples
}

// FromSamples encodes samples, replacing the buffer and the context.
// The current context history seeds the encoder.
func (d *DspAdpcm) FromSamples(samples []int16) {
	enc := d.Encoder
	if enc == nil {
		enc = GCAdpcmEncoder
	}
	seed := d.Context.History()
	data, coefs := enc.Encode(samples, seed)

	d.Context = DspContext{
		Coefs: coefs,
		Gain:  d.Context.Gain,
		Yn1:   seed.Yn1,
		Yn2:   seed.Yn2,
	}
	if len(data) > 0 {
		d.Context.PredScale = uint16(data[0])
	}
	d.data = data
	d.numSamples = len(samples)

	if d.Loops {
		d.captureLoopHistory(samples)
	}
}

// captureLoopHistory snapshots the samples preceding LoopStart and the
// header of the frame that contains it
func (d *DspAdpcm) captureLoopHistory(samples []int16) {
	c := &d.Context
	ls := d.LoopStart
	c.LoopYn1, c.LoopYn2, c.LoopPredScale = 0, 0, 0
	c.HasLoopHistory = false
	if ls < 0 || ls > len(samples) {
		return
	}
	if ls > 0 {
		c.LoopYn1 = samples[ls-1]
	}
	if ls > 1 {
		c.LoopYn2 = samples[ls-2]
	}
	if frame := ls / DspFrameSamples * DspFrameSize; frame < len(d.data) {
		c.LoopPredScale = uint16(d.data[frame])
	}
	c.HasLoopHistory = true
}

// ContextForLoop returns the context with loop history for loopStart. A
// snapshot captured at encode time is reused; otherwise the history is taken
// from the decoded stream, which is what a decoder sees at that point.
func (d *DspAdpcm) ContextForLoop(loopStart int) DspContext {
	if d.Context.HasLoopHistory && d.LoopStart == loopStart {
		return d.Context
	}
	tmp := DspAdpcm{buffer: d.buffer, Context: d.Context, LoopStart: loopStart}
	tmp.captureLoopHistory(d.ToSamples())
	return tmp.Context
}

// DecodeDsp decodes frames from src into dst starting from ctx's history and
// returns the history after the last decoded sample. Decoding stops when dst
// is full or src runs out.
func DecodeDsp(src []byte, ctx *DspContext, dst []int16) History {
	hist1, hist2 := int(ctx.Yn1), int(ctx.Yn2)
	n, si := 0, 0
	for n < len(dst) && si < len(src) {
		header := src[si]
		si++
		scale := 1 << (header & 0xF)
		pair := ctx.Coefs[(header>>4)&7]
		coef1, coef2 := int(pair[0]), int(pair[1])

		for b := 0; b < DspFrameSize-1 && n < len(dst) && si < len(src); b++ {
			byt := src[si]
			si++
			for s := 0; s < 2 && n < len(dst); s++ {
				nibble := byt >> 4
				if s == 1 {
					nibble = byt & 0xF
				}
				v := int(nibbleToInt8[nibble])
				sample := clamp16(((v*scale)<<11 + 1024 + coef1*hist1 + coef2*hist2) >> 11)
				hist2 = hist1
				hist1 = sample
				dst[n] = int16(sample)
				n++
			}
		}
	}
	return History{Yn1: int16(hist1), Yn2: int16(hist2)}
}

func clamp16(v int) int {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// DspBytes returns the encoded size of n samples. A partial final frame
// keeps its header and only the data bytes it needs.
func DspBytes(n int) int {
	frames, rem := n/DspFrameSamples, n%DspFrameSamples
	size := frames * DspFrameSize
	if rem > 0 {
		size += 1 + (rem+1)/2
	}
	return size
}

// DspNibbleCount returns the number of nibbles n samples occupy, headers included
func DspNibbleCount(n int) int {
	frames, rem := n/DspFrameSamples, n%DspFrameSamples
	if rem == 0 {
		return frames * 16
	}
	return frames*16 + rem + 2
}

// DspNibbleAddress returns the nibble address of sample n
func DspNibbleAddress(n int) int {
	return n/DspFrameSamples*16 + n%DspFrameSamples + 2
}

// DspNibbleAddressToSample is the inverse of DspNibbleAddress
func DspNibbleAddressToSample(nibble int) int {
	frames, rem := nibble/16, nibble%16
	if rem < 2 {
		return frames * DspFrameSamples
	}
	return frames*DspFrameSamples + rem - 2
}

// SeekTable returns the decoder history at the start of every block
func (d *DspAdpcm) SeekTable(blockSamples int) []History {
	mustPositive("block samples", blockSamples)
	samples := d.ToSamples()
	table := make([]History, 0, NumBlocks(len(samples), blockSamples))
	for start := 0; start < len(samples); start += blockSamples {
		table = append(table, historyAt(samples, start, d.Context.History()))
	}
	return table
}

// historyAt returns the two samples preceding start, falling back to seed
func historyAt(samples []int16, start int, seed History) History {
	switch {
	case start >= 2:
		return History{Yn1: samples[start-1], Yn2: samples[start-2]}
	case start == 1:
		return History{Yn1: samples[0], Yn2: seed.Yn1}
	}
	return seed
}

// Blocks splits the channel into independently decodable per-block codecs.
// Each block gets its own context seeded with the history at its first
// sample. Only the block containing the loop sample carries loop history.
// blockSize must be a whole number of frames and blockSamples must match it.
func (d *DspAdpcm) Blocks(blockSize, blockSamples int) []*DspAdpcm {
	if blockSize%DspFrameSize != 0 || blockSize/DspFrameSize*DspFrameSamples != blockSamples {
		panic(fmt.Sprintf("codec: dsp block of %d bytes cannot hold %d samples", blockSize, blockSamples))
	}
	samples := d.ToSamples()
	count := d.NumBlocks(blockSize, blockSamples)
	blocks := make([]*DspAdpcm, count)
	for i := range blocks {
		start := i * blockSamples
		end := min(start+blockSamples, len(samples))
		hist := historyAt(samples, start, d.Context.History())
		data := append([]byte(nil), d.block(i, blockSize)...)

		b := &DspAdpcm{Encoder: d.Encoder}
		b.SetData(data, end-start)
		b.Context = DspContext{
			Coefs:     d.Context.Coefs,
			Gain:      d.Context.Gain,
			PredScale: uint16(data[0]),
			Yn1:       hist.Yn1,
			Yn2:       hist.Yn2,
		}
		if d.Context.HasLoopHistory && d.LoopStart >= start && d.LoopStart < end {
			b.Context.CopyLoop(&d.Context)
			b.Loops = true
			b.LoopStart = d.LoopStart - start
		}
		blocks[i] = b
	}
	return blocks
}

// ResolveLoopContext returns the context for continuous decoding of a
// channel stored as blocks: block 0's coefficients and history, with loop
// history taken from the block that actually contains loopStart. If that
// block has none, the first block that does is used, then block 0's fields.
func ResolveLoopContext(blocks []*DspAdpcm, loopStart, blockSamples int) DspContext {
	if len(blocks) == 0 {
		return DspContext{}
	}
	mustPositive("block samples", blockSamples)
	ctx := blocks[0].Context
	if i := loopStart / blockSamples; loopStart >= 0 && i < len(blocks) && blocks[i].Context.HasLoopHistory {
		ctx.CopyLoop(&blocks[i].Context)
		return ctx
	}
	for _, b := range blocks {
		if b.Context.HasLoopHistory {
			ctx.CopyLoop(&b.Context)
			return ctx
		}
	}
	return ctx
}

// JoinBlocks reassembles per-block codecs into one channel
func JoinBlocks(blocks []*DspAdpcm, loopStart, blockSamples int) *DspAdpcm {
	d := NewDspAdpcm()
	if len(blocks) == 0 {
		return d
	}
	var data []byte
	var n int
	for _, b := range blocks {
		data = append(data, b.data...)
		n += b.numSamples
	}
	d.SetData(data, n)
	d.Context = ResolveLoopContext(blocks, loopStart, blockSamples)
	d.Loops = d.Context.HasLoopHistory
	d.LoopStart = loopStart
	return d
}
