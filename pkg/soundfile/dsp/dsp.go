// ABOUTME: DSP container implementation
// ABOUTME: Per-channel headers with decoder contexts and block-interleaved channel data
package dsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
	"github.com/Resonate-Protocol/soundio-go/pkg/soundfile"
)

const (
	// HeaderSize is the size of one channel header
	HeaderSize = 0x60

	// DefaultBlockSize is the interleave block size of extended files
	DefaultBlockSize = 0x2000

	formatAdpcm = 0
	initialAddr = 2
)

func init() {
	soundfile.Register(func() soundfile.Container { return New() })
}

// header is the fixed part of a channel header ahead of the context
type header struct {
	NumSamples  uint32
	NumNibbles  uint32
	SampleRate  uint32
	LoopFlag    uint16
	Format      uint16
	LoopStart   uint32
	LoopEnd     uint32
	CurrentAddr uint32
}

// extension follows the context in extended files
type extension struct {
	Channels    uint16
	BlockFrames uint16
}

// File is a DSP container
type File struct {
	sound soundfile.Sound

	// Extended stores more than one channel. It is forced on for multi-channel sounds.
	Extended bool

	// BlockSize is the per-channel interleave size of extended files, a multiple of 8
	BlockSize int
}

// New creates an empty DSP container
func New() *File {
	return &File{BlockSize: DefaultBlockSize}
}

func (f *File) Name() string            { return "DSP" }
func (f *File) Extensions() []string    { return []string{"dsp", "mdsp"} }
func (f *File) Sound() *soundfile.Sound { return &f.sound }

func (f *File) SupportedEncodings() []audio.Encoding {
	return []audio.Encoding{audio.EncodingDspAdpcm}
}

func (f *File) PreferredEncoding() (audio.Encoding, bool) {
	return audio.EncodingDspAdpcm, true
}

// OnConversion switches to the extended layout when the sound has several channels
func (f *File) OnConversion() {
	f.Extended = len(f.sound.Channels) > 1
	if f.BlockSize == 0 {
		f.BlockSize = DefaultBlockSize
	}
}

type channelHeader struct {
	header
	ctx codec.DspContext
	ext extension
}

func readHeader(r io.Reader) (channelHeader, error) {
	var h channelHeader
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return h, fmt.Errorf("failed to read header: %w", err)
	}

	br := bytes.NewReader(raw)
	if err := binary.Read(br, binary.BigEndian, &h.header); err != nil {
		return h, err
	}
	ctx := make([]byte, codec.DspContextSize)
	if _, err := io.ReadFull(br, ctx); err != nil {
		return h, err
	}
	if err := h.ctx.UnmarshalBinary(ctx); err != nil {
		return h, err
	}
	if err := binary.Read(br, binary.BigEndian, &h.ext); err != nil {
		return h, err
	}
	return h, nil
}

func writeHeader(w io.Writer, h channelHeader) error {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, h.header)
	ctx, err := h.ctx.MarshalBinary()
	if err != nil {
		return err
	}
	buf.Write(ctx)
	binary.Write(&buf, binary.BigEndian, h.ext)
	buf.Write(make([]byte, HeaderSize-buf.Len()))

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Read parses a DSP file
func (f *File) Read(r io.Reader) error {
	first, err := readHeader(r)
	if err != nil {
		return err
	}
	if first.Format != formatAdpcm {
		return fmt.Errorf("%w: DSP format %d is not ADPCM", soundfile.ErrUnsupportedFormat, first.Format)
	}

	headers := []channelHeader{first}
	numChannels := int(first.ext.Channels)
	extended := numChannels > 0
	for i := 1; i < numChannels; i++ {
		h, err := readHeader(r)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		headers = append(headers, h)
	}
	numChannels = len(headers)

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read frames: %w", err)
	}
	channelLen := len(data) / numChannels

	blockSize := channelLen
	if extended {
		blockSize = int(first.ext.BlockFrames) * codec.DspFrameSize
		if blockSize == 0 {
			return fmt.Errorf("%w: extended DSP with zero block size", soundfile.ErrUnsupportedFormat)
		}
	}

	loops := first.LoopFlag > 0
	loopStart := codec.DspNibbleAddressToSample(int(first.LoopStart))
	channels := make([]codec.Codec, numChannels)
	dsps := make([]*codec.DspAdpcm, numChannels)
	for i, h := range headers {
		d := codec.NewDspAdpcm()
		d.Context = h.ctx
		d.Context.HasLoopHistory = loops
		d.Loops = loops
		d.LoopStart = loopStart
		channels[i] = d
		dsps[i] = d
	}

	if channelLen > 0 {
		blockSamples := max(int(first.NumSamples), 1)
		if extended {
			blockSamples = blockSize / codec.DspFrameSize * codec.DspFrameSamples
		}
		g := codec.Geometry{
			BlockCount:       codec.NumBlocks(channelLen, blockSize),
			BlockSize:        blockSize,
			BlockSamples:     blockSamples,
			LastBlockSize:    codec.LastBlockSize(channelLen, blockSize),
			LastBlockSamples: codec.LastBlockSamples(int(first.NumSamples), blockSamples),
		}
		if err := codec.ReadInterleaved(bytes.NewReader(data), channels, g); err != nil {
			return fmt.Errorf("failed to read frames: %w", err)
		}
	}
	for i, d := range dsps {
		d.SetData(d.Data(), int(headers[i].NumSamples))
	}

	// Extended channels are rebuilt from their interleave blocks so the loop
	// history comes from the block holding the loop start.
	if extended && channelLen > 0 {
		blockSamples := blockSize / codec.DspFrameSize * codec.DspFrameSamples
		for i, d := range dsps {
			joined := codec.JoinBlocks(d.Blocks(blockSize, blockSamples), loopStart, blockSamples)
			joined.Loops = loops
			channels[i] = joined
		}
	}

	f.Extended = extended
	if extended {
		f.BlockSize = blockSize
	}
	f.sound = soundfile.Sound{
		SampleRate: int(first.SampleRate),
		Loops:      loops,
		LoopStart:  loopStart,
		LoopEnd:    codec.DspNibbleAddressToSample(int(first.LoopEnd)),
		Channels:   channels,
	}
	return nil
}

// SeekTable returns the decoder history at the start of every interleave
// block of channel ch. It is nil unless the file is extended.
func (f *File) SeekTable(ch int) []codec.History {
	if !f.Extended || f.BlockSize <= 0 || ch < 0 || ch >= len(f.sound.Channels) {
		return nil
	}
	d, ok := f.sound.Channels[ch].(*codec.DspAdpcm)
	if !ok {
		return nil
	}
	return d.SeekTable(f.BlockSize / codec.DspFrameSize * codec.DspFrameSamples)
}

// Write serializes the sound as a DSP file
func (f *File) Write(w io.Writer) error {
	s := &f.sound
	if err := s.Validate(); err != nil {
		return err
	}
	if enc, _ := s.Encoding(); enc != audio.EncodingDspAdpcm {
		return fmt.Errorf("%w: DSP cannot store %s", soundfile.ErrUnsupportedFormat, enc)
	}

	extended := f.Extended || len(s.Channels) > 1
	blockSize := f.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if extended && blockSize%codec.DspFrameSize != 0 {
		return fmt.Errorf("block size %#x is not a whole number of frames", blockSize)
	}

	n := s.NumSamples()
	var ext extension
	if extended {
		ext = extension{Channels: uint16(len(s.Channels)), BlockFrames: uint16(blockSize / codec.DspFrameSize)}
	}
	for i, c := range s.Channels {
		d := c.(*codec.DspAdpcm)
		h := channelHeader{
			header: header{
				NumSamples:  uint32(n),
				NumNibbles:  uint32(codec.DspNibbleCount(n)),
				SampleRate:  uint32(s.SampleRate),
				Format:      formatAdpcm,
				CurrentAddr: initialAddr,
			},
			ctx: d.Context,
			ext: ext,
		}
		if s.Loops {
			h.LoopFlag = 1
			h.LoopStart = uint32(codec.DspNibbleAddress(s.LoopStart))
			h.LoopEnd = uint32(codec.DspNibbleAddress(s.LoopEnd))
			h.ctx = d.ContextForLoop(s.LoopStart)
		}
		if err := writeHeader(w, h); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
	}

	if !extended {
		return s.Channels[0].WriteData(w)
	}
	blockSamples := blockSize / codec.DspFrameSize * codec.DspFrameSamples
	return codec.WriteInterleaved(w, s.Channels, blockSize, blockSamples)
}
