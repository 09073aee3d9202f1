// ABOUTME: RIFF/WAV container implementation
// ABOUTME: Parses fmt, smpl and data chunks with go-riff and writes them back
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/youpy/go-riff"
	gowav "github.com/youpy/go-wav"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
	"github.com/Resonate-Protocol/soundio-go/pkg/soundfile"
)

const (
	fmtChunkSize = 16

	// smpl header plus a single loop record
	smplChunkSize = 9*4 + 6*4

	// MIDI unity note written with loops
	unityNote = 60
)

var (
	chunkFmt  = []byte("fmt ")
	chunkSmpl = []byte("smpl")
	chunkData = []byte("data")
	typeWave  = []byte("WAVE")
)

func init() {
	soundfile.Register(func() soundfile.Container { return New() })
}

// sampleChunk is the smpl chunk with one loop
type sampleChunk struct {
	Manufacturer      uint32
	Product           uint32
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	SamplerData       uint32

	CuePointID uint32
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

// File is a RIFF/WAV container
type File struct {
	sound soundfile.Sound
}

// New creates an empty WAV container
func New() *File {
	return &File{}
}

func (f *File) Name() string                              { return "WAV" }
func (f *File) Extensions() []string                      { return []string{"wav"} }
func (f *File) Sound() *soundfile.Sound                   { return &f.sound }
func (f *File) PreferredEncoding() (audio.Encoding, bool) { return "", false }

func (f *File) SupportedEncodings() []audio.Encoding {
	return []audio.Encoding{audio.EncodingPCM16, audio.EncodingPCM8}
}

// Read parses a wave file
func (f *File) Read(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read wave: %w", err)
	}

	chunk, err := riff.NewReader(bytes.NewReader(raw)).Read()
	if err != nil {
		return fmt.Errorf("%w: %v", soundfile.ErrUnsupportedFormat, err)
	}
	if !bytes.Equal(chunk.FileType, typeWave) {
		return fmt.Errorf("%w: RIFF type %q is not WAVE", soundfile.ErrUnsupportedFormat, chunk.FileType)
	}

	var format *gowav.WavFormat
	var smpl *sampleChunk
	var data *riff.Chunk
	for _, ch := range chunk.Chunks {
		switch {
		case bytes.Equal(ch.ChunkID, chunkFmt):
			format = &gowav.WavFormat{}
			if err := binary.Read(ch, binary.LittleEndian, format); err != nil {
				return fmt.Errorf("failed to read fmt chunk: %w", err)
			}
		case bytes.Equal(ch.ChunkID, chunkSmpl) && ch.ChunkSize >= smplChunkSize:
			smpl = &sampleChunk{}
			if err := binary.Read(ch, binary.LittleEndian, smpl); err != nil {
				return fmt.Errorf("failed to read smpl chunk: %w", err)
			}
		case bytes.Equal(ch.ChunkID, chunkData):
			data = ch
		}
	}

	if format == nil || data == nil {
		return fmt.Errorf("%w: missing fmt or data chunk", soundfile.ErrUnsupportedFormat)
	}
	if format.AudioFormat != gowav.AudioFormatPCM {
		return fmt.Errorf("%w: audio format %d is not PCM", soundfile.ErrUnsupportedFormat, format.AudioFormat)
	}
	if format.BitsPerSample != 8 && format.BitsPerSample != 16 {
		return fmt.Errorf("%w: %d bits per sample, only 8 and 16 are accepted", soundfile.ErrUnsupportedFormat, format.BitsPerSample)
	}
	if format.NumChannels == 0 {
		return fmt.Errorf("%w: no channels", soundfile.ErrUnsupportedFormat)
	}

	enc := audio.EncodingPCM16
	if format.BitsPerSample == 8 {
		enc = audio.EncodingPCM8
	}
	bytesPerSample := int(format.BitsPerSample / 8)
	numChannels := int(format.NumChannels)
	numSamples := int(data.ChunkSize) / numChannels / bytesPerSample

	channels := make([]codec.Codec, numChannels)
	for i := range channels {
		if channels[i], err = codec.New(enc); err != nil {
			return err
		}
	}
	if numSamples > 0 {
		g := codec.Geometry{
			BlockCount:       numSamples,
			BlockSize:        bytesPerSample,
			BlockSamples:     1,
			LastBlockSize:    bytesPerSample,
			LastBlockSamples: 1,
		}
		if err := codec.ReadInterleaved(data, channels, g); err != nil {
			return fmt.Errorf("failed to read samples: %w", err)
		}
	}

	f.sound = soundfile.Sound{
		SampleRate: int(format.SampleRate),
		Channels:   channels,
	}
	if smpl != nil && smpl.NumSampleLoops > 0 {
		f.sound.Loops = true
		f.sound.LoopStart = int(smpl.Start)
		f.sound.LoopEnd = int(smpl.End)
	}
	return nil
}

// Write serializes the sound as a wave file
func (f *File) Write(w io.Writer) error {
	s := &f.sound
	if err := s.Validate(); err != nil {
		return err
	}
	enc, _ := s.Encoding()
	bits := uint16(16)
	switch enc {
	case audio.EncodingPCM16:
	case audio.EncodingPCM8:
		bits = 8
	default:
		return fmt.Errorf("%w: WAV cannot store %s", soundfile.ErrUnsupportedFormat, enc)
	}

	numChannels := uint16(len(s.Channels))
	blockAlign := numChannels * bits / 8
	format := gowav.WavFormat{
		AudioFormat:   gowav.AudioFormatPCM,
		NumChannels:   numChannels,
		SampleRate:    uint32(s.SampleRate),
		ByteRate:      uint32(s.SampleRate) * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
	}

	dataSize := uint32(s.NumSamples()) * uint32(blockAlign)
	riffSize := uint32(4) + 8 + fmtChunkSize + 8 + dataSize + dataSize%2
	if s.Loops {
		riffSize += 8 + smplChunkSize
	}

	ew := &errWriter{w: w}
	rw := riff.NewWriter(ew, typeWave, riffSize)
	rw.WriteChunk(chunkFmt, fmtChunkSize, func(w io.Writer) {
		binary.Write(w, binary.LittleEndian, format)
	})
	if s.Loops {
		smpl := sampleChunk{
			MIDIUnityNote:  unityNote,
			NumSampleLoops: 1,
			Start:          uint32(s.LoopStart),
			End:            uint32(s.LoopEnd),
		}
		if s.SampleRate > 0 {
			smpl.SamplePeriod = uint32(1e9 / float64(s.SampleRate))
		}
		rw.WriteChunk(chunkSmpl, smplChunkSize, func(w io.Writer) {
			binary.Write(w, binary.LittleEndian, smpl)
		})
	}
	rw.WriteChunk(chunkData, dataSize, func(w io.Writer) {
		if s.NumSamples() > 0 {
			ew.record(codec.WriteInterleaved(w, s.Channels, int(bits/8), 1))
		}
		if dataSize%2 != 0 {
			w.Write([]byte{0})
		}
	})

	if ew.err != nil {
		return fmt.Errorf("failed to write wave: %w", ew.err)
	}
	return nil
}

// errWriter remembers the first write error so chunk callbacks need not
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.record(err)
	return n, err
}

func (e *errWriter) record(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}
