// ABOUTME: Tests for the Sound channel set and container conversion
// ABOUTME: Covers validation, encoding changes, mixing and target encoding selection
package soundfile

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
)

// memContainer is a container that keeps its sound in memory
type memContainer struct {
	sound     Sound
	supported []audio.Encoding
	preferred audio.Encoding
	converted bool
}

func (m *memContainer) Name() string                         { return "MEM" }
func (m *memContainer) Extensions() []string                 { return []string{"mem"} }
func (m *memContainer) SupportedEncodings() []audio.Encoding { return m.supported }
func (m *memContainer) Read(r io.Reader) error               { return nil }
func (m *memContainer) Write(w io.Writer) error              { return nil }
func (m *memContainer) Sound() *Sound                        { return &m.sound }
func (m *memContainer) OnConversion()                        { m.converted = true }

func (m *memContainer) PreferredEncoding() (audio.Encoding, bool) {
	return m.preferred, m.preferred != ""
}

func tone(n int, period float64) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(math.Round(9000 * math.Sin(2*math.Pi*float64(i)/period)))
	}
	return s
}

func stereoSound() *Sound {
	return &Sound{
		SampleRate: 32000,
		Channels:   []codec.Codec{codec.NewPCM16(tone(300, 30)), codec.NewPCM16(tone(300, 45))},
	}
}

func TestSoundValidate(t *testing.T) {
	s := stereoSound()
	require.NoError(t, s.Validate())

	s.Loops, s.LoopStart, s.LoopEnd = true, 10, 400
	assert.Error(t, s.Validate())

	s.Loops = false
	s.Channels = append(s.Channels, codec.NewPCM16(tone(10, 5)))
	assert.ErrorIs(t, s.Validate(), ErrChannelMismatch)

	assert.ErrorIs(t, (&Sound{}).Validate(), ErrChannelMismatch)
}

func TestSoundChangeEncoding(t *testing.T) {
	s := stereoSound()
	s.Loops, s.LoopStart, s.LoopEnd = true, 100, 300

	require.NoError(t, s.ChangeEncoding(audio.EncodingDspAdpcm))
	enc, ok := s.Encoding()
	require.True(t, ok)
	assert.Equal(t, audio.EncodingDspAdpcm, enc)
	assert.Equal(t, 300, s.NumSamples())

	d := s.Channels[0].(*codec.DspAdpcm)
	assert.True(t, d.Context.HasLoopHistory)
	assert.Equal(t, 100, d.LoopStart)

	assert.Error(t, s.ChangeEncoding("vorbis"))
}

func TestSoundMixing(t *testing.T) {
	s := stereoSound()
	require.NoError(t, s.MixToMono())
	assert.Len(t, s.Channels, 1)

	require.NoError(t, s.MixToStereo(nil))
	require.Len(t, s.Channels, 2)
	assert.Equal(t, s.Channels[0].ToSamples(), s.Channels[1].ToSamples())
}

func TestSoundMixToMonoKeepsMonoSound(t *testing.T) {
	s := &Sound{SampleRate: 32000, Channels: []codec.Codec{codec.NewPCM16([]int16{10000, -20000})}}
	require.NoError(t, s.ChangeEncoding(audio.EncodingPCM8))
	before := s.Channels[0]

	require.NoError(t, s.MixToMono())
	require.Len(t, s.Channels, 1)
	assert.Same(t, before, s.Channels[0])
	assert.Equal(t, []int16{9984, -20224}, s.Channels[0].ToSamples())
}

func TestSoundPCMRoundTrip(t *testing.T) {
	s := stereoSound()
	p := s.PCM()
	assert.Equal(t, 32000, p.SampleRate)
	assert.Equal(t, 300, p.NumSamples())

	back := FromPCM(p)
	assert.Equal(t, s.Channels[1].ToSamples(), back.Channels[1].ToSamples())
}

func TestTargetEncoding(t *testing.T) {
	src := stereoSound()
	tests := []struct {
		name string
		dst  *memContainer
		want audio.Encoding
	}{
		{"preferred wins", &memContainer{supported: []audio.Encoding{audio.EncodingPCM16, audio.EncodingDspAdpcm}, preferred: audio.EncodingDspAdpcm}, audio.EncodingDspAdpcm},
		{"source kept when supported", &memContainer{supported: []audio.Encoding{audio.EncodingPCM8, audio.EncodingPCM16}}, audio.EncodingPCM16},
		{"first supported fallback", &memContainer{supported: []audio.Encoding{audio.EncodingImaAdpcm, audio.EncodingPCM8}}, audio.EncodingImaAdpcm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetEncoding(tt.dst, src))
		})
	}
}

func TestConvertFrom(t *testing.T) {
	src := stereoSound()
	src.Loops, src.LoopStart, src.LoopEnd = true, 20, 280
	dst := &memContainer{supported: []audio.Encoding{audio.EncodingPCM8}}

	require.NoError(t, ConvertFrom(dst, src))
	assert.True(t, dst.converted)

	got := dst.Sound()
	enc, _ := got.Encoding()
	assert.Equal(t, audio.EncodingPCM8, enc)
	assert.Equal(t, 32000, got.SampleRate)
	assert.Equal(t, 20, got.LoopStart)
	assert.Equal(t, 280, got.LoopEnd)

	srcEnc, _ := src.Encoding()
	assert.Equal(t, audio.EncodingPCM16, srcEnc, "source must not change")
}

func TestConvertToUnsupported(t *testing.T) {
	dst := &memContainer{supported: []audio.Encoding{audio.EncodingPCM16}}
	err := ConvertTo(dst, stereoSound(), audio.EncodingDspAdpcm)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLookupUnknownExtension(t *testing.T) {
	_, err := Lookup(".nope")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
