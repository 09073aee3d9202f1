// ABOUTME: Sound channel set shared by every container
// ABOUTME: Encoding changes, mono/stereo mixing and PCM views of a multi-channel sound
package soundfile

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/mix"
)

var (
	// ErrUnsupportedFormat is returned when a container cannot store or parse a sound
	ErrUnsupportedFormat = errors.New("soundfile: unsupported format")

	// ErrChannelMismatch is returned when channels of a sound disagree
	ErrChannelMismatch = mix.ErrChannelMismatch
)

// Sound is a channel set with its playback metadata.
// Loop points are sample indices.
type Sound struct {
	SampleRate int
	Loops      bool
	LoopStart  int
	LoopEnd    int
	Channels   []codec.Codec
}

// NumSamples returns the per-channel sample count
func (s *Sound) NumSamples() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return s.Channels[0].NumSamples()
}

// Encoding returns the encoding of the channels
func (s *Sound) Encoding() (audio.Encoding, bool) {
	if len(s.Channels) == 0 {
		return "", false
	}
	return s.Channels[0].Encoding(), true
}

// Validate checks that every channel shares one encoding and length
func (s *Sound) Validate() error {
	if len(s.Channels) == 0 {
		return fmt.Errorf("%w: sound has no channels", ErrChannelMismatch)
	}
	enc, n := s.Channels[0].Encoding(), s.Channels[0].NumSamples()
	for i, c := range s.Channels[1:] {
		if c.Encoding() != enc {
			return fmt.Errorf("%w: channel %d is %s, channel 0 is %s", ErrChannelMismatch, i+1, c.Encoding(), enc)
		}
		if c.NumSamples() != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelMismatch, i+1, c.NumSamples(), n)
		}
	}
	if s.Loops && (s.LoopStart < 0 || s.LoopStart > s.LoopEnd || s.LoopEnd > n) {
		return fmt.Errorf("loop %d-%d outside %d samples", s.LoopStart, s.LoopEnd, n)
	}
	return nil
}

func (s *Sound) convertOptions() []codec.ConvertOption {
	if !s.Loops {
		return nil
	}
	return []codec.ConvertOption{codec.WithLoopStart(s.LoopStart)}
}

// ChangeEncoding re-encodes every channel to enc. Nothing happens when the
// sound already uses enc.
func (s *Sound) ChangeEncoding(enc audio.Encoding) error {
	if cur, ok := s.Encoding(); ok && cur == enc {
		return nil
	}
	channels, err := codec.Convert(enc, s.Channels, s.convertOptions()...)
	if err != nil {
		return fmt.Errorf("failed to convert to %s: %w", enc, err)
	}
	s.Channels = channels
	return nil
}

// MixToMono replaces the channels with their PCM16 mono downmix. A mono
// sound is left as it is.
func (s *Sound) MixToMono() error {
	if len(s.Channels) == 1 {
		return nil
	}
	mono, err := mix.ToMono(s.Channels)
	if err != nil {
		return err
	}
	s.Channels = []codec.Codec{mono}
	return nil
}

// MixToStereo replaces the channels with a PCM16 stereo downmix.
// mutes may be nil.
func (s *Sound) MixToStereo(mutes []bool) error {
	stereo, err := mix.ToStereo(s.Channels, mutes)
	if err != nil {
		return err
	}
	s.Channels = []codec.Codec{stereo[0], stereo[1]}
	return nil
}

// PCM decodes every channel
func (s *Sound) PCM() *audio.PCM {
	p := &audio.PCM{SampleRate: s.SampleRate, Channels: make([][]int16, len(s.Channels))}
	for i, c := range s.Channels {
		p.Channels[i] = c.ToSamples()
	}
	return p
}

// FromPCM builds a PCM16 sound from decoded channels
func FromPCM(p *audio.PCM) *Sound {
	s := &Sound{SampleRate: p.SampleRate, Channels: make([]codec.Codec, len(p.Channels))}
	for i, ch := range p.Channels {
		s.Channels[i] = codec.NewPCM16(ch)
	}
	return s
}
