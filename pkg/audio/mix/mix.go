// ABOUTME: Mono and stereo downmix
// ABOUTME: Sums normalized channels with 0.707 headroom, parity routing and mute masks
package mix

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
)

const (
	// Headroom scales every summed output
	Headroom = 0.707

	// Summed levels are clamped to [minLevel, maxLevel] before rescaling.
	// maxLevel*32768 truncates to 32766, so a saturated mix peaks there.
	maxLevel = 0.9999694824
	minLevel = -1.0
)

var (
	// ErrNoChannels is returned for an empty channel set
	ErrNoChannels = errors.New("mix: no channels")

	// ErrChannelMismatch is returned when channels differ in length or the
	// mute mask does not match the channel count
	ErrChannelMismatch = errors.New("mix: channel mismatch")
)

// ToMono sums every channel into one. A single channel is already mono and
// comes back as PCM16 without scaling.
func ToMono(channels []codec.Codec) (*codec.PCM16, error) {
	pcm, n, err := normalize(channels)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 1 {
		return codec.NewPCM16(pcm[0].ToSamples()), nil
	}

	acc := make([]float64, n)
	for _, ch := range pcm {
		accumulate(acc, ch)
	}
	return codec.NewPCM16(render(acc)), nil
}

// ToStereo reduces channels to a left and right pair. One channel is
// duplicated without scaling and two channels pass through. Otherwise even
// channels sum to the left, odd channels to the right, and an odd last
// channel is centered. Muted channels are left out; mutes may be nil.
func ToStereo(channels []codec.Codec, mutes []bool) ([]*codec.PCM16, error) {
	pcm, n, err := normalize(channels)
	if err != nil {
		return nil, err
	}
	if mutes != nil && len(mutes) != len(channels) {
		return nil, fmt.Errorf("%w: %d mute flags for %d channels", ErrChannelMismatch, len(mutes), len(channels))
	}

	switch len(pcm) {
	case 1:
		return []*codec.PCM16{pcm[0], codec.NewPCM16(pcm[0].ToSamples())}, nil
	case 2:
		return []*codec.PCM16{pcm[0], pcm[1]}, nil
	}

	left := make([]float64, n)
	right := make([]float64, n)
	centered := len(pcm)%2 == 1
	for i, ch := range pcm {
		if mutes != nil && mutes[i] {
			continue
		}
		switch {
		case centered && i == len(pcm)-1:
			accumulate(left, ch)
			accumulate(right, ch)
		case i%2 == 0:
			accumulate(left, ch)
		default:
			accumulate(right, ch)
		}
	}
	return []*codec.PCM16{codec.NewPCM16(render(left)), codec.NewPCM16(render(right))}, nil
}

// normalize converts channels to PCM16 and checks they have equal lengths
func normalize(channels []codec.Codec) ([]*codec.PCM16, int, error) {
	if len(channels) == 0 {
		return nil, 0, ErrNoChannels
	}
	n := channels[0].NumSamples()
	for i, c := range channels[1:] {
		if c.NumSamples() != n {
			return nil, 0, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelMismatch, i+1, c.NumSamples(), n)
		}
	}
	return codec.ToPCM16(channels), n, nil
}

func accumulate(acc []float64, ch *codec.PCM16) {
	for i, s := range ch.ToSamples() {
		acc[i] += float64(s) / 32768
	}
}

func render(acc []float64) []int16 {
	out := make([]int16, len(acc))
	for i, v := range acc {
		v *= Headroom
		v = max(minLevel, min(maxLevel, v))
		out[i] = int16(v * 32768)
	}
	return out
}
