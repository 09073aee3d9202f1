// ABOUTME: Tests for codec construction and channel-set conversion
// ABOUTME: Covers New by encoding tag, Convert between encodings and PCM16 normalization
package codec

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

func TestNew(t *testing.T) {
	for _, enc := range audio.Encodings {
		t.Run(string(enc), func(t *testing.T) {
			c, err := New(enc)
			if err != nil {
				t.Fatalf("New(%s): %v", enc, err)
			}
			if c.Encoding() != enc {
				t.Errorf("expected %s, got %s", enc, c.Encoding())
			}
			if c.NumSamples() != 0 || c.DataSize() != 0 {
				t.Error("new codec is not empty")
			}
		})
	}

	if _, err := New("vorbis"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestConvert(t *testing.T) {
	left := make([]int16, 500)
	right := make([]int16, 500)
	for i := range left {
		left[i] = int16(i * 40)
		right[i] = int16(-i * 40)
	}
	src := []Codec{NewPCM16(left), NewPCM16(right)}

	tests := []struct {
		name string
		enc  audio.Encoding
	}{
		{"to pcm8", audio.EncodingPCM8},
		{"to ima", audio.EncodingImaAdpcm},
		{"to blocked ima", audio.EncodingBlockedImaAdpcm},
		{"to dsp", audio.EncodingDspAdpcm},
		{"same encoding", audio.EncodingPCM16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Convert(tt.enc, src)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if len(out) != len(src) {
				t.Fatalf("expected %d channels, got %d", len(src), len(out))
			}
			for i, c := range out {
				if c.Encoding() != tt.enc {
					t.Errorf("channel %d: expected %s, got %s", i, tt.enc, c.Encoding())
				}
				if c.NumSamples() != src[i].NumSamples() {
					t.Errorf("channel %d: expected %d samples, got %d", i, src[i].NumSamples(), c.NumSamples())
				}
			}
		})
	}
}

func TestConvertSameEncodingCopies(t *testing.T) {
	src := []Codec{NewPCM16([]int16{1, 2, 3})}
	out, err := Convert(audio.EncodingPCM16, src)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	out[0].Data()[0] = 0xFF
	if src[0].Data()[0] == 0xFF {
		t.Error("converted channel shares its buffer with the source")
	}
}

func TestConvertCapturesLoopHistory(t *testing.T) {
	samples := dspSine(400)
	out, err := Convert(audio.EncodingDspAdpcm, []Codec{NewPCM16(samples)}, WithLoopStart(200))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	d := out[0].(*DspAdpcm)
	if !d.Context.HasLoopHistory || d.LoopStart != 200 {
		t.Fatalf("loop not recorded: %+v", d.Context)
	}
	if d.Context.LoopYn1 != samples[199] || d.Context.LoopYn2 != samples[198] {
		t.Errorf("loop history (%d, %d), want (%d, %d)", d.Context.LoopYn1, d.Context.LoopYn2, samples[199], samples[198])
	}

	// re-looping an already encoded channel keeps its frames and context
	again, err := Convert(audio.EncodingDspAdpcm, out, WithLoopStart(100))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	d2 := again[0].(*DspAdpcm)
	if d2.Context.Coefs != d.Context.Coefs || d2.DataSize() != d.DataSize() {
		t.Error("same-encoding conversion re-encoded the channel")
	}
	decoded := d.ToSamples()
	if d2.Context.LoopYn1 != decoded[99] || d2.Context.LoopYn2 != decoded[98] {
		t.Error("loop history not taken from the decoded stream")
	}
}

func TestToPCM16(t *testing.T) {
	p := NewPCM16([]int16{5})
	eight := &PCM8{}
	eight.FromSamples([]int16{0x1200})

	out := ToPCM16([]Codec{p, eight})
	if out[0] != p {
		t.Error("PCM16 channel should pass through")
	}
	if got := out[1].ToSamples()[0]; got != 0x1200 {
		t.Errorf("expected 0x1200, got %#x", got)
	}
}
