// ABOUTME: Tests for the PCM codecs
// ABOUTME: Covers PCM16 round trips, 8-bit truncation bounds and SignedPCM8's missing block framing
package codec

import (
	"errors"
	"math"
	"testing"
)

func allInt16Samples() []int16 {
	samples := make([]int16, 0, 1<<16)
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		samples = append(samples, int16(v))
	}
	return samples
}

func TestPCM16RoundTrip(t *testing.T) {
	samples := allInt16Samples()
	p := NewPCM16(samples)

	if p.DataSize() != 2*len(samples) {
		t.Errorf("expected %d bytes, got %d", 2*len(samples), p.DataSize())
	}

	got := p.ToSamples()
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, samples[i], got[i])
		}
	}
}

func TestPCM16LittleEndian(t *testing.T) {
	p := NewPCM16([]int16{0x0102, -2})
	want := []byte{0x02, 0x01, 0xFE, 0xFF}
	for i, b := range want {
		if p.Data()[i] != b {
			t.Errorf("byte %d: expected %#x, got %#x", i, b, p.Data()[i])
		}
	}
}

func TestEightBitRoundTripBound(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
	}{
		{"unsigned", &PCM8{}},
		{"signed", &SignedPCM8{}},
	}

	samples := allInt16Samples()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.codec.FromSamples(samples)
			if tt.codec.DataSize() != len(samples) {
				t.Errorf("expected %d bytes, got %d", len(samples), tt.codec.DataSize())
			}
			got := tt.codec.ToSamples()
			for i, s := range samples {
				diff := int(s) - int(got[i])
				if diff < 0 || diff >= 256 {
					t.Fatalf("sample %d: %d decoded as %d", i, s, got[i])
				}
			}
		})
	}
}

func TestPCM8Bias(t *testing.T) {
	p := &PCM8{}
	p.FromSamples([]int16{-32768, 0, 32767})
	want := []byte{0, 128, 255}
	for i, b := range want {
		if p.Data()[i] != b {
			t.Errorf("byte %d: expected %d, got %d", i, b, p.Data()[i])
		}
	}

	signed := p.ToSignedPCM8()
	if signed[0] != -128 || signed[1] != 0 || signed[2] != 127 {
		t.Errorf("unexpected signed view %v", signed)
	}
}

func TestSignedPCM8ToPCM8(t *testing.T) {
	s := &SignedPCM8{}
	s.FromSamples([]int16{-32768, 0, 32767})
	got := s.ToPCM8()
	want := []byte{0, 128, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestSignedPCM8BlockOperationsPanic(t *testing.T) {
	ops := map[string]func(*SignedPCM8){
		"InitFromBlocks":   func(p *SignedPCM8) { p.InitFromBlocks(1, 1, 1, 1, 1) },
		"NumBlocks":        func(p *SignedPCM8) { p.NumBlocks(1, 1) },
		"LastBlockSize":    func(p *SignedPCM8) { p.LastBlockSize(1, 1) },
		"LastBlockSamples": func(p *SignedPCM8) { p.LastBlockSamples(1, 1) },
		"ReadBlock":        func(p *SignedPCM8) { _ = p.ReadBlock(nil, 0, 1, 1) },
		"WriteBlock":       func(p *SignedPCM8) { _ = p.WriteBlock(nil, 0, 1, 1) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrUnsupportedOperation) {
					t.Errorf("expected ErrUnsupportedOperation panic, got %v", r)
				}
			}()
			p := &SignedPCM8{}
			p.FromSamples([]int16{1, 2, 3})
			op(p)
		})
	}
}
