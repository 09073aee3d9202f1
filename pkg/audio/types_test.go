// ABOUTME: Tests for audio types
// ABOUTME: Tests encodings, channel interleaving and sample conversion functions
package audio

import "testing"

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
		{"above range saturates", Max24Bit + 1, [3]byte{0xFF, 0xFF, 0x7F}},
		{"below range saturates", Min24Bit - 1000, [3]byte{0x00, 0x00, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleTo24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	// Test that 16-bit samples survive round-trip conversion
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		sample32 := SampleFromInt16(original)
		result := NormalizeToInt16(sample32, 24)
		if result != original {
			t.Errorf("round-trip failed: %d -> %d -> %d", original, sample32, result)
		}
	}
}

func TestRoundTrip24Bit(t *testing.T) {
	// Test that 24-bit samples survive round-trip conversion
	samples := []int32{0, 100000, -100000, Max24Bit, Min24Bit}

	for _, original := range samples {
		bytes := SampleTo24Bit(original)
		result := SampleFrom24Bit(bytes)
		// Mask to 24-bit for comparison
		expected := original & 0xFFFFFF
		if expected&0x800000 != 0 {
			expected |= ^0xFFFFFF
		}
		if result != expected {
			t.Errorf("round-trip failed: %d -> %v -> %d (expected %d)", original, bytes, result, expected)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Encoding
		wantErr  bool
	}{
		{"pcm16", "pcm16", EncodingPCM16, false},
		{"pcm alias", "PCM", EncodingPCM16, false},
		{"unsigned 8", "u8", EncodingPCM8, false},
		{"signed 8", "pcm8s", EncodingSignedPCM8, false},
		{"ima", "ima", EncodingImaAdpcm, false},
		{"blocked ima", "blocked-ima", EncodingBlockedImaAdpcm, false},
		{"dsp", " dsp-adpcm ", EncodingDspAdpcm, false},
		{"unknown", "opus", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseEncoding(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	interleaved := []int16{1, -1, 2, -2, 3, -3}

	channels := Deinterleave(interleaved, 2)
	if len(channels) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(channels))
	}
	if channels[0][2] != 3 || channels[1][2] != -3 {
		t.Errorf("unexpected deinterleave result: %v", channels)
	}

	result := Interleave(channels)
	for i := range interleaved {
		if result[i] != interleaved[i] {
			t.Fatalf("round-trip failed at %d: %d != %d", i, result[i], interleaved[i])
		}
	}
}

func TestDeinterleaveDropsPartialFrame(t *testing.T) {
	channels := Deinterleave([]int16{1, 2, 3}, 2)
	if len(channels[0]) != 1 || len(channels[1]) != 1 {
		t.Errorf("expected one frame per channel, got %v", channels)
	}
}

func TestClampInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"in range", 1234, 1234},
		{"overflow", 40000, 32767},
		{"underflow", -40000, -32768},
		{"min", -32768, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ClampInt16(tt.input); result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestNormalizeToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		bitDepth int
		expected int16
	}{
		{"16-bit passthrough", -1234, 16, -1234},
		{"24-bit max", Max24Bit, 24, 32767},
		{"24-bit min", Min24Bit, 24, -32768},
		{"8-bit", -128, 8, -32768},
		{"invalid depth", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := NormalizeToInt16(tt.input, tt.bitDepth); result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}
