// ABOUTME: Audio type definitions
// ABOUTME: Defines encodings, formats, PCM channel sets and sample conversions
package audio

import (
	"fmt"
	"strings"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Encoding identifies one of the on-disk sample encodings
type Encoding string

const (
	EncodingPCM16           Encoding = "pcm16"
	EncodingPCM8            Encoding = "pcm8"
	EncodingSignedPCM8      Encoding = "pcm8s"
	EncodingImaAdpcm        Encoding = "ima-adpcm"
	EncodingBlockedImaAdpcm Encoding = "blocked-ima-adpcm"
	EncodingDspAdpcm        Encoding = "dsp-adpcm"
)

// Encodings lists every supported encoding
var Encodings = []Encoding{
	EncodingPCM16,
	EncodingPCM8,
	EncodingSignedPCM8,
	EncodingImaAdpcm,
	EncodingBlockedImaAdpcm,
	EncodingDspAdpcm,
}

// ParseEncoding resolves a user supplied encoding name
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pcm16", "pcm":
		return EncodingPCM16, nil
	case "pcm8", "u8":
		return EncodingPCM8, nil
	case "pcm8s", "s8":
		return EncodingSignedPCM8, nil
	case "ima", "ima-adpcm":
		return EncodingImaAdpcm, nil
	case "blocked-ima", "blocked-ima-adpcm":
		return EncodingBlockedImaAdpcm, nil
	case "dsp", "dsp-adpcm", "gc-adpcm":
		return EncodingDspAdpcm, nil
	}
	return "", fmt.Errorf("unknown encoding: %s", name)
}

// Format describes a headerless interleaved PCM stream
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// PCM holds decoded 16-bit audio, one slice per channel
type PCM struct {
	SampleRate int
	Channels   [][]int16
}

// NumSamples returns the per-channel sample count
func (p *PCM) NumSamples() int {
	if len(p.Channels) == 0 {
		return 0
	}
	return len(p.Channels[0])
}

// Deinterleave splits interleaved samples into per-channel slices.
// Trailing samples that do not fill a whole frame are dropped.
func Deinterleave(samples []int16, channels int) [][]int16 {
	if channels <= 0 {
		return nil
	}
	frames := len(samples) / channels
	out := make([][]int16, channels)
	for ch := range out {
		out[ch] = make([]int16, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out[ch][i] = samples[i*channels+ch]
		}
	}
	return out
}

// Interleave joins per-channel slices into one interleaved slice.
// All channels must have the same length.
func Interleave(channels [][]int16) []int16 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	out := make([]int16, frames*len(channels))
	for i := 0; i < frames; i++ {
		for ch := range channels {
			out[i*len(channels)+ch] = channels[ch][i]
		}
	}
	return out
}

// ClampInt16 saturates a 32-bit intermediate to the 16-bit sample range
func ClampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian).
// Values outside the 24-bit range saturate.
func SampleTo24Bit(sample int32) [3]byte {
	sample = max(Min24Bit, min(Max24Bit, sample))
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// NormalizeToInt16 folds a sample of the given bit depth into the 16-bit range
func NormalizeToInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return ClampInt16(sample)
	case bitDepth > 16:
		return ClampInt16(sample >> uint(bitDepth-16))
	case bitDepth > 0:
		return ClampInt16(sample << uint(16-bitDepth))
	}
	return 0
}
