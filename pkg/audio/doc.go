// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Encoding, Format and PCM types and sample conversion functions
// Package audio provides the types shared by the codec, mixer and container packages.
//
// This package defines:
//   - Encoding: the closed set of on-disk sample encodings (PCM16, PCM8,
//     signed PCM8, IMA-ADPCM, blocked IMA-ADPCM, DSP-ADPCM)
//   - Format: sample rate, channel count and bit depth of headerless PCM
//   - PCM: decoded 16-bit audio held as one slice per channel
//
// It also provides sample conversion helpers:
//   - 16-bit ↔ 24-bit conversions and bit-depth normalization
//   - interleave / deinterleave of channel sets
//
// Example:
//
//	enc, err := audio.ParseEncoding("dsp-adpcm")
//	pcm := &audio.PCM{SampleRate: 32000, Channels: audio.Deinterleave(samples, 2)}
package audio
