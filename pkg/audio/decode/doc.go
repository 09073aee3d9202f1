// ABOUTME: Compressed and raw audio import package
// ABOUTME: Turns MP3, FLAC and headerless PCM streams into 16-bit channel sets
// Package decode imports audio that has no container implementation of its
// own. Every decoder reads the whole stream and returns an audio.PCM with
// one int16 slice per channel.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), raw little-endian PCM.
// Tone synthesizes a sine wave for testing conversions and playback.
//
// Example:
//
//	dec, ok := decode.ForExtension("flac")
//	pcm, err := dec(f)
package decode
