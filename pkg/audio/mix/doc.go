// ABOUTME: Channel mixer package
// ABOUTME: Downmixes codec channel sets to mono or stereo PCM16
// Package mix recombines the channels of a sound.
//
// Every input channel is first normalized to PCM16. Summed channels are
// scaled by 1/sqrt(2) for headroom and clamped, so the output never leaves
// the 16-bit range whatever the input amplitudes.
//
// Example:
//
//	mono, err := mix.ToMono(channels)
//	stereo, err := mix.ToStereo(channels, []bool{false, false, true, false})
package mix
