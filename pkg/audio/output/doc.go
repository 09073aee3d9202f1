// ABOUTME: Audio output package for playing decoded sounds
// ABOUTME: Provides the Output interface, the oto backend and a loop-aware sample reader
// Package output plays 16-bit PCM through the system audio device.
//
// LoopReader walks a set of channels as interleaved frames, jumping back to
// the loop start whenever it reaches the loop end. Stream copies frames
// from a LoopReader into an Output until the sound ends or the context is
// cancelled.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(32000, 2)
//	r := output.NewLoopReader(channels, loopStart, loopEnd, true)
//	err = output.Stream(ctx, out, r, 1024)
package output
