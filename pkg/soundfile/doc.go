// ABOUTME: Sound container package
// ABOUTME: Defines the Container contract, the Sound channel set and conversion between containers
// Package soundfile reads and writes streamed sound containers.
//
// A Container stores a Sound: a sample rate, an optional loop and one codec
// per channel. Containers declare which encodings they can store; converting
// a sound into a container picks the container's preferred encoding, keeps
// the source encoding when the container supports it, and otherwise falls
// back to the first supported encoding.
//
// Container packages register themselves so Open and Lookup can find them
// by file extension:
//
//	import _ "github.com/Resonate-Protocol/soundio-go/pkg/soundfile/wav"
//
//	in, err := soundfile.Open("music.wav")
//	out, err := soundfile.Lookup("dsp")
//	err = soundfile.ConvertFrom(out, in.Sound())
//	err = soundfile.Create("music.dsp", out)
package soundfile
