// ABOUTME: Test tone generator
// ABOUTME: Synthesizes a half-volume sine wave as a decoded sound
package decode

import (
	"fmt"
	"math"
	"time"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// Tone generates a sine wave at frequency Hz on every channel
func Tone(frequency float64, sampleRate, channels int, duration time.Duration) (*audio.PCM, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid tone format: %dHz %dch", sampleRate, channels)
	}
	if frequency <= 0 || frequency*2 > float64(sampleRate) {
		return nil, fmt.Errorf("tone frequency %.1fHz outside (0, %d]", frequency, sampleRate/2)
	}

	n := int(duration.Seconds() * float64(sampleRate))
	wave := make([]int16, n)
	for i := range wave {
		t := float64(i) / float64(sampleRate)
		wave[i] = int16(math.Sin(2*math.Pi*frequency*t) * 32767.0 * 0.5) // 50% volume
	}

	pcm := &audio.PCM{SampleRate: sampleRate, Channels: make([][]int16, channels)}
	for ch := range pcm.Channels {
		pcm.Channels[ch] = append([]int16(nil), wave...)
	}
	return pcm, nil
}
