// ABOUTME: Loop-aware PCM reader and streaming helper
// ABOUTME: Interleaves channels into frames and wraps at the loop end
package output

import (
	"context"
	"io"
)

// LoopReader yields interleaved frames from a channel set. When looping is
// enabled it jumps back to loopStart on reaching loopEnd and never ends.
type LoopReader struct {
	channels  [][]int16
	loopStart int
	loopEnd   int
	loops     bool
	pos       int
	pending   []byte
}

// NewLoopReader creates a reader over channels of equal length. Loop points
// are sample indices; loopEnd is exclusive and clamped to the sound length.
// A loop region that is empty or inverted disables looping.
func NewLoopReader(channels [][]int16, loopStart, loopEnd int, loops bool) *LoopReader {
	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}
	if loopEnd > n || loopEnd <= 0 {
		loopEnd = n
	}
	if loopStart < 0 || loopStart >= loopEnd {
		loops = false
	}
	return &LoopReader{
		channels:  channels,
		loopStart: loopStart,
		loopEnd:   loopEnd,
		loops:     loops,
	}
}

func (r *LoopReader) end() int {
	if r.loops {
		return r.loopEnd
	}
	if len(r.channels) == 0 {
		return 0
	}
	return len(r.channels[0])
}

// Position returns the index of the next frame
func (r *LoopReader) Position() int { return r.pos }

// Next returns up to frames interleaved frames, or nil once the sound has ended
func (r *LoopReader) Next(frames int) []int16 {
	if len(r.channels) == 0 || frames <= 0 {
		return nil
	}
	out := make([]int16, 0, frames*len(r.channels))
	for i := 0; i < frames; i++ {
		if r.pos >= r.end() {
			if !r.loops {
				break
			}
			r.pos = r.loopStart
		}
		for _, ch := range r.channels {
			out = append(out, ch[r.pos])
		}
		r.pos++
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Read implements io.Reader, producing signed 16-bit little-endian bytes
func (r *LoopReader) Read(p []byte) (int, error) {
	frameBytes := 2 * len(r.channels)
	if len(r.pending) == 0 && frameBytes > 0 {
		frames := len(p) / frameBytes
		if frames == 0 {
			frames = 1
		}
		r.pending = samplesToBytes(r.Next(frames))
	}
	if len(r.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Stream writes frames from r to out in chunks until the sound ends or
// ctx is cancelled.
func Stream(ctx context.Context, out Output, r *LoopReader, chunkFrames int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk := r.Next(chunkFrames)
		if chunk == nil {
			return nil
		}
		if err := out.Write(chunk); err != nil {
			return err
		}
	}
}
