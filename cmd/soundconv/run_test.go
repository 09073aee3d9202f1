// ABOUTME: Tests for the soundconv pipeline
// ABOUTME: Drives run with temp files for conversion, mixing, loops and raw input
package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/codec"
	"github.com/Resonate-Protocol/soundio-go/pkg/soundfile"
	"github.com/Resonate-Protocol/soundio-go/pkg/soundfile/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeWav(t *testing.T, channels ...[]int16) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f := wav.New()
	f.Sound().SampleRate = 22050
	for _, ch := range channels {
		f.Sound().Channels = append(f.Sound().Channels, codec.NewPCM16(ch))
	}
	require.NoError(t, soundfile.Create(path, f))
	return path
}

func ramp(n int, scale int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i%100) * scale
	}
	return out
}

func TestRunConvertsWavToDsp(t *testing.T) {
	in := writeWav(t, ramp(200, 100), ramp(200, -100))
	out := filepath.Join(t.TempDir(), "out.dsp")

	cfg := Config{Input: in, Output: out, LoopStart: 28, LoopEnd: 150}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	c, err := soundfile.Open(out)
	require.NoError(t, err)
	s := c.Sound()

	enc, ok := s.Encoding()
	require.True(t, ok)
	assert.Equal(t, audio.EncodingDspAdpcm, enc)
	assert.Len(t, s.Channels, 2)
	assert.Equal(t, 200, s.NumSamples())
	assert.Equal(t, 22050, s.SampleRate)
	assert.True(t, s.Loops)
	assert.Equal(t, 28, s.LoopStart)
}

func TestRunMixesToMonoWithExplicitEncoding(t *testing.T) {
	in := writeWav(t, ramp(64, 10), ramp(64, 10))
	out := filepath.Join(t.TempDir(), "mono.wav")

	cfg := Config{Input: in, Output: out, Mix: "mono", Encoding: "pcm8", LoopStart: -1, LoopEnd: -1}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	c, err := soundfile.Open(out)
	require.NoError(t, err)
	enc, _ := c.Sound().Encoding()
	assert.Equal(t, audio.EncodingPCM8, enc)
	assert.Len(t, c.Sound().Channels, 1)
}

func TestRunStereoMixWithMutes(t *testing.T) {
	in := writeWav(t, ramp(32, 1), ramp(32, 2), ramp(32, 3))
	out := filepath.Join(t.TempDir(), "stereo.wav")

	cfg := Config{Input: in, Output: out, Mix: "stereo", Mute: "1", LoopStart: -1, LoopEnd: -1}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	c, err := soundfile.Open(out)
	require.NoError(t, err)
	assert.Len(t, c.Sound().Channels, 2)
}

func TestRunRawInput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.raw")
	require.NoError(t, os.WriteFile(in, []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}, 0o644))
	out := filepath.Join(t.TempDir(), "out.wav")

	cfg := Config{Input: in, Output: out, LoopStart: -1, LoopEnd: -1, RawRate: 8000, RawChannels: 1, RawBits: 16}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	c, err := soundfile.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 8000, c.Sound().SampleRate)
	assert.Equal(t, []int16{1, 2, 3}, c.Sound().Channels[0].ToSamples())
}

func TestRunRawOutput(t *testing.T) {
	in := writeWav(t, []int16{1, -1}, []int16{256, 0})
	out := filepath.Join(t.TempDir(), "out.pcm")

	cfg := Config{Input: in, Output: out, LoopStart: -1, LoopEnd: -1, RawBits: 16}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x01, 0xFF, 0xFF, 0x00, 0x00}, data)
}

func TestRunToneInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tone.dsp")

	cfg := Config{
		Output:      out,
		Tone:        440,
		ToneLength:  100 * time.Millisecond,
		RawRate:     32000,
		RawChannels: 1,
		LoopStart:   0,
		LoopEnd:     3200,
	}
	require.NoError(t, run(context.Background(), cfg, zap.NewNop()))

	c, err := soundfile.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 3200, c.Sound().NumSamples())
	assert.Equal(t, 32000, c.Sound().SampleRate)
	assert.True(t, c.Sound().Loops)
}

func TestRunErrors(t *testing.T) {
	in := writeWav(t, ramp(16, 1))
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no input", Config{Output: filepath.Join(dir, "a.wav")}},
		{"nothing to do", Config{Input: in}},
		{"unknown output", Config{Input: in, Output: filepath.Join(dir, "a.ogg"), LoopStart: -1, LoopEnd: -1}},
		{"bad encoding", Config{Input: in, Output: filepath.Join(dir, "a.wav"), Encoding: "mulaw", LoopStart: -1, LoopEnd: -1}},
		{"unsupported encoding", Config{Input: in, Output: filepath.Join(dir, "a.wav"), Encoding: "ima", LoopStart: -1, LoopEnd: -1}},
		{"bad mix", Config{Input: in, Output: filepath.Join(dir, "a.wav"), Mix: "surround", LoopStart: -1, LoopEnd: -1}},
		{"mute without mix", Config{Input: in, Output: filepath.Join(dir, "a.wav"), Mute: "0", LoopStart: -1, LoopEnd: -1}},
		{"loop past end", Config{Input: in, Output: filepath.Join(dir, "a.wav"), LoopStart: 0, LoopEnd: 99}},
		{"missing input", Config{Input: filepath.Join(dir, "none.wav"), Output: filepath.Join(dir, "a.wav")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), tt.cfg, zap.NewNop()))
		})
	}
}

func TestParseMutes(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []bool
		wantErr bool
	}{
		{"empty", "", []bool{false, false, false}, false},
		{"single", "1", []bool{false, true, false}, false},
		{"spaces", " 0, 2 ", []bool{true, false, true}, false},
		{"out of range", "3", nil, true},
		{"negative", "-1", nil, true},
		{"not a number", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMutes(tt.list, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
