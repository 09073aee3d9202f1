// ABOUTME: Conversion pipeline behind the soundconv flags
// ABOUTME: Loads a sound, applies loop points and mixing, re-encodes, writes and plays it
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/decode"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/soundio-go/pkg/audio/output"
	"github.com/Resonate-Protocol/soundio-go/pkg/soundfile"
	_ "github.com/Resonate-Protocol/soundio-go/pkg/soundfile/dsp"
	_ "github.com/Resonate-Protocol/soundio-go/pkg/soundfile/wav"
	"go.uber.org/zap"
)

// playbackChunk is the number of frames handed to the device per write
const playbackChunk = 1024

// Config holds one soundconv invocation
type Config struct {
	Input       string
	Output      string
	Encoding    string
	Mix         string
	Mute        string
	LoopStart   int
	LoopEnd     int
	Play        bool
	Tone        float64
	ToneLength  time.Duration
	RawRate     int
	RawChannels int
	RawBits     int
}

func run(ctx context.Context, cfg Config, lg *zap.Logger) error {
	if cfg.Input == "" && cfg.Tone <= 0 {
		return errors.New("no input (-in or -tone)")
	}
	if cfg.Output == "" && !cfg.Play {
		return errors.New("nothing to do: give -out or -play")
	}

	sound, err := loadSound(cfg)
	if err != nil {
		return err
	}
	lg.Info("loaded sound",
		zap.String("in", inputName(cfg)),
		zap.Int("channels", len(sound.Channels)),
		zap.Int("samples", sound.NumSamples()),
		zap.Int("sample_rate", sound.SampleRate))

	if cfg.LoopStart >= 0 && cfg.LoopEnd >= 0 {
		sound.Loops = true
		sound.LoopStart = cfg.LoopStart
		sound.LoopEnd = cfg.LoopEnd
	}
	if err := sound.Validate(); err != nil {
		return err
	}

	if err := applyMix(sound, cfg, lg); err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := writeSound(sound, cfg, lg); err != nil {
			return err
		}
	}

	if cfg.Play {
		return playSound(ctx, sound, lg)
	}
	return nil
}

func inputName(cfg Config) string {
	if cfg.Input == "" {
		return fmt.Sprintf("tone:%gHz", cfg.Tone)
	}
	return cfg.Input
}

// loadSound reads containers through the registry and everything else through decode
func loadSound(cfg Config) (*soundfile.Sound, error) {
	if cfg.Input == "" {
		pcm, err := decode.Tone(cfg.Tone, cfg.RawRate, cfg.RawChannels, cfg.ToneLength)
		if err != nil {
			return nil, err
		}
		return soundfile.FromPCM(pcm), nil
	}

	if isRaw(cfg.Input) {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.Input, err)
		}
		defer f.Close()
		pcm, err := decode.Raw(f, audio.Format{
			SampleRate: cfg.RawRate,
			Channels:   cfg.RawChannels,
			BitDepth:   cfg.RawBits,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", cfg.Input, err)
		}
		return soundfile.FromPCM(pcm), nil
	}

	if _, ok := decode.ForExtension(filepath.Ext(cfg.Input)); ok {
		pcm, err := decode.File(cfg.Input)
		if err != nil {
			return nil, err
		}
		return soundfile.FromPCM(pcm), nil
	}

	c, err := soundfile.Open(cfg.Input)
	if err != nil {
		return nil, err
	}
	return c.Sound(), nil
}

func applyMix(sound *soundfile.Sound, cfg Config, lg *zap.Logger) error {
	switch strings.ToLower(cfg.Mix) {
	case "":
		if cfg.Mute != "" {
			return errors.New("-mute only applies to -mix stereo")
		}
		return nil
	case "mono":
		lg.Debug("mixing to mono", zap.Int("channels", len(sound.Channels)))
		return sound.MixToMono()
	case "stereo":
		mutes, err := parseMutes(cfg.Mute, len(sound.Channels))
		if err != nil {
			return err
		}
		lg.Debug("mixing to stereo", zap.Int("channels", len(sound.Channels)), zap.Bools("mutes", mutes))
		return sound.MixToStereo(mutes)
	}
	return fmt.Errorf("unknown mix mode %q (want mono or stereo)", cfg.Mix)
}

// parseMutes turns "0,3" into a per-channel mute mask
func parseMutes(list string, channels int) ([]bool, error) {
	mutes := make([]bool, channels)
	if strings.TrimSpace(list) == "" {
		return mutes, nil
	}
	for _, field := range strings.Split(list, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid channel index %q: %w", field, err)
		}
		if idx < 0 || idx >= channels {
			return nil, fmt.Errorf("channel index %d outside 0-%d", idx, channels-1)
		}
		mutes[idx] = true
	}
	return mutes, nil
}

func isRaw(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".raw" || ext == ".pcm"
}

func writeRaw(sound *soundfile.Sound, cfg Config, lg *zap.Logger) (err error) {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Output, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", cfg.Output, cerr)
		}
	}()

	if err := encode.Raw(f, sound.PCM(), cfg.RawBits); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Output, err)
	}
	lg.Info("wrote raw pcm", zap.String("out", cfg.Output), zap.Int("bits", cfg.RawBits))
	return nil
}

func writeSound(sound *soundfile.Sound, cfg Config, lg *zap.Logger) error {
	if isRaw(cfg.Output) {
		return writeRaw(sound, cfg, lg)
	}

	dst, err := soundfile.Lookup(filepath.Ext(cfg.Output))
	if err != nil {
		return err
	}

	if cfg.Encoding == "" {
		err = soundfile.ConvertFrom(dst, sound)
	} else {
		enc, perr := audio.ParseEncoding(cfg.Encoding)
		if perr != nil {
			return perr
		}
		err = soundfile.ConvertTo(dst, sound, enc)
	}
	if err != nil {
		return err
	}

	if err := soundfile.Create(cfg.Output, dst); err != nil {
		return err
	}

	enc, _ := dst.Sound().Encoding()
	lg.Info("wrote sound",
		zap.String("out", cfg.Output),
		zap.String("container", dst.Name()),
		zap.String("encoding", string(enc)))
	return nil
}

func playSound(ctx context.Context, sound *soundfile.Sound, lg *zap.Logger) error {
	pcm := sound.PCM()

	out := output.NewOto()
	if err := out.Open(pcm.SampleRate, len(pcm.Channels)); err != nil {
		return err
	}
	defer out.Close()

	lg.Info("playing", zap.Bool("loops", sound.Loops))
	r := output.NewLoopReader(pcm.Channels, sound.LoopStart, sound.LoopEnd, sound.Loops)
	err := output.Stream(ctx, out, r, playbackChunk)
	if errors.Is(err, context.Canceled) {
		lg.Info("playback stopped")
		return nil
	}
	return err
}
