// ABOUTME: Entry point for the soundconv tool
// ABOUTME: Parses CLI flags and converts, mixes or plays a sound file
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/soundio-go/internal/logger"
	"github.com/Resonate-Protocol/soundio-go/internal/version"
	"go.uber.org/zap"
)

var (
	inFile      = flag.String("in", "", "Input file (WAV, DSP, MP3, FLAC, or raw PCM with -raw-*)")
	outFile     = flag.String("out", "", "Output file; the extension selects the container (.raw/.pcm writes headerless PCM)")
	encoding    = flag.String("encoding", "", "Target encoding (pcm16|pcm8|ima|blocked-ima|dsp-adpcm); default is the container's choice")
	mixMode     = flag.String("mix", "", "Downmix channels: mono or stereo")
	mute        = flag.String("mute", "", "Comma-separated channel indices to drop from a stereo mix")
	loopStart   = flag.Int("loop-start", -1, "Loop start sample; enables looping together with -loop-end")
	loopEnd     = flag.Int("loop-end", -1, "Loop end sample")
	play        = flag.Bool("play", false, "Play the result through the default audio device")
	tone        = flag.Float64("tone", 0, "Use a sine test tone of this frequency (Hz) instead of -in")
	toneLength  = flag.Duration("tone-duration", time.Second, "Length of the -tone input")
	rawRate     = flag.Int("raw-rate", 32000, "Sample rate of raw PCM or tone input")
	rawChannels = flag.Int("raw-channels", 1, "Channel count of raw PCM or tone input")
	rawBits     = flag.Int("raw-bits", 16, "Bit depth of raw PCM input and output (8, 16, 24)")
	logFile     = flag.String("log-file", "", "Log file path (JSON, rotated)")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit status so deferred log flushing runs before exit
func realMain() int {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return 0
	}

	logCfg := logger.DefaultConfig()
	logCfg.Filename = *logFile
	logCfg.Development = *debug
	if *debug {
		logCfg.Level = "debug"
	}
	lg, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer lg.Sync()

	config := Config{
		Input:       *inFile,
		Output:      *outFile,
		Encoding:    *encoding,
		Mix:         *mixMode,
		Mute:        *mute,
		LoopStart:   *loopStart,
		LoopEnd:     *loopEnd,
		Play:        *play,
		Tone:        *tone,
		ToneLength:  *toneLength,
		RawRate:     *rawRate,
		RawChannels: *rawChannels,
		RawBits:     *rawBits,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, lg); err != nil {
		lg.Error("soundconv failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "soundconv: %v\n", err)
		return 1
	}
	return 0
}
