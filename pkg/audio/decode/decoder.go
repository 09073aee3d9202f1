// ABOUTME: Decoder lookup by file extension
// ABOUTME: Maps input file extensions to whole-stream decoders
package decode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// Func decodes a complete stream into per-channel 16-bit samples
type Func func(r io.Reader) (*audio.PCM, error)

var decoders = map[string]Func{
	"mp3":  MP3,
	"flac": FLAC,
}

// ForExtension returns the decoder for a file extension, with or without the dot
func ForExtension(ext string) (Func, bool) {
	dec, ok := decoders[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return dec, ok
}

// File decodes the file at path, choosing the decoder by extension
func File(path string) (*audio.PCM, error) {
	dec, ok := ForExtension(filepath.Ext(path))
	if !ok {
		return nil, fmt.Errorf("no decoder for %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	pcm, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return pcm, nil
}
