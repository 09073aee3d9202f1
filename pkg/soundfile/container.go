// ABOUTME: Container contract and registry
// ABOUTME: Looks containers up by extension and converts sounds between them
package soundfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// Container is a file format that stores one Sound
type Container interface {
	// Name returns a short display name
	Name() string

	// Extensions returns the lower-case file extensions without the dot
	Extensions() []string

	// SupportedEncodings lists the encodings the format can store
	SupportedEncodings() []audio.Encoding

	// PreferredEncoding returns the encoding conversions should target, if any
	PreferredEncoding() (audio.Encoding, bool)

	// Read parses the container, replacing its sound
	Read(r io.Reader) error

	// Write serializes the sound
	Write(w io.Writer) error

	// Sound returns the stored sound. Callers may modify it in place.
	Sound() *Sound
}

// ConversionHook is implemented by containers that adjust their own settings
// after a sound is converted into them
type ConversionHook interface {
	OnConversion()
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Container{}
)

// Register makes a container available to Lookup under all its extensions
func Register(factory func() Container) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, ext := range factory().Extensions() {
		registry[strings.ToLower(ext)] = factory
	}
}

// Lookup creates an empty container for a file extension, with or without the dot
func Lookup(ext string) (Container, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	registryMu.RLock()
	factory, ok := registry[ext]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no container for extension %q", ErrUnsupportedFormat, ext)
	}
	return factory(), nil
}

// Open reads a container file, choosing the format from the extension
func Open(path string) (Container, error) {
	c, err := Lookup(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Read(f); err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", c.Name(), path, err)
	}
	return c, nil
}

// Create writes a container to a new file
func Create(path string, c Container) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := c.Write(f); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", c.Name(), path, err)
	}
	return nil
}

// TargetEncoding picks the encoding src should take inside dst: the
// preferred encoding, else src's own encoding when dst supports it, else
// dst's first supported encoding
func TargetEncoding(dst Container, src *Sound) audio.Encoding {
	if enc, ok := dst.PreferredEncoding(); ok {
		return enc
	}
	supported := dst.SupportedEncodings()
	if enc, ok := src.Encoding(); ok && slices.Contains(supported, enc) {
		return enc
	}
	return supported[0]
}

// ConvertFrom stores src in dst using TargetEncoding
func ConvertFrom(dst Container, src *Sound) error {
	return ConvertTo(dst, src, TargetEncoding(dst, src))
}

// ConvertTo stores src in dst with an explicit encoding. src is not modified.
func ConvertTo(dst Container, src *Sound, enc audio.Encoding) error {
	if !slices.Contains(dst.SupportedEncodings(), enc) {
		return fmt.Errorf("%w: %s cannot store %s", ErrUnsupportedFormat, dst.Name(), enc)
	}

	converted := Sound{
		SampleRate: src.SampleRate,
		Loops:      src.Loops,
		LoopStart:  src.LoopStart,
		LoopEnd:    src.LoopEnd,
		Channels:   src.Channels,
	}
	if cur, ok := src.Encoding(); !ok || cur != enc {
		if err := converted.ChangeEncoding(enc); err != nil {
			return err
		}
	}

	*dst.Sound() = converted
	if hook, ok := dst.(ConversionHook); ok {
		hook.OnConversion()
	}
	return nil
}
