// ABOUTME: Tests for the soundconv entry point
// ABOUTME: Checks exit codes and that failures reach the log file before returning
package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setFlags assigns command-line flags for one call to realMain
func setFlags(t *testing.T, values map[string]string) {
	t.Helper()
	savedArgs := os.Args
	os.Args = []string{"soundconv"}

	saved := map[string]string{}
	for name, value := range values {
		saved[name] = flag.Lookup(name).Value.String()
		require.NoError(t, flag.Set(name, value))
	}
	t.Cleanup(func() {
		os.Args = savedArgs
		for name, value := range saved {
			_ = flag.Set(name, value)
		}
	})
}

func TestRealMainFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "soundconv.log")
	setFlags(t, map[string]string{
		"in":       filepath.Join(dir, "missing.wav"),
		"out":      filepath.Join(dir, "out.dsp"),
		"log-file": logPath,
	})

	assert.Equal(t, 1, realMain())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "soundconv failed")
}

func TestRealMainSuccess(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tone.wav")
	setFlags(t, map[string]string{
		"tone":          "440",
		"tone-duration": "10ms",
		"out":           out,
		"log-file":      filepath.Join(dir, "soundconv.log"),
	})

	assert.Equal(t, 0, realMain())
	_, err := os.Stat(out)
	assert.NoError(t, err)
}
