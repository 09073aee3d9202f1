// ABOUTME: DSP-ADPCM decoder context
// ABOUTME: Coefficient pairs, running history and the loop-history snapshot with big-endian serialization
package codec

import (
	"encoding/binary"
	"fmt"
)

// DspContextSize is the serialized size of a DspContext
const DspContextSize = 16*2 + 7*2

// History is the two most recent decoded samples
type History struct {
	Yn1 int16
	Yn2 int16
}

// DspContext holds everything a DSP-ADPCM decoder needs besides the data.
// Yn1/Yn2 seed the decoder; a decode pass copies them and never writes back.
// The loop fields are captured once at encode time and stay fixed after.
type DspContext struct {
	Coefs     [8][2]int16
	Gain      uint16
	PredScale uint16
	Yn1       int16
	Yn2       int16

	LoopPredScale uint16
	LoopYn1       int16
	LoopYn2       int16

	// HasLoopHistory reports whether the loop fields were captured. Zero loop
	// history is valid, so presence cannot be inferred from the values.
	HasLoopHistory bool
}

// History returns the decoder seed history
func (c *DspContext) History() History {
	return History{Yn1: c.Yn1, Yn2: c.Yn2}
}

// LoopHistory returns the history to reseed the decoder with at the loop point
func (c *DspContext) LoopHistory() History {
	return History{Yn1: c.LoopYn1, Yn2: c.LoopYn2}
}

// CopyLoop copies the loop snapshot from another context
func (c *DspContext) CopyLoop(other *DspContext) {
	c.LoopPredScale = other.LoopPredScale
	c.LoopYn1 = other.LoopYn1
	c.LoopYn2 = other.LoopYn2
	c.HasLoopHistory = other.HasLoopHistory
}

// FlatCoefs returns the 16 coefficients in file order
func (c *DspContext) FlatCoefs() [16]int16 {
	var out [16]int16
	for i, pair := range c.Coefs {
		out[i*2] = pair[0]
		out[i*2+1] = pair[1]
	}
	return out
}

// LoadCoefs sets the coefficient pairs from 16 values in file order
func (c *DspContext) LoadCoefs(flat [16]int16) {
	for i := range c.Coefs {
		c.Coefs[i] = [2]int16{flat[i*2], flat[i*2+1]}
	}
}

// MarshalBinary encodes the context in the big-endian DSP header layout
func (c *DspContext) MarshalBinary() ([]byte, error) {
	out := make([]byte, DspContextSize)
	for i, v := range c.FlatCoefs() {
		binary.BigEndian.PutUint16(out[i*2:], uint16(v))
	}
	tail := out[32:]
	binary.BigEndian.PutUint16(tail[0:], c.Gain)
	binary.BigEndian.PutUint16(tail[2:], c.PredScale)
	binary.BigEndian.PutUint16(tail[4:], uint16(c.Yn1))
	binary.BigEndian.PutUint16(tail[6:], uint16(c.Yn2))
	binary.BigEndian.PutUint16(tail[8:], c.LoopPredScale)
	binary.BigEndian.PutUint16(tail[10:], uint16(c.LoopYn1))
	binary.BigEndian.PutUint16(tail[12:], uint16(c.LoopYn2))
	return out, nil
}

// UnmarshalBinary decodes the big-endian DSP header layout. HasLoopHistory is
// left for the caller to set from the container's loop flag.
func (c *DspContext) UnmarshalBinary(data []byte) error {
	if len(data) < DspContextSize {
		return fmt.Errorf("dsp context needs %d bytes, got %d", DspContextSize, len(data))
	}
	var flat [16]int16
	for i := range flat {
		flat[i] = int16(binary.BigEndian.Uint16(data[i*2:]))
	}
	c.LoadCoefs(flat)
	tail := data[32:]
	c.Gain = binary.BigEndian.Uint16(tail[0:])
	c.PredScale = binary.BigEndian.Uint16(tail[2:])
	c.Yn1 = int16(binary.BigEndian.Uint16(tail[4:]))
	c.Yn2 = int16(binary.BigEndian.Uint16(tail[6:]))
	c.LoopPredScale = binary.BigEndian.Uint16(tail[8:])
	c.LoopYn1 = int16(binary.BigEndian.Uint16(tail[10:]))
	c.LoopYn2 = int16(binary.BigEndian.Uint16(tail[12:]))
	return nil
}
