// ABOUTME: IMA-ADPCM codec
// ABOUTME: Synchronized predictor/step-index encoder and decoder over self-headered streams
package codec

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/soundio-go/pkg/audio"
)

// imaHeaderSize is the initial predictor (int16) plus the step index (uint16)
const imaHeaderSize = 4

// ImaAdpcm is a single IMA-ADPCM stream: a 4-byte little-endian header
// followed by 4-bit codes, two per byte, high nibble first. The header
// predictor is the first sample of the stream.
type ImaAdpcm struct {
	buffer
}

func (c *ImaAdpcm) Encoding() audio.Encoding { return audio.EncodingImaAdpcm }

// ToSamples decodes the stream
func (c *ImaAdpcm) ToSamples() []int16 {
	samples := make([]int16, c.numSamples)
	decodeIma(c.data, samples)
	return samples
}

// FromSamples encodes samples as one stream
func (c *ImaAdpcm) FromSamples(samples []int16) {
	c.data = encodeIma(samples)
	c.numSamples = len(samples)
}

// imaBytes returns the encoded size of a stream of n samples
func imaBytes(n int) int {
	if n == 0 {
		return 0
	}
	return imaHeaderSize + n/2
}

// imaState is the predictor and step index shared by encoder and decoder
type imaState struct {
	predictor int
	index     int
}

// expand applies one code to the state and returns the new predictor
func (s *imaState) expand(code byte) int16 {
	step := imaStepTable[s.index]
	diff := step >> 3
	if code&1 != 0 {
		diff += step >> 2
	}
	if code&2 != 0 {
		diff += step >> 1
	}
	if code&4 != 0 {
		diff += step
	}
	if code&8 != 0 {
		diff = -diff
	}
	s.predictor = clampImaPredictor(s.predictor + diff)
	s.index = clampImaIndex(s.index + imaIndexTable[code&0xF])
	return int16(s.predictor)
}

// quantize picks the code for diff by threshold tests against step, step/2, step/4
func (s *imaState) quantize(diff int) byte {
	var code byte
	if diff < 0 {
		code = 8
		diff = -diff
	}
	step := imaStepTable[s.index]
	acc := step >> 3
	if diff-acc >= step {
		code |= 4
		acc += step
	}
	if diff-acc >= step>>1 {
		code |= 2
		acc += step >> 1
	}
	if diff-acc >= step>>2 {
		code |= 1
	}
	return code
}

func clampImaPredictor(v int) int {
	if v < imaMinPredictor {
		return imaMinPredictor
	}
	if v > imaMaxPredictor {
		return imaMaxPredictor
	}
	return v
}

func clampImaIndex(v int) int {
	if v < 0 {
		return 0
	}
	if v > imaMaxIndex {
		return imaMaxIndex
	}
	return v
}

// bestStepIndex returns the step table entry closest to diff
func bestStepIndex(diff int) int {
	if diff < 0 {
		diff = -diff
	}
	best, bestDist := 0, -1
	for i, step := range imaStepTable {
		dist := step - diff
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// decodeIma decodes one self-headered stream into dst and returns the
// number of samples produced. It stops at len(dst) or when src runs out.
func decodeIma(src []byte, dst []int16) int {
	if len(dst) == 0 || len(src) < imaHeaderSize {
		return 0
	}
	s := imaState{
		predictor: int(int16(binary.LittleEndian.Uint16(src[0:]))),
		index:     clampImaIndex(int(binary.LittleEndian.Uint16(src[2:]) & 0x7F)),
	}
	dst[0] = int16(s.predictor)
	n := 1
	codes := src[imaHeaderSize:]
	for ; n < len(dst); n++ {
		pos := n - 1
		if pos/2 >= len(codes) {
			break
		}
		b := codes[pos/2]
		var code byte
		if pos%2 == 0 {
			code = b >> 4
		} else {
			code = b & 0xF
		}
		dst[n] = s.expand(code)
	}
	return n
}

// encodeIma encodes samples as one self-headered stream
func encodeIma(samples []int16) []byte {
	if len(samples) == 0 {
		return nil
	}
	out := make([]byte, imaBytes(len(samples)))

	s := imaState{predictor: int(samples[0])}
	if len(samples) > 1 {
		s.index = bestStepIndex(int(samples[1]) - int(samples[0]))
	}
	binary.LittleEndian.PutUint16(out[0:], uint16(samples[0]))
	binary.LittleEndian.PutUint16(out[2:], uint16(s.index))

	codes := out[imaHeaderSize:]
	for i := 1; i < len(samples); i++ {
		code := s.quantize(int(samples[i]) - s.predictor)
		s.expand(code)
		pos := i - 1
		if pos%2 == 0 {
			codes[pos/2] = code << 4
		} else {
			codes[pos/2] |= code
		}
	}
	return out
}
