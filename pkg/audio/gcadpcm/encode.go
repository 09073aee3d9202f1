// ABOUTME: GC-ADPCM frame encoder
// ABOUTME: Exhaustive predictor and scale search per 14-sample frame with bit-exact history
package gcadpcm

import "math"

const (
	// FrameSamples is the number of samples per frame
	FrameSamples = 14

	// FrameSize is the byte size of a full frame
	FrameSize = 8

	// MaxScale is the largest scale exponent the encoder emits
	MaxScale = 12
)

// Encode designs a coefficient table for samples and packs them into frames.
// yn1 and yn2 seed the predictor history. A partial final frame keeps its
// header and only the data bytes it needs.
func Encode(samples []int16, yn1, yn2 int16, s Settings) ([]byte, [NumPredictors][2]int16) {
	coefs := Coefficients(samples, s)

	frames, rem := len(samples)/FrameSamples, len(samples)%FrameSamples
	size := frames * FrameSize
	if rem > 0 {
		size += 1 + (rem+1)/2
	}
	out := make([]byte, 0, size)

	hist1, hist2 := int(yn1), int(yn2)
	for start := 0; start < len(samples); start += FrameSamples {
		frame := samples[start:min(start+FrameSamples, len(samples))]
		enc := encodeFrame(frame, &coefs, hist1, hist2)
		hist1, hist2 = enc.hist1, enc.hist2

		out = append(out, enc.header)
		for i := 0; i < len(frame); i += 2 {
			b := enc.nibbles[i] << 4
			if i+1 < len(frame) {
				b |= enc.nibbles[i+1]
			}
			out = append(out, b)
		}
	}
	return out, coefs
}

type frameEncoding struct {
	header  byte
	nibbles [FrameSamples]byte
	hist1   int
	hist2   int
	err     float64
}

// encodeFrame tries every predictor and scale and keeps the pair with the
// smallest squared error. Ties keep the lowest predictor, then the lowest scale.
func encodeFrame(frame []int16, coefs *[NumPredictors][2]int16, hist1, hist2 int) frameEncoding {
	best := frameEncoding{err: math.Inf(1)}
	for p := range coefs {
		for scale := 0; scale <= MaxScale; scale++ {
			cand := tryFrame(frame, coefs[p], scale, hist1, hist2, best.err)
			if cand.err < best.err {
				cand.header = byte(p<<4 | scale)
				best = cand
			}
		}
	}
	return best
}

// tryFrame quantizes a frame with one predictor and scale. It gives up as soon
// as the error exceeds limit.
func tryFrame(frame []int16, pair [2]int16, scale, hist1, hist2 int, limit float64) frameEncoding {
	enc := frameEncoding{hist1: hist1, hist2: hist2}
	coef1, coef2 := int(pair[0]), int(pair[1])
	step := 1 << scale

	for i, x := range frame {
		pred := coef1*enc.hist1 + coef2*enc.hist2
		guess := int(math.Round(float64(int(x)<<11-pred-1024) / float64(step<<11)))

		bestV, bestS, bestD := 0, 0, math.MaxInt
		for v := guess - 1; v <= guess+1; v++ {
			if v < -8 || v > 7 {
				continue
			}
			s := Reconstruct(v, step, pred)
			d := s - int(x)
			if d < 0 {
				d = -d
			}
			if d < bestD {
				bestV, bestS, bestD = v, s, d
			}
		}
		if bestD == math.MaxInt {
			// guess fell outside the nibble range entirely
			bestV = max(-8, min(7, guess))
			bestS = Reconstruct(bestV, step, pred)
			bestD = bestS - int(x)
		}

		enc.err += float64(bestD) * float64(bestD)
		if enc.err >= limit {
			enc.err = math.Inf(1)
			return enc
		}
		enc.nibbles[i] = byte(bestV) & 0xF
		enc.hist2 = enc.hist1
		enc.hist1 = bestS
	}
	return enc
}

// Reconstruct returns the sample a decoder produces for nibble value v
func Reconstruct(v, step, pred int) int {
	s := ((v*step)<<11 + 1024 + pred) >> 11
	return max(-32768, min(32767, s))
}
