// ABOUTME: Predictor coefficient design for GC-ADPCM
// ABOUTME: Autocorrelation, Levinson-Durbin and iterative predictor splitting
package gcadpcm

import (
	"math"
)

const (
	// order is the number of history samples each predictor uses
	order = 2

	// NumPredictors is the size of the coefficient table
	NumPredictors = 8

	predictorBits = 3

	// maxReflection keeps reflection coefficients strictly inside the unit circle
	maxReflection = 0.9999999999
)

// Settings tunes coefficient design
type Settings struct {
	// WindowSize is the analysis window length in samples
	WindowSize int

	// Threshold is the minimum window energy considered for analysis
	Threshold float64

	// RefineIters is the number of clustering passes after each split
	RefineIters int
}

// DefaultSettings returns the settings used by the DSP-ADPCM codec
func DefaultSettings() Settings {
	return Settings{
		WindowSize:  14,
		Threshold:   10,
		RefineIters: 2,
	}
}

// Coefficients designs eight predictor coefficient pairs for samples.
// Input with no analyzable energy yields an all-zero table.
func Coefficients(samples []int16, s Settings) [NumPredictors][2]int16 {
	if s.WindowSize <= 0 {
		s = DefaultSettings()
	}

	models := analyze(samples, s)
	if len(models) == 0 {
		return [NumPredictors][2]int16{}
	}

	// Seed with the average model, then split and refine until the table is full
	var mean [order + 1]float64
	mean[0] = 1
	for _, m := range models {
		r := autocorrFromModel(m)
		for j := 1; j <= order; j++ {
			mean[j] += r[j]
		}
	}
	for j := 1; j <= order; j++ {
		mean[j] /= float64(len(models))
	}

	table := make([][order + 1]float64, NumPredictors)
	k, _ := durbin(mean)
	clampReflection(&k)
	table[0] = modelFromReflection(k)

	for bits := 0; bits < predictorBits; bits++ {
		n := 1 << bits
		for i := 0; i < n; i++ {
			table[i+n] = table[i]
			table[i+n][order-1] -= 0.01
		}
		refine(table[:2*n], models, s.RefineIters)
	}

	var out [NumPredictors][2]int16
	for i, m := range table {
		out[i] = [2]int16{toFixed(-m[1]), toFixed(-m[2])}
	}
	return out
}

// analyze fits a prediction model to every window with enough energy
func analyze(samples []int16, s Settings) [][order + 1]float64 {
	var models [][order + 1]float64
	frame := make([]float64, 2*s.WindowSize)

	for start := 0; start < len(samples); start += s.WindowSize {
		for i := 0; i < s.WindowSize; i++ {
			var v float64
			if start+i < len(samples) {
				v = float64(samples[start+i])
			}
			frame[s.WindowSize+i] = v
		}

		vec := autocorrVector(frame, s.WindowSize)
		if math.Abs(vec[0]) > s.Threshold {
			mat := autocorrMatrix(frame, s.WindowSize)
			if x, ok := solve2(mat, [2]float64{vec[1], vec[2]}); ok {
				m := [order + 1]float64{1, x[0], x[1]}
				if k, ok := reflectionFromModel(m); ok {
					clampReflection(&k)
					models = append(models, modelFromReflection(k))
				}
			}
		}

		copy(frame[:s.WindowSize], frame[s.WindowSize:])
	}
	return models
}

func autocorrVector(frame []float64, n int) [order + 1]float64 {
	var out [order + 1]float64
	for i := 0; i <= order; i++ {
		for j := 0; j < n; j++ {
			out[i] -= frame[n+j-i] * frame[n+j]
		}
	}
	return out
}

func autocorrMatrix(frame []float64, n int) [order][order]float64 {
	var out [order][order]float64
	for i := 1; i <= order; i++ {
		for j := 1; j <= order; j++ {
			for k := 0; k < n; k++ {
				out[i-1][j-1] += frame[n+k-i] * frame[n+k-j]
			}
		}
	}
	return out
}

// solve2 solves the 2x2 normal equations, rejecting ill-conditioned systems
func solve2(m [order][order]float64, b [2]float64) ([2]float64, bool) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	scale := math.Max(math.Abs(m[0][0]), math.Abs(m[1][1]))
	if scale == 0 || math.Abs(det) < 1e-10*scale*scale {
		return [2]float64{}, false
	}
	return [2]float64{
		(b[0]*m[1][1] - b[1]*m[0][1]) / det,
		(m[0][0]*b[1] - m[1][0]*b[0]) / det,
	}, true
}

// reflectionFromModel converts direct-form coefficients to reflection
// coefficients. It fails when the model is unstable.
func reflectionFromModel(a [order + 1]float64) ([order + 1]float64, bool) {
	var k [order + 1]float64
	k[order] = a[order]
	for i := order - 1; i >= 1; i-- {
		t := k[i+1]
		div := 1 - t*t
		if div == 0 {
			return k, false
		}
		var next [order + 1]float64
		for j := 0; j <= i; j++ {
			next[j] = (a[j] - a[i+1-j]*t) / div
		}
		a = next
		k[i] = next[i]
	}
	// the highest-order term is clamped by the caller instead
	for i := 1; i < order; i++ {
		if math.Abs(k[i]) > 1 {
			return k, false
		}
	}
	return k, true
}

func modelFromReflection(k [order + 1]float64) [order + 1]float64 {
	var a [order + 1]float64
	a[0] = 1
	for i := 1; i <= order; i++ {
		a[i] = k[i]
		for j := 1; j <= i-1; j++ {
			a[j] += a[i-j] * a[i]
		}
	}
	return a
}

func clampReflection(k *[order + 1]float64) {
	for i := 1; i <= order; i++ {
		k[i] = math.Max(-maxReflection, math.Min(maxReflection, k[i]))
	}
}

// autocorrFromModel returns the normalized autocorrelation a model implies
func autocorrFromModel(a [order + 1]float64) [order + 1]float64 {
	var mat [order + 1][]float64
	mat[order] = make([]float64, order+1)
	mat[order][0] = 1
	for i := 1; i <= order; i++ {
		mat[order][i] = -a[i]
	}
	for i := order; i >= 1; i-- {
		mat[i-1] = make([]float64, i)
		div := 1 - mat[i][i]*mat[i][i]
		for j := 1; j <= i-1; j++ {
			mat[i-1][j] = (mat[i][i-j]*mat[i][i] + mat[i][j]) / div
		}
	}

	var r [order + 1]float64
	r[0] = 1
	for i := 1; i <= order; i++ {
		for j := 1; j <= i; j++ {
			r[i] += mat[i][j] * r[i-j]
		}
	}
	return r
}

// durbin runs Levinson-Durbin on an autocorrelation vector and returns the
// reflection and direct-form coefficients
func durbin(r [order + 1]float64) (k, a [order + 1]float64) {
	a[0] = 1
	err := r[0]
	for i := 1; i <= order; i++ {
		var sum float64
		for j := 1; j <= i-1; j++ {
			sum += a[j] * r[i-j]
		}
		if err > 0 {
			a[i] = -(r[i] + sum) / err
		}
		k[i] = a[i]
		for j := 1; j < i; j++ {
			a[j] += a[i-j] * a[i]
		}
		err *= 1 - a[i]*a[i]
	}
	return k, a
}

// modelDistance measures how poorly model predicts a signal described by data
func modelDistance(model, data [order + 1]float64) float64 {
	r := autocorrFromModel(data)
	var c [order + 1]float64
	for i := 0; i <= order; i++ {
		for j := 0; j <= order-i; j++ {
			c[i] += model[j] * model[i+j]
		}
	}
	d := c[0] * r[0]
	for i := 1; i <= order; i++ {
		d += 2 * r[i] * c[i]
	}
	return d
}

// refine reassigns every model to its closest predictor and refits each
// predictor to the models assigned to it
func refine(table [][order + 1]float64, models [][order + 1]float64, iters int) {
	sums := make([][order + 1]float64, len(table))
	counts := make([]float64, len(table))

	for iter := 0; iter < iters; iter++ {
		for i := range sums {
			sums[i] = [order + 1]float64{}
			counts[i] = 0
		}

		for _, m := range models {
			best, bestDist := 0, math.Inf(1)
			for j, p := range table {
				if d := modelDistance(p, m); d < bestDist {
					best, bestDist = j, d
				}
			}
			counts[best]++
			r := autocorrFromModel(m)
			for j := range r {
				sums[best][j] += r[j]
			}
		}

		for i := range table {
			if counts[i] == 0 {
				continue
			}
			for j := range sums[i] {
				sums[i][j] /= counts[i]
			}
			k, _ := durbin(sums[i])
			clampReflection(&k)
			table[i] = modelFromReflection(k)
		}
	}
}

// toFixed converts a coefficient to signed 5.11 fixed point
func toFixed(v float64) int16 {
	f := v * 2048
	if f < 0 {
		f -= 0.5
	} else {
		f += 0.5
	}
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Trunc(f))))
}
