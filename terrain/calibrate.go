// Package terrain turns scalar fields into stable signed classifications:
// calibration, median smoothing, morphological cleanup and the iterative
// stabilizer that guarantees a minimum feature thickness.
//
// Signed grids are row-major size*size slices where v >= 0 is foreground
// (land) and v < 0 is background (sea).
package terrain

import (
	"slices"
)

// Quantile linearly interpolates the q-quantile of an ascending slice.
// q outside [0, 1] clamps to the ends. It panics on an empty slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		panic("terrain: quantile of empty slice")
	}
	i := q * float64(len(sorted)-1)
	if i < 0 {
		i = 0
	}
	if last := float64(len(sorted) - 1); i > last {
		i = last
	}
	l := int(i)
	if float64(l) == i {
		return sorted[l]
	}
	w := i - float64(l)
	return sorted[l]*(1-w) + sorted[l+1]*w
}

// Calibrate shifts values in place so that their fraction-quantile lands on
// target. With target 0, roughly fraction of the cells end up negative.
func Calibrate(values []float64, target, fraction float64) {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	adjustment := target - Quantile(sorted, fraction)
	for i := range values {
		values[i] += adjustment
	}
}

// Binarize maps v >= 0 to 1 and everything else to -1.
func Binarize(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = signOf(v >= 0)
	}
	return out
}

func signOf(fg bool) float64 {
	if fg {
		return 1
	}
	return -1
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
