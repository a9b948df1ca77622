// Package noise produces the scalar fields that seed terrain: a grid-corner
// gradient noise summed over octaves, optionally folded under a rotation and
// mirror symmetry group.
package noise

import (
	"math"

	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// Perlin returns a size x size field built from one random unit vector per
// grid corner. Each corner contributes a quarter-weighted dot product to the
// (up to) four cells it touches. The field is not isotropic.
func Perlin(r *random.Random, size int) []float64 {
	const d = 1.0 / 4
	out := make([]float64, size*size)
	for y := 0; y <= size; y++ {
		for x := 0; x <= size; x++ {
			phase := 2 * math.Pi * r.Float64()
			vx := math.Cos(phase)
			vy := math.Sin(phase)
			if x > 0 && y > 0 {
				out[(y-1)*size+(x-1)] += vx*-d + vy*-d
			}
			if x < size && y > 0 {
				out[(y-1)*size+x] += vx*d + vy*-d
			}
			if x > 0 && y < size {
				out[y*size+(x-1)] += vx*-d + vy*d
			}
			if x < size && y < size {
				out[y*size+x] += vx*d + vy*d
			}
		}
	}
	return out
}

// Interpolate2D samples a w x h grid bilinearly at (x, y). Coordinates past an
// edge clamp to that edge.
func Interpolate2D(grid []float64, w, h int, x, y float64) float64 {
	xa := int(math.Floor(x))
	xb := int(math.Ceil(x))
	ya := int(math.Floor(y))
	yb := int(math.Ceil(y))
	xbw := x - float64(xa)
	ybw := y - float64(ya)
	xaw := 1 - xbw
	yaw := 1 - ybw
	if xa < 0 {
		xa, xb = 0, 0
	} else if xb > w-1 {
		xa, xb = w-1, w-1
	}
	if ya < 0 {
		ya, yb = 0, 0
	} else if yb > h-1 {
		ya, yb = h-1, h-1
	}
	naa := grid[ya*w+xa]
	nba := grid[ya*w+xb]
	nab := grid[yb*w+xa]
	nbb := grid[yb*w+xb]
	return (naa*xaw+nba*xbw)*yaw + (nab*xaw+nbb*xbw)*ybw
}

// FractalOptions configures Fractal. Zero values select the defaults.
type FractalOptions struct {
	Size int
	// Wavelengths are the feature lengths of each octave. Defaults to
	// 2^i * WavelengthScale for i < log2(Size).
	Wavelengths     []float64
	WavelengthScale float64
	// Amplitude maps a wavelength to its octave weight. Defaults to
	// wavelength / Size / len(Wavelengths).
	Amplitude func(wavelength float64) float64
}

// DefaultWavelengths returns the octave wavelengths used when none are given.
func DefaultWavelengths(size int, scale float64) []float64 {
	if scale == 0 {
		scale = 1
	}
	n := int(math.Log2(float64(size)))
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(int(1)<<i) * scale
	}
	return out
}

func (o FractalOptions) withDefaults() FractalOptions {
	if o.Wavelengths == nil {
		o.Wavelengths = DefaultWavelengths(o.Size, o.WavelengthScale)
	}
	if o.Amplitude == nil {
		size := float64(o.Size)
		count := float64(len(o.Wavelengths))
		o.Amplitude = func(wl float64) float64 { return wl / size / count }
	}
	return o
}

// Fractal sums one Perlin octave per wavelength, each sampled from a coarse
// sub-grid at a random integer offset.
func Fractal(r *random.Random, opts FractalOptions) []float64 {
	opts = opts.withDefaults()
	size := opts.Size
	out := make([]float64, size*size)
	for _, wl := range opts.Wavelengths {
		amp := opts.Amplitude(wl)
		subSize := int(float64(size)/wl) + 2
		sub := Perlin(r, subSize)
		offsetX := float64(int(r.Float64() * wl))
		offsetY := float64(int(r.Float64() * wl))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				out[y*size+x] += amp * Interpolate2D(sub, subSize, subSize,
					(offsetX+float64(x))/wl,
					(offsetY+float64(y))/wl)
			}
		}
	}
	return out
}
