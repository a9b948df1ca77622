package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// Source produces the unsymmetrised template that Symmetric samples from.
// Implementations must draw from r in a fixed order so a seed reproduces the
// same field.
type Source interface {
	Template(r *random.Random, size int) []float64
}

// FractalSource is the default Source: Fractal with the given wavelength
// scale.
type FractalSource struct {
	WavelengthScale float64
}

func (s FractalSource) Template(r *random.Random, size int) []float64 {
	return Fractal(r, FractalOptions{Size: size, WavelengthScale: s.WavelengthScale})
}

// SimplexSource sums opensimplex octaves over the default wavelengths. The
// simplex seed and per-octave offsets are drawn from r.
type SimplexSource struct {
	WavelengthScale float64
}

func (s SimplexSource) Template(r *random.Random, size int) []float64 {
	simplex := opensimplex.New(int64(r.Uint32()))
	wavelengths := DefaultWavelengths(size, s.WavelengthScale)
	out := make([]float64, size*size)
	if len(wavelengths) == 0 {
		return out
	}
	count := float64(len(wavelengths))
	for _, wl := range wavelengths {
		amp := wl / float64(size) / count
		ox := r.Float64() * 1024
		oy := r.Float64() * 1024
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				out[y*size+x] += amp * simplex.Eval2(ox+float64(x)/wl, oy+float64(y)/wl)
			}
		}
	}
	return out
}

// PerlinSource samples classic Perlin noise (alpha 2, beta 2, three octaves)
// at Scale cells per unit.
type PerlinSource struct {
	Scale float64
}

func (s PerlinSource) Template(r *random.Random, size int) []float64 {
	scale := s.Scale
	if scale <= 0 {
		scale = 8
	}
	p := perlin.NewPerlin(2, 2, 3, int64(r.Uint32()))
	ox := r.Float64() * 256
	oy := r.Float64() * 256
	out := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out[y*size+x] = p.Noise2D(ox+float64(x)/scale, oy+float64(y)/scale)
		}
	}
	return out
}
