package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// ErrRotations is returned for a rotation count below one.
var ErrRotations = errors.New("rotations must be >= 1")

// SymmetryOptions configures Symmetric.
type SymmetryOptions struct {
	Size      int
	Rotations int
	Mirror    geom.MirrorAxis
	// Source defaults to FractalSource{WavelengthScale: 1}.
	Source Source
}

// Symmetric samples a template of side 2*Size+2 once per rotation about the
// map center and averages the samples, then adds the mirror image when a
// mirror axis is set. The result is invariant under the rotation group and
// the mirror up to interpolation error.
func Symmetric(r *random.Random, opts SymmetryOptions) ([]float64, error) {
	if opts.Rotations < 1 {
		return nil, fmt.Errorf("symmetric noise with %d rotations: %w", opts.Rotations, ErrRotations)
	}
	if !opts.Mirror.Valid() {
		return nil, fmt.Errorf("unknown mirror axis %d", opts.Mirror)
	}
	src := opts.Source
	if src == nil {
		src = FractalSource{WavelengthScale: 1}
	}
	size := opts.Size
	templateSize := size*2 + 2
	template := src.Template(r, templateSize)

	out := make([]float64, size*size)
	// -1 shifts from cell corner to cell center.
	o := float64(size-1) / 2
	to := float64(templateSize) / 2
	n := float64(opts.Rotations)
	for rot := 0; rot < opts.Rotations; rot++ {
		c, s := geom.RotationCosSin(rot, opts.Rotations)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				mtx := (float64(x) - o) * math.Sqrt2
				mty := (float64(y) - o) * math.Sqrt2
				tx := mtx*c - mty*s + to
				ty := mtx*s + mty*c + to
				out[y*size+x] += Interpolate2D(template, templateSize, templateSize, tx, ty) / n
			}
		}
	}

	if opts.Mirror == geom.MirrorNone {
		return out, nil
	}
	mirrored := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			tx, ty := geom.Mirror(x, y, size, opts.Mirror)
			mirrored[y*size+x] = out[y*size+x] + out[ty*size+tx]
		}
	}
	return mirrored, nil
}
