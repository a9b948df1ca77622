package terrain

import (
	"slices"
)

// MedianBlur replaces each cell by the median of its (2*radius+1)^2
// neighbourhood. With extendOut the neighbourhood is edge-clamped, otherwise
// out-of-bounds cells are skipped. A cell whose value already lies inside the
// central threshold band of its neighbourhood, [q(0.5-t/2), q(0.5+t/2)], keeps
// its value. It returns the blurred grid, the number of replaced cells and
// how many of those flipped sign.
func MedianBlur(in []float64, size, radius int, extendOut bool, threshold float64) ([]float64, int, int) {
	half := threshold / 2
	out := make([]float64, size*size)
	window := make([]float64, 0, (2*radius+1)*(2*radius+1))
	changes, signChanges := 0, 0
	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			ci := cy*size + cx
			window = window[:0]
			for oy := -radius; oy <= radius; oy++ {
				for ox := -radius; ox <= radius; ox++ {
					x, y := cx+ox, cy+oy
					if extendOut {
						x = min(max(x, 0), size-1)
						y = min(max(y, 0), size-1)
					} else if x < 0 || x >= size || y < 0 || y >= size {
						continue
					}
					window = append(window, in[y*size+x])
				}
			}
			slices.Sort(window)
			l := Quantile(window, 0.5-half)
			u := Quantile(window, 0.5+half)
			if l <= in[ci] && in[ci] <= u {
				out[ci] = in[ci]
				continue
			}
			out[ci] = Quantile(window, 0.5)
			changes++
			if sign(out[ci]) != sign(in[ci]) {
				signChanges++
			}
		}
	}
	return out, changes, signChanges
}

// ErodeAndDilate keeps a foreground cell only if some width x width window
// containing it is entirely foreground (windows may hang off the map edge).
// Everything else becomes background. It returns the new grid and the number
// of cells whose class changed.
func ErodeAndDilate(in []float64, size int, foregroundLand bool, width int) ([]float64, int) {
	fg := signOf(foregroundLand)
	out := make([]float64, size*size)
	for i := range out {
		out[i] = -fg
	}
	for cy := 1 - width; cy < size; cy++ {
	center:
		for cx := 1 - width; cx < size; cx++ {
			for ry := 0; ry < width; ry++ {
				for rx := 0; rx < width; rx++ {
					x, y := cx+rx, cy+ry
					if x < 0 || x >= size || y < 0 || y >= size {
						continue
					}
					if (in[y*size+x] >= 0) != foregroundLand {
						continue center
					}
				}
			}
			for ry := 0; ry < width; ry++ {
				for rx := 0; rx < width; rx++ {
					x, y := cx+rx, cy+ry
					if x < 0 || x >= size || y < 0 || y >= size {
						continue
					}
					out[y*size+x] = fg
				}
			}
		}
	}
	changes := 0
	for i := range in {
		if (in[i] >= 0) != (out[i] >= 0) {
			changes++
		}
	}
	return out, changes
}

// FixThinMasses grows the grow class into the thinnest pinch points of the
// other class, in place. Thinness is stamped from every cell of the other
// class that has grow-class neighbours forming a corner, with a falloff of
// 1+2*width-dx-dy over a (width+1)^2 quadrant. All cells at the maximum
// thinness flip. It returns that thinness (0 when nothing was thin) and the
// number of flipped cells.
func FixThinMasses(in []float64, size int, growLand bool, width int) (int, int) {
	grow := signOf(growLand)
	maskSize := width + 1
	mask := make([]int, maskSize*maskSize)
	for y := 0; y < maskSize; y++ {
		for x := 0; x < maskSize; x++ {
			mask[y*maskSize+x] = 1 + 2*width - x - y
		}
	}
	mask[0] = 0

	isGrow := func(x, y int) bool { return (in[y*size+x] >= 0) == growLand }
	thinness := make([]int, size*size)
	stamp := func(x, y, v int) {
		if x < 0 || x >= size || y < 0 || y >= size || isGrow(x, y) {
			return
		}
		i := y*size + x
		thinness[i] = max(thinness[i], v)
	}
	last := size - 1
	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			if isGrow(cx, cy) {
				continue
			}
			l := isGrow(max(cx-1, 0), cy)
			r := isGrow(min(cx+1, last), cy)
			u := isGrow(cx, max(cy-1, 0))
			d := isGrow(cx, min(cy+1, last))
			lu, ru, ld, rd := l && u, r && u, l && d, r && d
			if !(lu || ru || ld || rd) {
				continue
			}
			for ry := 0; ry < maskSize; ry++ {
				for rx := 0; rx < maskSize; rx++ {
					v := mask[ry*maskSize+rx]
					if rd {
						stamp(cx+rx, cy+ry, v)
					}
					if ru {
						stamp(cx+rx, cy-ry, v)
					}
					if ld {
						stamp(cx-rx, cy+ry, v)
					}
					if lu {
						stamp(cx-rx, cy-ry, v)
					}
				}
			}
		}
	}

	thinnest := slices.Max(thinness)
	if thinnest == 0 {
		return 0, 0
	}
	changes := 0
	for i, t := range thinness {
		if t == thinnest {
			in[i] = grow
			changes++
		}
	}
	return thinnest, changes
}

// FixThinMassesFull repeats FixThinMasses until a pass changes nothing. It
// returns the thinness found by the first pass and the total flips.
func FixThinMassesFull(in []float64, size int, growLand bool, width int) (int, int) {
	thinnest, changes := FixThinMasses(in, size, growLand, width)
	total := changes
	for changes > 0 {
		_, changes = FixThinMasses(in, size, growLand, width)
		total += changes
	}
	return thinnest, total
}
