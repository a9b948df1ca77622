// Package contour extracts ordered boundary paths from signed grids and
// resolves which side of those paths is foreground.
//
// Paths run over grid corners: corner (x, y) is the top-left corner of cell
// (x, y), so corners range over 0..size inclusive. Foreground is always on
// the right-hand side of travel (y grows downward).
package contour

import (
	"github.com/nstehr/vimy/vimy-mapgen/geom"
)

// Trace walks every boundary between foreground (v >= 0) and background in
// mask. Paths that start on the map edge are returned first (scanning the
// top, bottom, left and right edges), then closed loops, each repeating its
// start point at the end. Every boundary edge belongs to exactly one path.
func Trace(mask []float64, size int, family string) []Path {
	// v[i]: edge between cells (x-1, y) and (x, y), i.e. corner (x, y) down
	// to (x, y+1). Positive when the right cell is foreground.
	// h[i]: edge between cells (x, y-1) and (x, y), i.e. corner (x, y)
	// right to (x+1, y). Positive when the lower cell is foreground.
	v := make([]int8, size*size)
	h := make([]int8, size*size)
	fg := func(i int) int8 {
		if mask[i] >= 0 {
			return 1
		}
		return 0
	}
	for y := 0; y < size; y++ {
		for x := 1; x < size; x++ {
			i := y*size + x
			v[i] = fg(i) - fg(i-1)
		}
	}
	for y := 1; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*size + x
			h[i] = fg(i) - fg(i-size)
		}
	}

	t := tracer{size: size, v: v, h: h, family: family}
	for n := 1; n < size; n++ {
		if v[n] < 0 {
			t.trace(n, 0, geom.D)
		}
		if v[(size-1)*size+n] > 0 {
			t.trace(n, size, geom.U)
		}
		if h[n*size] > 0 {
			t.trace(0, n, geom.R)
		}
		if h[n*size+size-1] < 0 {
			t.trace(size, n, geom.L)
		}
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*size + x
			if h[i] > 0 {
				t.trace(x, y, geom.R)
			} else if h[i] < 0 {
				t.trace(x+1, y, geom.L)
			}
			if v[i] < 0 {
				t.trace(x, y, geom.D)
			} else if v[i] > 0 {
				t.trace(x, y+1, geom.U)
			}
		}
	}
	return t.paths
}

type tracer struct {
	size   int
	v, h   []int8
	family string
	paths  []Path
}

// trace follows one boundary from corner (sx, sy), zeroing edges as it
// consumes them, until it returns to the start or reaches a dead end.
func (t *tracer) trace(sx, sy int, dir geom.Direction) {
	size := t.size
	x, y := sx, sy
	points := []geom.Point{{X: x, Y: y}}
	for {
		switch dir {
		case geom.R:
			t.h[y*size+x] = 0
			x++
		case geom.D:
			t.v[y*size+x] = 0
			y++
		case geom.L:
			x--
			t.h[y*size+x] = 0
		case geom.U:
			y--
			t.v[y*size+x] = 0
		}
		points = append(points, geom.Point{X: x, Y: y})
		if x == sx && y == sy {
			break
		}

		inside := x < size && y < size
		i := y*size + x
		r := inside && t.h[i] > 0
		d := inside && t.v[i] < 0
		l := x > 0 && y < size && t.h[i-1] < 0
		u := y > 0 && x < size && t.v[i-size] > 0
		// Prefer the turn toward the interior, then R, D, L, U.
		switch {
		case dir == geom.R && u:
			dir = geom.U
		case dir == geom.D && r:
			dir = geom.R
		case dir == geom.L && d:
			dir = geom.D
		case dir == geom.U && l:
			dir = geom.L
		case r:
			dir = geom.R
		case d:
			dir = geom.D
		case l:
			dir = geom.L
		case u:
			dir = geom.U
		default:
			t.paths = append(t.paths, Path{Points: points, Type: t.family, StartType: t.family, EndType: t.family})
			return
		}
	}
	t.paths = append(t.paths, Path{Points: points, Type: t.family, StartType: t.family, EndType: t.family})
}
