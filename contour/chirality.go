package contour

import (
	"github.com/nstehr/vimy/vimy-mapgen/geom"
)

// Chirality accumulates per-cell votes for which side of the seeded paths
// each cell lies on, then floods the winning signs across the map.
type Chirality struct {
	size  int
	votes []int
}

func NewChirality(size int) *Chirality {
	return &Chirality{size: size, votes: make([]int, size*size)}
}

// Seed votes +1 on the cell to the right of every axis-aligned segment of
// points and -1 on the cell to its left. Off-map cells and diagonal steps
// are ignored.
func (c *Chirality) Seed(points []geom.Point) {
	for i := 1; i < len(points); i++ {
		p, q := points[i-1], points[i]
		right, left, ok := Sides(p, q)
		if !ok {
			continue
		}
		c.vote(right, 1)
		c.vote(left, -1)
	}
}

func (c *Chirality) vote(cell geom.Point, v int) {
	if geom.InBounds(cell.X, cell.Y, c.size) {
		c.votes[cell.Y*c.size+cell.X] += v
	}
}

// Sides returns the cells to the right and left of the axis-aligned unit
// step p->q. ok is false for any other step.
func Sides(p, q geom.Point) (right, left geom.Point, ok bool) {
	switch geom.Towards(p, q) {
	case geom.R:
		return geom.Point{X: p.X, Y: p.Y}, geom.Point{X: p.X, Y: p.Y - 1}, true
	case geom.D:
		return geom.Point{X: p.X - 1, Y: p.Y}, geom.Point{X: p.X, Y: p.Y}, true
	case geom.L:
		return geom.Point{X: q.X, Y: q.Y - 1}, geom.Point{X: q.X, Y: q.Y}, true
	case geom.U:
		return geom.Point{X: q.X, Y: q.Y}, geom.Point{X: q.X - 1, Y: q.Y}, true
	}
	return geom.Point{}, geom.Point{}, false
}

// Resolve returns +1 or -1 for every cell. Cells with a net vote keep its
// sign; the rest take the sign of the nearest voted cell (4-connected,
// breadth first, ties resolved in row-major seed order). Cells no vote can
// reach fall back to the sign of original.
func (c *Chirality) Resolve(original []float64) []int8 {
	size := c.size
	out := make([]int8, size*size)
	queue := make([]int, 0, size*size)
	for i, v := range c.votes {
		switch {
		case v > 0:
			out[i] = 1
		case v < 0:
			out[i] = -1
		default:
			continue
		}
		queue = append(queue, i)
	}
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%size, i/size
		for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
			if !geom.InBounds(n[0], n[1], size) {
				continue
			}
			j := n[1]*size + n[0]
			if out[j] != 0 {
				continue
			}
			out[j] = out[i]
			queue = append(queue, j)
		}
	}
	for i := range out {
		if out[i] != 0 {
			continue
		}
		out[i] = -1
		if original[i] >= 0 {
			out[i] = 1
		}
	}
	return out
}
