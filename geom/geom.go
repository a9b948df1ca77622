// Package geom holds the grid vocabulary shared by every stage: points,
// the eight octant directions with their bit masks, and the rotations and
// mirrors that make a map symmetric.
package geom

import (
	"fmt"
	"math"
)

// Point is a grid corner or cell coordinate. Which one depends on the caller:
// contour paths use corners, grids use cells.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Direction is one of the 8 compass octants, clockwise from right with y
// pointing down.
type Direction int8

const (
	R  Direction = 0
	RD Direction = 1
	D  Direction = 2
	LD Direction = 3
	L  Direction = 4
	LU Direction = 5
	U  Direction = 6
	RU Direction = 7

	DirNone Direction = -1
)

var directionLetters = [8]string{"R", "RD", "D", "LD", "L", "LU", "U", "RU"}

var directionDeltas = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func (d Direction) String() string {
	if d < 0 || d > 7 {
		return "none"
	}
	return directionLetters[d]
}

// Delta returns the unit step for d. DirNone yields (0, 0).
func (d Direction) Delta() (int, int) {
	if d < 0 || d > 7 {
		return 0, 0
	}
	return directionDeltas[d][0], directionDeltas[d][1]
}

// Reverse returns the opposite octant.
func (d Direction) Reverse() Direction {
	if d == DirNone {
		return DirNone
	}
	return d ^ 4
}

// Mask returns the single-bit set for d, or 0 for DirNone.
func (d Direction) Mask() uint8 {
	if d == DirNone {
		return 0
	}
	return 1 << uint(d)
}

// IsDiagonal reports whether d is one of RD, LD, LU, RU.
func (d Direction) IsDiagonal() bool {
	return d >= 0 && d&1 == 1
}

// ParseDirection converts a catalog letter (R, RD, D, ...) into a Direction.
func ParseDirection(letter string) (Direction, error) {
	for i, l := range directionLetters {
		if l == letter {
			return Direction(i), nil
		}
	}
	return DirNone, fmt.Errorf("bad direction letter %q", letter)
}

// DirectionOf classifies a displacement into an octant. A zero displacement
// has no direction.
func DirectionOf(dx, dy int) Direction {
	switch {
	case dx > 0 && dy > 0:
		return RD
	case dx > 0 && dy < 0:
		return RU
	case dx > 0:
		return R
	case dx < 0 && dy > 0:
		return LD
	case dx < 0 && dy < 0:
		return LU
	case dx < 0:
		return L
	case dy > 0:
		return D
	case dy < 0:
		return U
	}
	return DirNone
}

// Towards returns the direction of travel from a to b.
func Towards(a, b Point) Direction {
	return DirectionOf(b.X-a.X, b.Y-a.Y)
}

// ForwardMask returns the octants considered forward progress for a local
// gradient pointing in d: d itself and its two neighbours.
//
//	direction: 0123456701234567
//	            UUU DDD UUU DDD
//	            R LLL RRR LLL R
func ForwardMask(d Direction) uint8 {
	if d == DirNone {
		return 0
	}
	const wheel uint16 = 0b100000111000001
	return uint8((wheel >> (7 - uint(d))) & 0xff)
}

// MirrorAxis selects the reflection applied on top of rotational symmetry.
type MirrorAxis int

const (
	MirrorNone         MirrorAxis = 0
	MirrorHorizontal   MirrorAxis = 1 // reflect y
	MirrorDiagonal     MirrorAxis = 2 // swap x and y
	MirrorVertical     MirrorAxis = 3 // reflect x
	MirrorAntiDiagonal MirrorAxis = 4
)

func (m MirrorAxis) Valid() bool { return m >= MirrorNone && m <= MirrorAntiDiagonal }

// Mirror reflects a cell across the axis of a size x size grid.
// MirrorNone returns the cell unchanged.
func Mirror(x, y, size int, m MirrorAxis) (int, int) {
	switch m {
	case MirrorHorizontal:
		return x, size - 1 - y
	case MirrorDiagonal:
		return y, x
	case MirrorVertical:
		return size - 1 - x, y
	case MirrorAntiDiagonal:
		return size - 1 - y, size - 1 - x
	}
	return x, y
}

const sin60 = 0.86602540378443864676

// RotationCosSin returns the cosine and sine of the k-th of n equal turns.
// Quarter and third turns are snapped to exact values so that rotated samples
// land on identical coordinates.
func RotationCosSin(k, n int) (float64, float64) {
	k = ((k % n) + n) % n
	if (4*k)%n == 0 {
		switch (4 * k) / n {
		case 0:
			return 1, 0
		case 1:
			return 0, 1
		case 2:
			return -1, 0
		default:
			return 0, -1
		}
	}
	if (3*k)%n == 0 {
		if (3*k)/n == 1 {
			return -0.5, sin60
		}
		return -0.5, -sin60
	}
	angle := float64(k) * 2 * math.Pi / float64(n)
	return math.Cos(angle), math.Sin(angle)
}

// Rotate turns cell (x, y) about the center of a size x size grid by the k-th
// of n equal rotations and rounds to the nearest cell.
func Rotate(x, y, size, k, n int) (int, int) {
	o := float64(size-1) / 2
	rx := float64(x) - o
	ry := float64(y) - o
	c, s := RotationCosSin(k, n)
	return int(math.Round(rx*c - ry*s + o)), int(math.Round(rx*s + ry*c + o))
}

// InBounds reports whether (x, y) is a cell of a size x size grid.
func InBounds(x, y, size int) bool {
	return x >= 0 && x < size && y >= 0 && y < size
}
