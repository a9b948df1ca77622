package geom

import (
	"math"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		letter string
		want   Direction
	}{
		{"R", R}, {"RD", RD}, {"D", D}, {"LD", LD},
		{"L", L}, {"LU", LU}, {"U", U}, {"RU", RU},
	}
	for _, tc := range tests {
		got, err := ParseDirection(tc.letter)
		if err != nil {
			t.Fatalf("ParseDirection(%q) error: %v", tc.letter, err)
		}
		if got != tc.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tc.letter, got, tc.want)
		}
		if got.String() != tc.letter {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tc.letter)
		}
	}
	if _, err := ParseDirection("DR"); err == nil {
		t.Error("ParseDirection(\"DR\") should fail")
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   Direction
	}{
		{3, 0, R}, {2, 5, RD}, {0, 1, D}, {-1, 1, LD},
		{-4, 0, L}, {-1, -1, LU}, {0, -2, U}, {1, -9, RU},
		{0, 0, DirNone},
	}
	for _, tc := range tests {
		if got := DirectionOf(tc.dx, tc.dy); got != tc.want {
			t.Errorf("DirectionOf(%d, %d) = %v, want %v", tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestReverseAndMask(t *testing.T) {
	for d := R; d <= RU; d++ {
		if d.Reverse().Reverse() != d {
			t.Errorf("%v reversed twice = %v", d, d.Reverse().Reverse())
		}
		dx, dy := d.Delta()
		rx, ry := d.Reverse().Delta()
		if dx != -rx || dy != -ry {
			t.Errorf("%v reverse delta = (%d,%d), want (%d,%d)", d, rx, ry, -dx, -dy)
		}
		if d.Mask() != 1<<uint(d) {
			t.Errorf("%v.Mask() = %b", d, d.Mask())
		}
	}
	if DirNone.Reverse() != DirNone || DirNone.Mask() != 0 {
		t.Error("DirNone should reverse to itself with an empty mask")
	}
}

func TestForwardMask(t *testing.T) {
	tests := []struct {
		d    Direction
		want uint8
	}{
		{R, R.Mask() | RD.Mask() | RU.Mask()},
		{D, RD.Mask() | D.Mask() | LD.Mask()},
		{L, LD.Mask() | L.Mask() | LU.Mask()},
		{RU, U.Mask() | RU.Mask() | R.Mask()},
		{DirNone, 0},
	}
	for _, tc := range tests {
		if got := ForwardMask(tc.d); got != tc.want {
			t.Errorf("ForwardMask(%v) = %08b, want %08b", tc.d, got, tc.want)
		}
	}
}

func TestMirrorIsInvolution(t *testing.T) {
	const size = 7
	for m := MirrorHorizontal; m <= MirrorAntiDiagonal; m++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				mx, my := Mirror(x, y, size, m)
				if !InBounds(mx, my, size) {
					t.Fatalf("Mirror(%d, %d, %d) = (%d, %d) out of bounds", x, y, m, mx, my)
				}
				bx, by := Mirror(mx, my, size, m)
				if bx != x || by != y {
					t.Errorf("Mirror twice of (%d,%d) axis %d = (%d,%d)", x, y, m, bx, by)
				}
			}
		}
	}
}

func TestRotationCosSinSnaps(t *testing.T) {
	tests := []struct {
		k, n     int
		cos, sin float64
	}{
		{0, 1, 1, 0},
		{1, 2, -1, 0},
		{1, 4, 0, 1},
		{3, 4, 0, -1},
		{1, 3, -0.5, sin60},
		{2, 3, -0.5, -sin60},
		{2, 6, -0.5, sin60},
		{4, 4, 1, 0},
	}
	for _, tc := range tests {
		c, s := RotationCosSin(tc.k, tc.n)
		if c != tc.cos || s != tc.sin {
			t.Errorf("RotationCosSin(%d, %d) = (%v, %v), want (%v, %v)", tc.k, tc.n, c, s, tc.cos, tc.sin)
		}
	}
	c, s := RotationCosSin(1, 5)
	if math.Abs(c-math.Cos(2*math.Pi/5)) > 1e-12 || math.Abs(s-math.Sin(2*math.Pi/5)) > 1e-12 {
		t.Errorf("RotationCosSin(1, 5) = (%v, %v)", c, s)
	}
}

func TestRotateQuarterTurns(t *testing.T) {
	const size = 10
	x, y := 2, 7
	for k := 0; k < 4; k++ {
		rx, ry := Rotate(x, y, size, k, 4)
		var wx, wy int
		switch k {
		case 0:
			wx, wy = x, y
		case 1:
			wx, wy = size-1-y, x
		case 2:
			wx, wy = size-1-x, size-1-y
		case 3:
			wx, wy = y, size-1-x
		}
		if rx != wx || ry != wy {
			t.Errorf("Rotate(%d, %d, k=%d) = (%d, %d), want (%d, %d)", x, y, k, rx, ry, wx, wy)
		}
	}
}
