package tiling

import (
	"errors"
	"slices"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/contour"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// island returns a size x size sea grid with land on [x0,x1) x [y0,y1).
func island(size, x0, y0, x1, y1 int) []float64 {
	g := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			g[y*size+x] = -1
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				g[y*size+x] = 1
			}
		}
	}
	return g
}

func squareIsland(t *testing.T) ([]float64, contour.Path) {
	t.Helper()
	const size = 16
	mask := island(size, 4, 4, 12, 12)
	paths := contour.Trace(mask, size, catalog.FamilyCoastline)
	if len(paths) != 1 {
		t.Fatalf("Trace found %d paths, want 1", len(paths))
	}
	return mask, contour.Tweak(paths[0], size)
}

func TestFitSquareIsland(t *testing.T) {
	cat := catalog.Temperate()
	_, path := squareIsland(t)
	tiles := NewTiles(16)
	f := &Fitter{Catalog: cat, MinimumThickness: 5}
	drawn, err := f.Fit(tiles, path, random.New(3))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !slices.Equal(drawn, path.Points) {
		t.Errorf("drawn path differs from the exact square:\n got %v\nwant %v", drawn, path.Points)
	}
	if bad := tiles.CheckBorders(cat); len(bad) != 0 {
		t.Errorf("CheckBorders found %d mismatches:\n%s", len(bad), spew.Sdump(bad))
	}
	painted := 0
	for i := range tiles.Painted {
		if tiles.Painted[i] {
			painted++
		}
	}
	// 28 shore cells inside, 32 along the outside and 4 outer corners.
	if painted != 64 {
		t.Errorf("painted %d cells, want 64", painted)
	}
}

func TestFitThenFill(t *testing.T) {
	cat := catalog.Temperate()
	mask, path := squareIsland(t)
	tiles := NewTiles(16)
	f := &Fitter{Catalog: cat, MinimumThickness: 5}
	drawn, err := f.Fit(tiles, path, random.New(3))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	ch := contour.NewChirality(16)
	ch.Seed(drawn)
	if err := tiles.Fill(cat, ch.Resolve(mask), catalog.TypeClear, catalog.TypeWater); err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	counts := make(map[string]int)
	for _, typ := range tiles.Types(cat) {
		counts[typ]++
	}
	want := map[string]int{
		catalog.TypeBeach: 28,
		catalog.TypeClear: 36,
		catalog.TypeWater: 192,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s cells = %d, want %d (all: %v)", typ, counts[typ], n, counts)
		}
	}
}

func TestFitStraightCoastExactly(t *testing.T) {
	const size = 8
	cat := catalog.Temperate()
	var pts []geom.Point
	for x := 0; x <= size; x++ {
		pts = append(pts, geom.Point{X: x, Y: 4})
	}
	path := contour.Tweak(contour.Path{
		Points:    pts,
		Type:      catalog.FamilyCoastline,
		StartType: catalog.FamilyCoastline,
		EndType:   catalog.FamilyCoastline,
	}, size)
	tiles := NewTiles(size)
	f := &Fitter{Catalog: cat, MinimumThickness: 3}
	drawn, err := f.Fit(tiles, path, random.New(1))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if len(drawn) != len(path.Points) || drawn[0] != (geom.Point{X: -4, Y: 4}) {
		t.Errorf("drawn = %v, want %v", drawn, path.Points)
	}
	types := tiles.Types(cat)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			want := ""
			switch y {
			case 3:
				want = catalog.TypeWater
			case 4:
				want = catalog.TypeBeach
			}
			if got := types[y*size+x]; got != want {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, want)
			}
		}
	}
}

func TestFitIsRepeatable(t *testing.T) {
	cat := catalog.Temperate()
	_, path := squareIsland(t)
	f := &Fitter{Catalog: cat, MinimumThickness: 5}

	a, b := NewTiles(16), NewTiles(16)
	if _, err := f.Fit(a, path, random.New(99)); err != nil {
		t.Fatalf("first Fit error: %v", err)
	}
	if _, err := f.Fit(b, path, random.New(99)); err != nil {
		t.Fatalf("second Fit error: %v", err)
	}
	if !slices.Equal(a.Codes, b.Codes) || !slices.Equal(a.Painted, b.Painted) {
		t.Error("re-fitting with the same PRNG position painted different tiles")
	}
}

func straightOnly(t *testing.T) *catalog.Catalog {
	t.Helper()
	def := catalog.TemperateDefinition()
	def.Templates = slices.DeleteFunc(def.Templates, func(td catalog.TemplateDef) bool {
		return len(td.Path) != 2
	})
	cat, err := catalog.New(def)
	if err != nil {
		t.Fatalf("catalog.New error: %v", err)
	}
	return cat
}

func TestFitStraightOnlyCatalogRejectsStaircase(t *testing.T) {
	cat := straightOnly(t)
	pts := []geom.Point{{X: 0, Y: 0}}
	for i := 0; i < 5; i++ {
		last := pts[len(pts)-1]
		pts = append(pts, last.Add(1, 0), last.Add(1, 1))
	}
	path := contour.Path{
		Points:    pts,
		Type:      catalog.FamilyCoastline,
		StartType: catalog.FamilyCoastline,
		EndType:   catalog.FamilyCoastline,
		StartDir:  geom.R,
		EndDir:    geom.D,
	}
	f := &Fitter{Catalog: cat, MinimumThickness: 3}
	_, err := f.Fit(NewTiles(8), path, random.New(1))
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("Fit error = %v, want %v", err, ErrUnsatisfiable)
	}
}

func TestFitUnknownBorder(t *testing.T) {
	path := contour.Path{
		Points:   []geom.Point{{X: 0, Y: 1}, {X: 1, Y: 1}},
		Type:     "Road",
		StartDir: geom.R,
		EndDir:   geom.R,
	}
	f := &Fitter{Catalog: catalog.Temperate(), MinimumThickness: 3}
	if _, err := f.Fit(NewTiles(4), path, random.New(1)); !errors.Is(err, ErrUnsatisfiable) {
		t.Errorf("Fit error = %v, want %v", err, ErrUnsatisfiable)
	}
}

func TestSearchUsesFamilyIndex(t *testing.T) {
	cat := catalog.Temperate()
	tests := []struct {
		family  string
		borders int
	}{
		{catalog.FamilyCoastline, 4},
		{catalog.FamilyCliff, 8},
		{"Road", 0},
	}
	for _, tc := range tests {
		path := contour.Path{Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}}, Type: tc.family}
		s := newSearch(cat, path, 1)
		if tc.borders > 0 && s.index != cat.Index(tc.family) {
			t.Errorf("newSearch(%s) built its own index", tc.family)
		}
		if got := len(s.borders); got != tc.borders {
			t.Errorf("newSearch(%s) has %d borders, want %d", tc.family, got, tc.borders)
		}
		if got, want := len(s.scores), s.sizeXY*tc.borders; got != want {
			t.Errorf("newSearch(%s) has %d states, want %d", tc.family, got, want)
		}
	}
}

// A one-cell jog between two Clear caps cannot be drawn: every turn in the
// catalog moves two cells sideways.
func TestFitShortCappedJogLeavesTilesUntouched(t *testing.T) {
	path := contour.Path{
		Points:    []geom.Point{{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 3}, {X: 4, Y: 4}},
		Type:      catalog.FamilyCliff,
		StartType: catalog.TypeClear,
		EndType:   catalog.TypeClear,
		StartDir:  geom.D,
		EndDir:    geom.D,
	}
	tiles := NewTiles(8)
	f := &Fitter{Catalog: catalog.Temperate(), MinimumThickness: 5}
	if _, err := f.Fit(tiles, path, random.New(1)); !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("Fit error = %v, want %v", err, ErrUnsatisfiable)
	}
	if slices.Contains(tiles.Painted, true) {
		t.Error("failed fit painted tiles")
	}
}

func TestCheckBordersReportsMismatch(t *testing.T) {
	cat := catalog.Temperate()
	var straight *catalog.Template
	for _, tmpl := range cat.Index(catalog.FamilyCoastline).StartingAt(catalog.Border{Type: catalog.FamilyCoastline, Dir: geom.R}) {
		if tmpl.EndBorder.Dir == geom.R {
			straight = tmpl
		}
	}
	tiles := NewTiles(4)
	// Water next to beach along a row is not a valid seam.
	tiles.paint(straight, 0, 0)
	tiles.paint(straight, 1, -1)
	bad := tiles.CheckBorders(cat)
	if len(bad) == 0 {
		t.Fatal("CheckBorders found no mismatch")
	}
	if bad[0].X != 0 || bad[0].Y != 0 || bad[0].Dir != geom.R {
		t.Errorf("first mismatch = %v, want (0,0)->R", bad[0])
	}
}

func TestResolveIndices(t *testing.T) {
	cat := catalog.Temperate()
	tiles := NewTiles(6)
	ch := make([]int8, 36)
	for i := range ch {
		ch[i] = 1
	}
	if err := tiles.Fill(cat, ch, catalog.TypeClear, catalog.TypeWater); err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	again := NewTiles(6)
	_ = again.Fill(cat, ch, catalog.TypeClear, catalog.TypeWater)

	tiles.ResolveIndices(random.New(8), cat)
	again.ResolveIndices(random.New(8), cat)
	for i, code := range tiles.Codes {
		if code.IsAny() || code.Template != catalog.ClearTemplate || code.Index >= 16 {
			t.Fatalf("cell %d resolved to %v", i, code)
		}
	}
	if !slices.Equal(tiles.Codes, again.Codes) {
		t.Error("ResolveIndices is not deterministic for a seed")
	}
}

func TestFillNeedsCatalogFill(t *testing.T) {
	tiles := NewTiles(2)
	err := tiles.Fill(catalog.Temperate(), make([]int8, 4), "Lava", catalog.TypeWater)
	if err == nil {
		t.Error("Fill with an unknown terrain should fail")
	}
}
