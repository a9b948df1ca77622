package tiling

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// Tiles is the per-cell tile assignment of a map. Painted marks cells
// written by the fitter; Assigned marks every cell that has a code at all.
type Tiles struct {
	Size     int
	Codes    []model.TileCode
	Assigned []bool
	Painted  []bool
}

func NewTiles(size int) *Tiles {
	return &Tiles{
		Size:     size,
		Codes:    make([]model.TileCode, size*size),
		Assigned: make([]bool, size*size),
		Painted:  make([]bool, size*size),
	}
}

// At returns the code at (x, y) and whether one has been assigned.
func (t *Tiles) At(x, y int) (model.TileCode, bool) {
	i := y*t.Size + x
	return t.Codes[i], t.Assigned[i]
}

// Set assigns a code outside the fitter, e.g. for obstacles. The cell no
// longer counts as painted.
func (t *Tiles) Set(x, y int, code model.TileCode) {
	i := y*t.Size + x
	t.Codes[i] = code
	t.Assigned[i] = true
	t.Painted[i] = false
}

// paint stamps a template footprint with its top-left corner at (ox, oy).
// Cells off the map are skipped.
func (t *Tiles) paint(tmpl *catalog.Template, ox, oy int) {
	for _, c := range tmpl.Cells {
		x, y := ox+c.X, oy+c.Y
		if !geom.InBounds(x, y, t.Size) {
			continue
		}
		i := y*t.Size + x
		t.Codes[i] = tmpl.Code(c)
		t.Assigned[i] = true
		t.Painted[i] = true
	}
}

// Fill assigns every unassigned cell the catalog's fill tile for fg where
// chirality is positive and for bg elsewhere.
func (t *Tiles) Fill(cat *catalog.Catalog, chirality []int8, fg, bg string) error {
	fgCode, ok := cat.Fill(fg)
	if !ok {
		return fmt.Errorf("no fill tile for %s", fg)
	}
	bgCode, ok := cat.Fill(bg)
	if !ok {
		return fmt.Errorf("no fill tile for %s", bg)
	}
	for i := range t.Codes {
		if t.Assigned[i] {
			continue
		}
		t.Codes[i] = bgCode
		if chirality[i] > 0 {
			t.Codes[i] = fgCode
		}
		t.Assigned[i] = true
	}
	return nil
}

// ResolveIndices replaces every AnyIndex code with one of the tile's
// concrete codes, drawn in row-major order.
func (t *Tiles) ResolveIndices(r *random.Random, cat *catalog.Catalog) {
	for i, code := range t.Codes {
		if !t.Assigned[i] || !code.IsAny() {
			continue
		}
		ti, ok := cat.Tile(code)
		if !ok || len(ti.Codes) == 0 {
			continue
		}
		t.Codes[i] = random.Pick(r, ti.Codes)
	}
}

// Types returns the terrain type of every cell, "" where unassigned.
func (t *Tiles) Types(cat *catalog.Catalog) []string {
	types := make([]string, len(t.Codes))
	for i, code := range t.Codes {
		if t.Assigned[i] {
			types[i] = cat.Type(code)
		}
	}
	return types
}

// Mismatch is a pair of painted neighbours whose facing edge codes differ.
type Mismatch struct {
	X, Y int
	Dir  geom.Direction // R or D: the neighbour checked
	Have string
	Want string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("(%d,%d)->%v: %q != %q", m.X, m.Y, m.Dir, m.Have, m.Want)
}

// CheckBorders compares the edge codes of every pair of fitter-painted
// neighbours.
func (t *Tiles) CheckBorders(cat *catalog.Catalog) []Mismatch {
	var out []Mismatch
	size := t.Size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*size + x
			if !t.Painted[i] {
				continue
			}
			here, ok := cat.Tile(t.Codes[i])
			if !ok {
				continue
			}
			if x+1 < size && t.Painted[i+1] {
				if there, ok := cat.Tile(t.Codes[i+1]); ok && here.R != there.L {
					out = append(out, Mismatch{X: x, Y: y, Dir: geom.R, Have: here.R, Want: there.L})
				}
			}
			if y+1 < size && t.Painted[i+size] {
				if there, ok := cat.Tile(t.Codes[i+size]); ok && here.D != there.U {
					out = append(out, Mismatch{X: x, Y: y, Dir: geom.D, Have: here.D, Want: there.U})
				}
			}
		}
	}
	return out
}
