package model

import "testing"

func TestTerrainGridAt(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  4,
		Rows:  4,
		CellW: 8,
		CellH: 8,
		Grid: []TerrainType{
			Land, Land, Water, Water,
			Land, Land, Water, Water,
			Cliff, Bridge, Land, Land,
			Cliff, Land, Land, Land,
		},
	}

	tests := []struct {
		col, row int
		want     TerrainType
	}{
		{0, 0, Land},
		{2, 0, Water},
		{0, 2, Cliff},
		{1, 2, Bridge},
		{3, 3, Land},
	}
	for _, tc := range tests {
		got := grid.At(tc.col, tc.row)
		if got != tc.want {
			t.Errorf("At(%d, %d) = %d, want %d", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestTerrainGridAtOutOfBounds(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  2,
		Rows:  2,
		CellW: 4,
		CellH: 4,
		Grid:  []TerrainType{Water, Water, Water, Water},
	}

	// Out-of-bounds should return Land (safe default).
	if got := grid.At(-1, 0); got != Land {
		t.Errorf("At(-1, 0) = %d, want Land", got)
	}
	if got := grid.At(0, -1); got != Land {
		t.Errorf("At(0, -1) = %d, want Land", got)
	}
	if got := grid.At(2, 0); got != Land {
		t.Errorf("At(2, 0) = %d, want Land", got)
	}
	if got := grid.At(0, 2); got != Land {
		t.Errorf("At(0, 2) = %d, want Land", got)
	}
}

func TestTerrainGridAtMapPos(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  4,
		Rows:  4,
		CellW: 8,
		CellH: 8,
		Grid: []TerrainType{
			Land, Land, Water, Water,
			Land, Land, Water, Water,
			Cliff, Bridge, Land, Land,
			Cliff, Land, Land, Land,
		},
	}

	tests := []struct {
		mapX, mapY int
		want       TerrainType
	}{
		{0, 0, Land},     // col=0, row=0
		{4, 0, Land},     // col=0, row=0 (just inside)
		{16, 0, Water},   // col=2, row=0
		{24, 16, Land},   // col=3, row=2
		{0, 16, Cliff},   // col=0, row=2
		{8, 16, Bridge},  // col=1, row=2
	}
	for _, tc := range tests {
		got := grid.AtMapPos(tc.mapX, tc.mapY)
		if got != tc.want {
			t.Errorf("AtMapPos(%d, %d) = %d, want %d", tc.mapX, tc.mapY, got, tc.want)
		}
	}
}

func TestTerrainGridAtMapPosZeroCells(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  2,
		Rows:  2,
		CellW: 0,
		CellH: 0,
		Grid:  []TerrainType{Water, Water, Water, Water},
	}
	// Zero cell size should return Land (safe default).
	if got := grid.AtMapPos(5, 5); got != Land {
		t.Errorf("AtMapPos with zero cells = %d, want Land", got)
	}
}

func TestTerrainGridZoneCenter(t *testing.T) {
	grid := &TerrainGrid{
		Cols:  4,
		Rows:  4,
		CellW: 8,
		CellH: 8,
	}

	x, y := grid.ZoneCenter(0, 0)
	if x != 4 || y != 4 {
		t.Errorf("ZoneCenter(0,0) = (%d,%d), want (4,4)", x, y)
	}

	x, y = grid.ZoneCenter(1, 2)
	if x != 12 || y != 20 {
		t.Errorf("ZoneCenter(1,2) = (%d,%d), want (12,20)", x, y)
	}
}

func TestTerrainGridHasWater(t *testing.T) {
	noWater := &TerrainGrid{
		Cols: 2, Rows: 2, CellW: 4, CellH: 4,
		Grid: []TerrainType{Land, Land, Cliff, Land},
	}
	if noWater.HasWater() {
		t.Error("HasWater() should be false for land-only grid")
	}

	withWater := &TerrainGrid{
		Cols: 2, Rows: 2, CellW: 4, CellH: 4,
		Grid: []TerrainType{Land, Water, Cliff, Land},
	}
	if !withWater.HasWater() {
		t.Error("HasWater() should be true for grid with water")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		terrain string
		want    TerrainType
	}{
		{"Clear", Land},
		{"Beach", Land},
		{"Water", Water},
		{"Cliff", Cliff},
		{"Rock", Cliff},
		{"Bridge", Bridge},
		{"", Land},
	}
	for _, tc := range tests {
		if got := Classify(tc.terrain); got != tc.want {
			t.Errorf("Classify(%q) = %d, want %d", tc.terrain, got, tc.want)
		}
	}
}

func TestCoarsen(t *testing.T) {
	const size = 4
	m := &Map{Size: size, Types: make([]string, size*size)}
	for i := range m.Types {
		m.Types[i] = "Clear"
	}
	// Top-right zone: three water cells out of four.
	m.Types[2], m.Types[3], m.Types[6] = "Water", "Water", "Water"
	// Bottom-left zone: a 2x2 tree clump covers it.
	m.Entities = []Entity{
		{Type: "tc01", Owner: OwnerNeutral, X: 0, Y: 2, Obstacle: true, Width: 2, Height: 2},
		{Type: "mine", Owner: OwnerNeutral, X: 3, Y: 3},
	}
	// Bottom-right zone: a tie between Land and Cliff stays Land.
	m.Types[11], m.Types[14] = "Rock", "Rock"

	g := Coarsen(m, 2, 2)
	if g.CellW != 2 || g.CellH != 2 {
		t.Fatalf("cell size = %dx%d, want 2x2", g.CellW, g.CellH)
	}
	want := []TerrainType{Land, Water, Cliff, Land}
	for i := range want {
		if g.Grid[i] != want[i] {
			t.Errorf("zone %d = %d, want %d", i, g.Grid[i], want[i])
		}
	}
	if !g.HasWater() {
		t.Error("HasWater() should be true")
	}
}
