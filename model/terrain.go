package model

// TerrainType is the coarse class of a grid zone.
type TerrainType byte

const (
	Land   TerrainType = 0 // passable ground
	Water  TerrainType = 1 // naval only
	Cliff  TerrainType = 2 // impassable (rock, tree, cliff)
	Bridge TerrainType = 3 // land corridor over water
)

// Classify maps a tile's terrain type name onto a coarse class.
func Classify(terrain string) TerrainType {
	switch terrain {
	case "Water", "River":
		return Water
	case "Cliff", "Rock", "Tree", "Wall":
		return Cliff
	case "Bridge":
		return Bridge
	}
	return Land
}

// TerrainGrid summarises a map as Cols x Rows zones of CellW x CellH cells.
type TerrainGrid struct {
	Cols  int
	Rows  int
	CellW int
	CellH int
	Grid  []TerrainType // row-major: Grid[row*Cols + col]
}

// Coarsen builds a cols x rows grid from m. Each zone takes the most common
// class among its cells, Land winning ties. Cells under obstacle entities
// count as Cliff.
func Coarsen(m *Map, cols, rows int) *TerrainGrid {
	cellW := max(1, (m.Size+cols-1)/cols)
	cellH := max(1, (m.Size+rows-1)/rows)
	g := &TerrainGrid{Cols: cols, Rows: rows, CellW: cellW, CellH: cellH, Grid: make([]TerrainType, cols*rows)}

	classes := make([]TerrainType, m.Size*m.Size)
	for i, t := range m.Types {
		classes[i] = Classify(t)
	}
	for _, e := range m.Entities {
		if !e.Obstacle {
			continue
		}
		for y := e.Y; y < e.Y+max(1, e.Height); y++ {
			for x := e.X; x < e.X+max(1, e.Width); x++ {
				if x >= 0 && x < m.Size && y >= 0 && y < m.Size {
					classes[y*m.Size+x] = Cliff
				}
			}
		}
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var counts [4]int
			for y := row * cellH; y < min((row+1)*cellH, m.Size); y++ {
				for x := col * cellW; x < min((col+1)*cellW, m.Size); x++ {
					counts[classes[y*m.Size+x]]++
				}
			}
			best := Land
			for c := Water; c <= Bridge; c++ {
				if counts[c] > counts[best] {
					best = c
				}
			}
			g.Grid[row*cols+col] = best
		}
	}
	return g
}

// At returns the class of zone (col, row), Land off the grid.
func (g *TerrainGrid) At(col, row int) TerrainType {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return Land
	}
	return g.Grid[row*g.Cols+col]
}

// AtMapPos returns the class of the zone holding map cell (mapX, mapY).
func (g *TerrainGrid) AtMapPos(mapX, mapY int) TerrainType {
	if g.CellW <= 0 || g.CellH <= 0 {
		return Land
	}
	return g.At(mapX/g.CellW, mapY/g.CellH)
}

// ZoneCenter returns the map cell at the middle of zone (col, row).
func (g *TerrainGrid) ZoneCenter(col, row int) (int, int) {
	return col*g.CellW + g.CellW/2, row*g.CellH + g.CellH/2
}

// HasWater reports whether any zone is mostly water.
func (g *TerrainGrid) HasWater() bool {
	for _, t := range g.Grid {
		if t == Water {
			return true
		}
	}
	return false
}
