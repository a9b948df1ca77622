package catalog

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-mapgen/contour"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// Families and terrain types of the builtin catalog.
const (
	FamilyCoastline = "Coastline"
	FamilyCliff     = "Cliff"

	TypeClear = "Clear"
	TypeWater = "Water"
	TypeBeach = "Beach"
	TypeCliff = "Cliff"
	TypeRock  = "Rock"
)

// Template ids of the builtin catalog.
const (
	WaterTemplate   uint16 = 1
	BoulderTemplate uint16 = 97
	ClearTemplate   uint16 = 255

	coastBase    = 100
	cliffBase    = 200
	cliffCapBase = 220
)

var axes = []geom.Direction{geom.R, geom.D, geom.L, geom.U}

// Temperate returns the builtin temperate catalog: clear and water fill,
// coastline and cliff templates drawn as single steps and quarter turns,
// cliff end caps, boulders and tree actors.
func Temperate() *Catalog {
	c, err := New(TemperateDefinition())
	if err != nil {
		panic(fmt.Sprintf("builtin catalog: %v", err))
	}
	return c
}

// TemperateDefinition is the serializable form of Temperate.
func TemperateDefinition() Definition {
	def := Definition{
		Name: "TEMPERAT",
		Fill: map[string]model.TileCode{
			TypeClear: {Template: ClearTemplate, Index: model.AnyIndex},
			TypeWater: {Template: WaterTemplate, Index: 0},
		},
		Playable: []string{TypeClear, TypeBeach},
	}

	clearTile := TileDef{Template: ClearTemplate, Index: model.AnyIndex, Type: TypeClear, L: TypeClear, R: TypeClear, U: TypeClear, D: TypeClear}
	for i := 0; i < 16; i++ {
		clearTile.Codes = append(clearTile.Codes, model.TileCode{Template: ClearTemplate, Index: uint8(i)})
	}
	def.Tiles = append(def.Tiles,
		clearTile,
		TileDef{Template: WaterTemplate, Index: 0, Type: TypeWater, L: TypeWater, R: TypeWater, U: TypeWater, D: TypeWater},
		TileDef{Template: BoulderTemplate, Index: 0, Type: TypeRock, L: TypeClear, R: TypeClear, U: TypeClear, D: TypeClear},
		TileDef{Template: BoulderTemplate + 1, Index: 0, Type: TypeRock, L: TypeClear, R: TypeRock, U: TypeClear, D: TypeClear},
		TileDef{Template: BoulderTemplate + 1, Index: 1, Type: TypeRock, L: TypeRock, R: TypeClear, U: TypeClear, D: TypeClear},
	)

	add := func(d drawing) {
		tmpl, tiles := d.build()
		def.Templates = append(def.Templates, tmpl)
		def.Tiles = append(def.Tiles, tiles...)
	}
	coast := drawing{family: FamilyCoastline, right: TypeBeach, left: TypeWater}
	cliff := drawing{family: FamilyCliff, right: TypeCliff, left: TypeClear}
	for i, d := range axes {
		add(coast.with(coastBase+uint16(i), d))
		add(cliff.with(cliffBase+uint16(i), d))

		start := cliff.with(cliffCapBase+uint16(i), d)
		start.startType = TypeClear
		start.name = "cliff-start-" + d.String()
		add(start)
		end := cliff.with(cliffCapBase+4+uint16(i), d)
		end.endType = TypeClear
		end.name = "cliff-end-" + d.String()
		add(end)
	}
	id := uint16(len(axes))
	for _, d1 := range axes {
		for _, d2 := range axes {
			if d2 == d1 || d2 == d1.Reverse() {
				continue
			}
			add(coast.with(coastBase+id, d1, d2))
			add(cliff.with(cliffBase+id, d1, d2))
			id++
		}
	}

	def.Obstacles = []Obstacle{
		{Name: "boulder1", Kind: ObstacleTile, Width: 1, Height: 1, Weight: 1, Tiles: []model.TileCode{{Template: BoulderTemplate}}},
		{Name: "boulder2", Kind: ObstacleTile, Width: 2, Height: 1, Weight: 1, Tiles: []model.TileCode{{Template: BoulderTemplate + 1}, {Template: BoulderTemplate + 1, Index: 1}}},
	}
	for _, tree := range []string{"t01", "t02", "t03", "t05", "t06", "t07", "t08", "t10", "t11", "t12"} {
		def.Obstacles = append(def.Obstacles, Obstacle{Name: tree, Kind: ObstacleEntity, Width: 1, Height: 1, Weight: 1, Actor: tree})
	}
	def.Obstacles = append(def.Obstacles,
		Obstacle{Name: "tc01", Kind: ObstacleEntity, Width: 3, Height: 2, Weight: 2, Actor: "tc01"},
		Obstacle{Name: "tc02", Kind: ObstacleEntity, Width: 3, Height: 2, Weight: 2, Actor: "tc02"},
		Obstacle{Name: "tc04", Kind: ObstacleEntity, Width: 4, Height: 3, Weight: 1, Actor: "tc04"},
	)
	return def
}

// drawing builds a template from a run of unit steps. Cells right of the
// path take the right type, cells left of it the left type. Sides that lie
// on the path carry the family as edge code, every other side the cell's
// own type.
type drawing struct {
	id                 uint16
	name               string
	family             string
	right, left        string
	startType, endType string
	dirs               []geom.Direction
}

func (d drawing) with(id uint16, dirs ...geom.Direction) drawing {
	d.id = id
	d.dirs = dirs
	d.name = d.family
	for _, dir := range dirs {
		d.name += "-" + dir.String()
	}
	return d
}

type edge struct{ a, b geom.Point }

func newEdge(a, b geom.Point) edge {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return edge{a, b}
}

func (d drawing) build() (TemplateDef, []TileDef) {
	points := []geom.Point{{}}
	for _, dir := range d.dirs {
		dx, dy := dir.Delta()
		points = append(points, points[len(points)-1].Add(dx, dy))
	}

	side := make(map[geom.Point]int)
	onPath := make(map[edge]bool)
	for i := 1; i < len(points); i++ {
		r, l, _ := contour.Sides(points[i-1], points[i])
		side[r]++
		side[l]--
		onPath[newEdge(points[i-1], points[i])] = true
	}
	minX, minY := 1<<30, 1<<30
	maxX, maxY := -1<<30, -1<<30
	for c := range side {
		minX, minY = min(minX, c.X), min(minY, c.Y)
		maxX, maxY = max(maxX, c.X), max(maxY, c.Y)
	}
	w, h := maxX-minX+1, maxY-minY+1

	tmpl := TemplateDef{
		ID:        d.id,
		Name:      d.name,
		Family:    d.family,
		StartType: d.startType,
		EndType:   d.endType,
		Width:     w,
		Height:    h,
		StartDir:  d.dirs[0].String(),
		EndDir:    d.dirs[len(d.dirs)-1].String(),
	}
	for _, p := range points {
		tmpl.Path = append(tmpl.Path, [2]int{p.X - minX, p.Y - minY})
	}

	var tiles []TileDef
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cell := geom.Point{X: x, Y: y}
			v, touched := side[cell]
			if !touched {
				// A turn's outer corner matches its two neighbours.
				v = side[cell.Add(1, 0)] + side[cell.Add(-1, 0)] + side[cell.Add(0, 1)] + side[cell.Add(0, -1)]
			}
			typ := d.left
			if v > 0 {
				typ = d.right
			}
			code := func(a, b geom.Point) string {
				if onPath[newEdge(a, b)] {
					return d.family
				}
				return typ
			}
			index := uint8((y-minY)*w + (x - minX))
			tmpl.Cells = append(tmpl.Cells, Cell{X: x - minX, Y: y - minY, Index: index})
			tiles = append(tiles, TileDef{
				Template: d.id,
				Index:    index,
				Type:     typ,
				U:        code(cell, cell.Add(1, 0)),
				D:        code(cell.Add(0, 1), cell.Add(1, 1)),
				L:        code(cell, cell.Add(0, 1)),
				R:        code(cell.Add(1, 0), cell.Add(1, 1)),
			})
		}
	}
	return tmpl, tiles
}
