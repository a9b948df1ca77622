// Package catalog models the tileset vocabulary the fitter draws with: tile
// infos with semantic types and edge codes, multi-cell templates with a
// prototypical path, fill tiles and obstacles.
//
// A Catalog is built once and is read-only afterwards; every stage of a run
// shares the same pointer.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
)

var ErrBadDirection = errors.New("bad direction letter")

// Border is a semantic family paired with the octant of travel across it.
// Templates chain when one's EndBorder equals the next one's StartBorder.
type Border struct {
	Type string         `json:"type"`
	Dir  geom.Direction `json:"dir"`
}

func (b Border) String() string { return b.Type + "/" + b.Dir.String() }

// TileInfo describes a single tile. L, R, U and D are edge codes; two
// neighbouring tiles fit when the facing codes are equal.
type TileInfo struct {
	Code       model.TileCode   `json:"code"`
	Type       string           `json:"type"`
	L, R, U, D string           `json:"-"`
	Codes      []model.TileCode `json:"codes"` // concrete choices for an AnyIndex code
}

// Cell is one footprint cell of a template.
type Cell struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Index uint8 `json:"index"`
}

// Step is one point of a template path relative to its first point.
type Step struct {
	X, Y        int
	Dir         geom.Direction // direction to the next point, DirNone on the last
	Mask        uint8
	ReverseMask uint8
}

// Template is a fixed footprint with the path it draws.
type Template struct {
	ID          uint16
	Name        string
	Family      string
	Width       int
	Height      int
	Cells       []Cell
	Path        []geom.Point // template-local corners
	StartBorder Border
	EndBorder   Border
	MovesX      int
	MovesY      int
	OffsetX     int // first path point, template-local
	OffsetY     int
	Steps       []Step
}

// Code returns the tile code painted by footprint cell c.
func (t *Template) Code(c Cell) model.TileCode {
	return model.TileCode{Template: t.ID, Index: c.Index}
}

// ObstacleKind says whether an obstacle replaces tiles or places an actor.
type ObstacleKind int

const (
	ObstacleTile ObstacleKind = iota
	ObstacleEntity
)

// Obstacle is something ObstructArea may drop into a blocked-off area.
type Obstacle struct {
	Name   string           `json:"name"`
	Kind   ObstacleKind     `json:"kind"`
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Weight float64          `json:"weight"`
	Tiles  []model.TileCode `json:"tiles,omitempty"` // row-major, tile obstacles only
	Actor  string           `json:"actor,omitempty"` // entity obstacles only
}

func (o Obstacle) Area() int { return o.Width * o.Height }

// Catalog is the immutable, indexed form of a Definition.
type Catalog struct {
	name      string
	tiles     map[model.TileCode]*TileInfo
	templates []*Template
	indexes   map[string]*Index
	fill      map[string]model.TileCode
	obstacles []Obstacle
	playable  mapset.Set[string]
	types     mapset.Set[string]
	families  mapset.Set[string]
}

func (c *Catalog) Name() string { return c.name }

// Tile looks up a tile. An unknown concrete index falls back to the
// template's AnyIndex entry.
func (c *Catalog) Tile(code model.TileCode) (*TileInfo, bool) {
	if ti, ok := c.tiles[code]; ok {
		return ti, true
	}
	ti, ok := c.tiles[model.TileCode{Template: code.Template, Index: model.AnyIndex}]
	return ti, ok
}

// Type returns the semantic terrain type of a tile, or "" when unknown.
func (c *Catalog) Type(code model.TileCode) string {
	if ti, ok := c.Tile(code); ok {
		return ti.Type
	}
	return ""
}

func (c *Catalog) Templates() []*Template { return c.templates }

// Index returns the chaining index of a family. An unknown family has an
// empty index.
func (c *Catalog) Index(family string) *Index {
	if x, ok := c.indexes[family]; ok {
		return x
	}
	return newIndex(family, nil)
}

// Fill returns the tile used to back-fill cells of the given terrain type.
func (c *Catalog) Fill(terrain string) (model.TileCode, bool) {
	code, ok := c.fill[terrain]
	return code, ok
}

func (c *Catalog) Obstacles() []Obstacle { return c.obstacles }

// Playable reports whether units can stand on the terrain type.
func (c *Catalog) Playable(terrain string) bool { return c.playable.Has(terrain) }

// HasType reports whether any tile carries the terrain type.
func (c *Catalog) HasType(terrain string) bool { return c.types.Has(terrain) }

// HasFamily reports whether any template draws the border family.
func (c *Catalog) HasFamily(family string) bool { return c.families.Has(family) }

// New validates and indexes a definition.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		name:      def.Name,
		tiles:     make(map[model.TileCode]*TileInfo, len(def.Tiles)),
		indexes:   make(map[string]*Index),
		fill:      make(map[string]model.TileCode, len(def.Fill)),
		obstacles: slices.Clone(def.Obstacles),
		playable:  mapset.Of(def.Playable...),
		types:     mapset.New[string](),
		families:  mapset.New[string](),
	}
	for _, td := range def.Tiles {
		ti := &TileInfo{
			Code:  model.TileCode{Template: td.Template, Index: td.Index},
			Type:  td.Type,
			L:     td.L,
			R:     td.R,
			U:     td.U,
			D:     td.D,
			Codes: slices.Clone(td.Codes),
		}
		if len(ti.Codes) == 0 {
			ti.Codes = []model.TileCode{ti.Code}
		}
		if _, dup := c.tiles[ti.Code]; dup {
			return nil, fmt.Errorf("duplicate tile %s", ti.Code)
		}
		c.tiles[ti.Code] = ti
		for _, alt := range ti.Codes {
			if _, ok := c.tiles[alt]; !ok && alt != ti.Code {
				c.tiles[alt] = ti
			}
		}
		c.types.Put(ti.Type)
	}

	for _, tmpl := range def.Templates {
		t, err := buildTemplate(tmpl)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tmpl.Name, err)
		}
		for _, cell := range t.Cells {
			if _, ok := c.Tile(t.Code(cell)); !ok {
				return nil, fmt.Errorf("template %q: no tile info for %s", t.Name, t.Code(cell))
			}
		}
		c.templates = append(c.templates, t)
		c.families.Put(t.Family)
	}
	sort.SliceStable(c.templates, func(i, j int) bool { return c.templates[i].ID < c.templates[j].ID })
	c.families.Each(func(family string) {
		c.indexes[family] = newIndex(family, c.templates)
	})

	for terrain, code := range def.Fill {
		if _, ok := c.Tile(code); !ok {
			return nil, fmt.Errorf("fill for %s: unknown tile %s", terrain, code)
		}
		c.fill[terrain] = code
	}
	for _, o := range c.obstacles {
		if o.Width <= 0 || o.Height <= 0 {
			return nil, fmt.Errorf("obstacle %q: empty footprint", o.Name)
		}
		if o.Kind == ObstacleTile && len(o.Tiles) != o.Area() {
			return nil, fmt.Errorf("obstacle %q: %d tiles for a %dx%d footprint", o.Name, len(o.Tiles), o.Width, o.Height)
		}
	}
	return c, nil
}

func buildTemplate(def TemplateDef) (*Template, error) {
	if len(def.Path) < 2 {
		return nil, fmt.Errorf("path needs at least two points, has %d", len(def.Path))
	}
	startDir, err := parseDirection(def.StartDir)
	if err != nil {
		return nil, err
	}
	endDir, err := parseDirection(def.EndDir)
	if err != nil {
		return nil, err
	}
	startType, endType := def.StartType, def.EndType
	if startType == "" {
		startType = def.Family
	}
	if endType == "" {
		endType = def.Family
	}

	t := &Template{
		ID:          def.ID,
		Name:        def.Name,
		Family:      def.Family,
		Width:       def.Width,
		Height:      def.Height,
		Cells:       slices.Clone(def.Cells),
		StartBorder: Border{Type: startType, Dir: startDir},
		EndBorder:   Border{Type: endType, Dir: endDir},
	}
	for _, p := range def.Path {
		t.Path = append(t.Path, geom.Point{X: p[0], Y: p[1]})
	}
	first, last := t.Path[0], t.Path[len(t.Path)-1]
	t.OffsetX, t.OffsetY = first.X, first.Y
	t.MovesX, t.MovesY = last.X-first.X, last.Y-first.Y
	for i, p := range t.Path {
		d := geom.DirNone
		if i+1 < len(t.Path) {
			next := t.Path[i+1]
			if dx, dy := next.X-p.X, next.Y-p.Y; max(abs(dx), abs(dy)) != 1 {
				return nil, fmt.Errorf("step %d (%d,%d) is not a unit move", i, dx, dy)
			}
			d = geom.Towards(p, next)
		}
		t.Steps = append(t.Steps, Step{
			X:           p.X - first.X,
			Y:           p.Y - first.Y,
			Dir:         d,
			Mask:        d.Mask(),
			ReverseMask: d.Reverse().Mask(),
		})
	}
	if got := t.Steps[0].Dir; got != startDir {
		return nil, fmt.Errorf("start direction %v does not match first step %v", startDir, got)
	}
	if got := t.Steps[len(t.Steps)-2].Dir; got != endDir {
		return nil, fmt.Errorf("end direction %v does not match last step %v", endDir, got)
	}
	for _, c := range t.Cells {
		if c.X < 0 || c.Y < 0 || c.X >= t.Width || c.Y >= t.Height {
			return nil, fmt.Errorf("cell (%d,%d) outside %dx%d footprint", c.X, c.Y, t.Width, t.Height)
		}
	}
	return t, nil
}

func parseDirection(letter string) (geom.Direction, error) {
	d, err := geom.ParseDirection(letter)
	if err != nil {
		return geom.DirNone, fmt.Errorf("%w: %q", ErrBadDirection, letter)
	}
	return d, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
