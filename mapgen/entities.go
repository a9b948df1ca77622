package mapgen

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/noise"
	"github.com/nstehr/vimy/vimy-mapgen/region"
	"github.com/nstehr/vimy/vimy-mapgen/terrain"
	"github.com/nstehr/vimy/vimy-mapgen/zones"
)

// Resource densities per deposit kind, as the map format expects them.
const (
	oreDensity = 12
	gemDensity = 3
)

// walledRing is how far from the edge a region must reach to count as the
// main one.
const walledRing = 1

// asymmetryMarker is the actor dropped on cells that break symmetry.
const asymmetryMarker = "t01"

func (r *run) typeAt(i int) string {
	code := r.tiles.Codes[i]
	if !r.tiles.Assigned[i] {
		return ""
	}
	return r.cat.Type(code)
}

// zones places spawns, expansions and neutral buildings on clear land and
// turns them into players, entities, deposits and boulders.
func (r *run) zones() error {
	if !r.p.CreateEntities {
		return nil
	}
	n := r.size * r.size
	zoneable := make([]int8, n)
	for i := range zoneable {
		zoneable[i] = -1
		if r.typeAt(i) == catalog.TypeClear {
			zoneable[i] = 1
		}
	}
	planner := &zones.Planner{Params: r.p, Logger: r.log}
	layout, err := planner.Plan(r.rnd, zoneable)
	if err != nil {
		return err
	}
	r.stats.Expansions = layout.Expansions
	r.stats.Buildings = layout.Buildings

	for i, z := range layout.Players {
		r.players = append(r.players, model.Player{Number: i, Name: fmt.Sprintf("Multi%d", i), X: z.X, Y: z.Y})
		r.entities = append(r.entities, model.Entity{Type: "mpspawn", Owner: model.OwnerNeutral, X: z.X, Y: z.Y})
	}

	rock, hasRock := r.rockObstacle()
	for _, z := range layout.Zones {
		switch f := z.Feature.(type) {
		case zones.Spawn:
		case zones.Mine:
			r.entities = append(r.entities, model.Entity{Type: "mine", Owner: model.OwnerNeutral, X: z.X, Y: z.Y})
			r.deposit(z, model.ResourceOre, oreDensity)
		case zones.GemMine:
			r.entities = append(r.entities, model.Entity{Type: "gmine", Owner: model.OwnerNeutral, X: z.X, Y: z.Y})
			r.deposit(z, model.ResourceGems, gemDensity)
		case zones.Rock:
			if hasRock && r.typeAt(z.Y*r.size+z.X) == catalog.TypeClear {
				r.tiles.Set(z.X, z.Y, rock.Tiles[0])
			}
		case zones.NeutralBuilding:
			r.entities = append(r.entities, model.Entity{Type: f.Kind, Owner: model.OwnerNeutral, X: z.X, Y: z.Y})
		case zones.Spacer:
		}
		terrain.ReserveCircle(r.reserved, r.size, z.X, z.Y, z.Radius, true)
	}

	// Deposits only grow on clear ground.
	for i := range r.resources {
		if r.typeAt(i) != catalog.TypeClear {
			r.resources[i] = model.ResourceNone
			r.densities[i] = 0
		}
	}
	return nil
}

func (r *run) deposit(z zones.Zone, kind, density byte) {
	terrain.ReserveCircle(r.resources, r.size, z.X, z.Y, z.Radius, kind)
	terrain.ReserveCircle(r.densities, r.size, z.X, z.Y, z.Radius, density)
}

// rockObstacle is the single-cell tile obstacle used for boulder arcs.
func (r *run) rockObstacle() (catalog.Obstacle, bool) {
	for _, o := range r.cat.Obstacles() {
		if o.Kind == catalog.ObstacleTile && o.Width == 1 && o.Height == 1 && len(o.Tiles) == 1 {
			return o, true
		}
	}
	return catalog.Obstacle{}, false
}

// buildContracts decides what may later replace each cell. Zones and
// deposits are kept clear; fitter-painted playable tiles may only take
// actors so their borders stay intact.
func (r *run) buildContracts() {
	r.contracts = make([]region.Contract, r.size*r.size)
	for i := range r.contracts {
		t := r.typeAt(i)
		switch {
		case r.reserved[i] || r.resources[i] != model.ResourceNone:
			r.contracts[i] = region.ReplaceNone
		case !r.cat.Playable(t):
			r.contracts[i] = region.ReplaceNone
		case r.tiles.Painted[i] || t != catalog.TypeClear:
			r.contracts[i] = region.ReplaceEntity
		default:
			r.contracts[i] = region.ReplaceAny
		}
	}
}

// forests scatters tree actors over the densest Forest fraction of a
// symmetric simplex field, on cells whose contract admits anything.
func (r *run) forests() error {
	r.buildContracts()
	p := r.p
	if p.Forest <= 0 {
		return nil
	}
	field, err := r.symmetric(noise.SimplexSource{WavelengthScale: p.WavelengthScale})
	if err != nil {
		return err
	}
	terrain.Calibrate(field, 0, 1-p.Forest)
	grid := terrain.Binarize(field)
	if p.ForestClumpiness > 0 {
		grid, _, _ = terrain.MedianBlur(grid, r.size, p.ForestClumpiness, false, 0)
	}
	area := make([]bool, len(grid))
	for i, v := range grid {
		area[i] = v >= 0 && r.contracts[i] == region.ReplaceAny
	}
	var trees []catalog.Obstacle
	for _, o := range r.cat.Obstacles() {
		if o.Kind == catalog.ObstacleEntity {
			trees = append(trees, o)
		}
	}
	placements, err := region.ObstructArea(area, r.contracts, r.size, trees, r.rnd)
	if err != nil {
		return err
	}
	r.place(placements)
	r.stats.Trees = len(placements)
	return nil
}

func (r *run) place(placements []region.Placement) {
	for _, pl := range placements {
		o := pl.Obstacle
		switch o.Kind {
		case catalog.ObstacleTile:
			for dy := 0; dy < o.Height; dy++ {
				for dx := 0; dx < o.Width; dx++ {
					if k := dy*o.Width + dx; k < len(o.Tiles) {
						r.tiles.Set(pl.X+dx, pl.Y+dy, o.Tiles[k])
					}
				}
			}
		case catalog.ObstacleEntity:
			r.entities = append(r.entities, model.Entity{
				Type:     o.Actor,
				Owner:    model.OwnerNeutral,
				X:        pl.X,
				Y:        pl.Y,
				Obstacle: true,
				Width:    o.Width,
				Height:   o.Height,
			})
		}
	}
}

// passable marks playable cells no actor stands on. Actors without a
// footprint take their own cell.
func (r *run) passable() []bool {
	out := make([]bool, r.size*r.size)
	for i := range out {
		out[i] = r.cat.Playable(r.typeAt(i))
	}
	for _, e := range r.entities {
		w, h := max(e.Width, 1), max(e.Height, 1)
		for y := e.Y; y < e.Y+h; y++ {
			for x := e.X; x < e.X+w; x++ {
				if geom.InBounds(x, y, r.size) {
					out[y*r.size+x] = false
				}
			}
		}
	}
	return out
}

// regions labels the playable area and, when asked, fills every pocket
// outside the main region with obstacles.
func (r *run) regions() error {
	passable := r.passable()
	regions := region.Label(passable, r.size)
	main := regions.Largest(walledRing)
	r.stats.Regions = regions.Count()
	if main >= 0 {
		r.stats.MainRegionSize = regions.Sizes[main]
	}
	if !r.p.DenyWalledAreas {
		return nil
	}
	_, placements, err := region.DenyWalledAreas(passable, r.contracts, r.size, walledRing, r.cat.Obstacles(), r.rnd)
	if err != nil {
		return err
	}
	r.place(placements)
	r.stats.Obstructed = len(placements)
	r.log.Debug("denied walled areas", "regions", regions.Count(), "main", main, "placements", len(placements))
	return nil
}

// finish marks asymmetric cells when asked, counts seams between drawn
// templates that do not match, then resolves tile indices.
func (r *run) finish() error {
	if r.p.EnforceSymmetry {
		if err := r.enforceSymmetry(); err != nil {
			return err
		}
	}
	if bad := r.tiles.CheckBorders(r.cat); len(bad) > 0 {
		r.stats.BorderMismatches = len(bad)
		r.log.Warn("template borders do not match", "count", len(bad), "first", bad[0].String())
	}
	r.tiles.ResolveIndices(r.rnd, r.cat)
	return nil
}

// enforceSymmetry drops an asymmetryMarker on every cell whose terrain type
// differs from one of its rotated or mirrored images.
func (r *run) enforceSymmetry() error {
	size := r.size
	var images func(x, y int) [][2]int
	switch r.p.Rotations {
	case 1:
		images = func(x, y int) [][2]int { return [][2]int{{x, y}} }
	case 2:
		images = func(x, y int) [][2]int { return [][2]int{{x, y}, {size - 1 - x, size - 1 - y}} }
	case 4:
		images = func(x, y int) [][2]int {
			return [][2]int{{x, y}, {size - 1 - y, x}, {size - 1 - x, size - 1 - y}, {y, size - 1 - x}}
		}
	default:
		return fmt.Errorf("%w: cannot enforce symmetry for %d rotations", ErrInvalidParams, r.p.Rotations)
	}
	types := r.tiles.Types(r.cat)
	matches := func(x, y int, base string) bool {
		for _, c := range images(x, y) {
			if types[c[1]*size+c[0]] != base {
				return false
			}
		}
		return true
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			base := types[y*size+x]
			ok := matches(x, y, base)
			if ok && r.mirror != geom.MirrorNone {
				mx, my := geom.Mirror(x, y, size, r.mirror)
				ok = matches(mx, my, base)
			}
			if ok {
				continue
			}
			r.entities = append(r.entities, model.Entity{
				Type: asymmetryMarker, Owner: model.OwnerNeutral, X: x, Y: y,
				Obstacle: true, Width: 1, Height: 1,
			})
			r.stats.AsymmetricCells++
		}
	}
	return nil
}

func (r *run) result() *model.Map {
	return &model.Map{
		Tileset:           r.cat.Name(),
		Size:              r.size,
		Seed:              r.p.Seed,
		Tiles:             r.tiles.Codes,
		Types:             r.tiles.Types(r.cat),
		Resources:         r.resources,
		ResourceDensities: r.densities,
		Entities:          r.entities,
		Players:           r.players,
		Stats:             r.stats,
	}
}
