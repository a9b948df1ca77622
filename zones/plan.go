package zones

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/random"
	"github.com/nstehr/vimy/vimy-mapgen/terrain"
)

// ErrNoRoom means the map has no zoneable cell left for a spawn.
var ErrNoRoom = errors.New("no room for a spawn")

// DefaultBuildingKinds are the neutral structures a plan picks from.
var DefaultBuildingKinds = []string{"oilb", "hosp", "miss", "bio"}

// Layout is the result of a plan. Players are the spawn zones in numbering
// order. Zones holds every placed zone, spawns included.
type Layout struct {
	Players    []Zone
	Zones      []Zone
	Expansions int
	Buildings  int
}

// Planner places zones on the cells a zoneable grid marks as open (>= 0).
type Planner struct {
	Params        model.Params
	BuildingKinds []string     // DefaultBuildingKinds when empty
	Logger        *slog.Logger // slog.Default() when nil
}

func (pl *Planner) logger() *slog.Logger {
	if pl.Logger != nil {
		return pl.Logger
	}
	return slog.Default()
}

func (pl *Planner) ringParams() RingParams {
	p := pl.Params
	return RingParams{
		SpawnMines:     p.SpawnMines,
		SpawnOre:       p.SpawnOre,
		ExpansionMines: p.ExpansionMines,
		ExpansionOre:   p.ExpansionOre,
		GemFraction:    p.GemFraction,
		RockWeight:     p.RockWeight,
		RockSize:       p.RockSize,
	}
}

// Plan places PlayersPerRotation spawns with their mine rings, up to
// MaxExpansions expansions and up to MaxBuildings neutral buildings. Each
// placement goes to a random roomiest cell and is projected through the
// map symmetry; everything placed so far is reserved before the next pick.
func (pl *Planner) Plan(r *random.Random, zoneable []int8) (*Layout, error) {
	p := pl.Params
	size := p.Size
	mirror := geom.MirrorAxis(p.Mirror)
	log := pl.logger()
	layout := &Layout{}

	project := func(zs ...Zone) ([]Zone, error) {
		return RotateAndMirror(zs, size, p.Rotations, mirror)
	}
	roominess := terrain.Roominess(zoneable, size, false)
	reserve := func() {
		for _, z := range layout.Zones {
			terrain.ReserveCircle(roominess, size, z.X, z.Y, z.Radius, -1)
		}
	}

	for i := 0; i < p.PlayersPerRotation; i++ {
		roominess = terrain.Roominess(roominess, size, false)
		prefs := SpawnPreferences(roominess, size, p.CentralReservation, p.SpawnRegionSize, mirror)
		at, value := FindRandomMax(r, prefs, size, p.SpawnRegionSize)
		room := value - 1
		if room < 1 {
			return nil, fmt.Errorf("spawn %d: best roominess %d: %w", i, value, ErrNoRoom)
		}
		spawn := Zone{X: at.X, Y: at.Y, Radius: p.SpawnBuildSize, Feature: Spawn{}}
		players, err := project(spawn)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		layout.Players = append(layout.Players, players...)

		ring, err := FeatureRing(r, at, RingSpawn, min(p.SpawnBuildSize, room), min(p.SpawnRegionSize, room), pl.ringParams())
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", i, err)
		}
		placed, err := project(append([]Zone{spawn}, ring...)...)
		if err != nil {
			return nil, fmt.Errorf("spawn %d ring: %w", i, err)
		}
		layout.Zones = append(layout.Zones, placed...)
		reserve()
		log.Debug("placed spawn", "x", at.X, "y", at.Y, "room", room, "features", len(ring))
	}

	for i := 0; i < p.MaxExpansions; i++ {
		roominess = terrain.Roominess(roominess, size, false)
		at, value := FindRandomMax(r, roominess, size, p.MaxExpansionSize+p.ExpansionBorder)
		room := value - 1
		radius2 := room - p.ExpansionBorder
		if radius2 < p.MinExpansionSize {
			break
		}
		radius2 = min(radius2, p.MaxExpansionSize)
		radius1 := min(p.ExpansionInner, room, radius2)
		ring, err := FeatureRing(r, at, RingExpansion, radius1, radius2, pl.ringParams())
		if err != nil {
			return nil, fmt.Errorf("expansion %d: %w", i, err)
		}
		placed, err := project(ring...)
		if err != nil {
			return nil, fmt.Errorf("expansion %d: %w", i, err)
		}
		layout.Zones = append(layout.Zones, placed...)
		layout.Expansions++
		reserve()
		log.Debug("placed expansion", "x", at.X, "y", at.Y, "inner", radius1, "outer", radius2, "features", len(ring))
	}

	if p.MaxBuildings > 0 {
		kinds := pl.BuildingKinds
		if len(kinds) == 0 {
			kinds = DefaultBuildingKinds
		}
		n := int(r.Uint32() % uint32(p.MaxBuildings+1))
		for i := 0; i < n; i++ {
			roominess = terrain.Roominess(roominess, size, false)
			at, value := FindRandomMax(r, roominess, size, 3)
			if value < 3 {
				break
			}
			b := Zone{X: at.X, Y: at.Y, Radius: 2, Feature: NeutralBuilding{Kind: random.Pick(r, kinds)}}
			placed, err := project(b)
			if err != nil {
				return nil, fmt.Errorf("building %d: %w", i, err)
			}
			layout.Zones = append(layout.Zones, placed...)
			layout.Buildings++
			reserve()
		}
	}
	return layout, nil
}
