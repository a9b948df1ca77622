// Package zones places spawns, expansions and neutral structures on a
// tiled map and projects them through the map's rotation and mirror
// symmetry.
package zones

import (
	"errors"
	"fmt"
	"math"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// ErrProjection means a rotated or mirrored zone fell off the map.
var ErrProjection = errors.New("projection out of bounds")

// Feature is what a zone holds: one of Spawn, Mine, GemMine, Rock, Spacer
// or NeutralBuilding.
type Feature interface {
	isFeature()
}

// Spawn is a player start location.
type Spawn struct{}

// Mine is an ore field with a mine actor at its center.
type Mine struct{}

// GemMine is a gem field with a gem mine actor at its center.
type GemMine struct{}

// Rock is a single cell of a boulder arc.
type Rock struct{}

// Spacer only advances a feature ring; it is never emitted.
type Spacer struct{}

// NeutralBuilding is a capturable or decorative structure.
type NeutralBuilding struct {
	Kind string
}

func (Spawn) isFeature()           {}
func (Mine) isFeature()            {}
func (GemMine) isFeature()         {}
func (Rock) isFeature()            {}
func (Spacer) isFeature()          {}
func (NeutralBuilding) isFeature() {}

// Zone is a feature placed at a cell with the radius it reserves.
type Zone struct {
	X, Y    int
	Radius  int
	Feature Feature
}

func (z Zone) String() string {
	return fmt.Sprintf("%T@(%d,%d)r%d", z.Feature, z.X, z.Y, z.Radius)
}

// RingKind selects what a feature ring is seeded with.
type RingKind int

const (
	RingEmpty RingKind = iota
	RingSpawn
	RingExpansion
)

// RingParams are the knobs of FeatureRing.
type RingParams struct {
	SpawnMines     int
	SpawnOre       int
	ExpansionMines float64
	ExpansionOre   int
	GemFraction    float64
	RockWeight     float64
	RockSize       int
}

type ringItem struct {
	feature Feature
	radius  int
	size    int
}

// FeatureRing lays features around center between radius1 and radius2.
// The ring's circumference is a budget: spawn rings seed SpawnMines mines,
// expansion rings a random number of mines scaled by ExpansionMines, then
// rocks take what they can and spacers pad the rest. The items are shuffled
// and walked around the ring from a random start angle. Rocks become arcs
// of single-cell Rock zones.
func FeatureRing(r *random.Random, center geom.Point, kind RingKind, radius1, radius2 int, p RingParams) ([]Zone, error) {
	if radius1 > radius2 {
		return nil, fmt.Errorf("ring radius %d exceeds %d", radius1, radius2)
	}
	radius := float64(radius1+radius2) / 2
	circumference := radius * math.Pi * 2
	budget := int(circumference)

	var ring []ringItem
	switch kind {
	case RingSpawn:
		for i := 0; i < p.SpawnMines; i++ {
			ring = append(ring, ringItem{feature: Mine{}, radius: p.SpawnOre, size: p.SpawnOre*2 - 1})
			budget -= p.SpawnOre*2 - 1
		}
	case RingExpansion:
		mines := 1 + int(r.Float64()*circumference*p.ExpansionMines)
		for i := 0; i < mines && budget > 0; i++ {
			mr := max(1, int(r.Float64()*float64(p.ExpansionOre)))
			var f Feature = Mine{}
			if p.GemFraction > 0 && r.Float64() < p.GemFraction {
				f = GemMine{}
			}
			ring = append(ring, ringItem{feature: f, radius: mr, size: mr*2 - 1})
			budget -= mr*2 - 1
		}
	case RingEmpty:
	default:
		return nil, fmt.Errorf("unknown ring kind %d", kind)
	}

	rocks := int(r.Float64() * circumference * p.RockWeight)
	for i := 0; i < rocks && budget >= p.RockSize; i++ {
		rr := 4 + int(r.Float64()*float64(p.RockSize))
		ring = append(ring, ringItem{feature: Rock{}, radius: rr, size: rr*2 - 1})
		budget -= rr*2 - 1
	}
	for budget > 0 {
		ring = append(ring, ringItem{feature: Spacer{}, radius: 1, size: 1})
		budget--
	}

	random.Shuffle(r, ring)
	// The item list always starts on a boundary; a random start angle hides
	// the seam.
	angle := r.Float64() * math.Pi * 2
	perUnit := math.Pi * 2 / circumference
	place := func(dist float64) (int, int) {
		return roundHalfUp(float64(center.X) + dist*math.Cos(angle)), roundHalfUp(float64(center.Y) + dist*math.Sin(angle))
	}
	distance := func(it ringItem) float64 {
		if radius2-radius1 <= it.size {
			return radius
		}
		return float64(it.radius+radius1) + r.Float64()*float64(radius2-radius1-it.radius*2)
	}

	var out []Zone
	for _, it := range ring {
		switch it.feature.(type) {
		case Spacer:
			angle += float64(it.radius) * perUnit
		case Mine, GemMine:
			angle += float64(it.radius) * perUnit
			x, y := place(distance(it))
			out = append(out, Zone{X: x, Y: y, Radius: it.radius, Feature: it.feature})
			angle += float64(it.radius-1) * perUnit
		case Rock:
			dist := distance(it)
			angle += perUnit * 2
			for i := 2; i < it.size-2; i++ {
				x, y := place(dist)
				out = append(out, Zone{X: x, Y: y, Radius: 1, Feature: Rock{}})
				angle += perUnit
			}
			angle += perUnit * 2
		}
	}
	return out, nil
}

// roundHalfUp rounds like a browser's Math.round: halves go toward +inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// RotateAndMirror returns every zone projected through each of rotations
// turns about the map center, each followed by its mirror image when mirror
// is set. Projections keep the zone's radius and feature.
func RotateAndMirror(zones []Zone, size, rotations int, mirror geom.MirrorAxis) ([]Zone, error) {
	if rotations < 1 {
		return nil, fmt.Errorf("rotations %d: must be at least 1", rotations)
	}
	o := float64(size-1) / 2
	out := make([]Zone, 0, len(zones)*rotations*2)
	for _, z := range zones {
		for k := 0; k < rotations; k++ {
			c, s := geom.RotationCosSin(k, rotations)
			rx, ry := float64(z.X)-o, float64(z.Y)-o
			px := roundHalfUp(rx*c - ry*s + o)
			py := roundHalfUp(rx*s + ry*c + o)
			if !geom.InBounds(px, py, size) {
				return nil, fmt.Errorf("%v turn %d/%d lands on (%d,%d): %w", z, k, rotations, px, py, ErrProjection)
			}
			p := z
			p.X, p.Y = px, py
			out = append(out, p)
			if mirror != geom.MirrorNone {
				m := p
				m.X, m.Y = geom.Mirror(px, py, size, mirror)
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// FindRandomMax picks uniformly among the cells holding the largest value,
// with values at or above limit all counting as limit. It returns the cell
// and that (capped) value.
func FindRandomMax(r *random.Random, values []int, size, limit int) (geom.Point, int) {
	best := math.MinInt
	var candidates []int
	for i, v := range values {
		if best < limit && v > best {
			best = min(v, limit)
			candidates = candidates[:0]
		}
		if v == best || (best == limit && v >= limit) {
			candidates = append(candidates, i)
		}
	}
	choice := random.Pick(r, candidates)
	return geom.Point{X: choice % size, Y: choice / size}, best
}

// SpawnPreferences caps roominess at spawnRegionSize and demotes cells near
// the center (or near the mirror line when mirroring) to 1 so spawns go
// there only as a last resort.
func SpawnPreferences(roominess []int, size, centralReservation, spawnRegionSize int, mirror geom.MirrorAxis) []int {
	prefs := make([]int, len(roominess))
	o := float64(size-1) / 2
	cr := float64(centralReservation)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*size + x
			prefs[i] = min(roominess[i], spawnRegionSize)
			if prefs[i] <= 1 {
				continue
			}
			fx, fy := float64(x), float64(y)
			var near bool
			switch mirror {
			case geom.MirrorHorizontal:
				near = math.Abs(fy-o) <= cr
			case geom.MirrorDiagonal:
				near = math.Abs(fx-fy) <= cr*math.Sqrt2
			case geom.MirrorVertical:
				near = math.Abs(fx-o) <= cr
			case geom.MirrorAntiDiagonal:
				near = math.Abs(float64(size-1-x)-fy) <= cr*math.Sqrt2
			default:
				rx, ry := fx-o, fy-o
				near = rx*rx+ry*ry <= cr*cr
			}
			if near {
				prefs[i] = 1
			}
		}
	}
	return prefs
}
