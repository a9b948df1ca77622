package rules

import (
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// ParamEnv wraps run parameters and exposes helper methods callable from
// expr expressions.
type ParamEnv struct {
	Params model.Params
}

func (e ParamEnv) ValidMirror() bool {
	return geom.MirrorAxis(e.Params.Mirror).Valid()
}

func (e ParamEnv) Mirrored() bool {
	return e.Params.Mirror != int(geom.MirrorNone)
}

// TotalPlayers counts the spawns a run will place once rotation and mirror
// copies are included.
func (e ParamEnv) TotalPlayers() int {
	n := e.Params.Rotations * e.Params.PlayersPerRotation
	if e.Mirrored() {
		n *= 2
	}
	return n
}

// SymmetryCheckable reports whether the rotation count maps cells onto cells
// exactly, which symmetry enforcement needs.
func (e ParamEnv) SymmetryCheckable() bool {
	switch e.Params.Rotations {
	case 1, 2, 4:
		return true
	}
	return false
}

// LandFraction is what is left for land after water and mountains.
func (e ParamEnv) LandFraction() float64 {
	return 1 - e.Params.Water - e.Params.Mountain
}

// SpawnFootprint is the diameter of the area a spawn and its mines reserve.
func (e ParamEnv) SpawnFootprint() int {
	return e.Params.SpawnRegionSize*2 + 1
}
