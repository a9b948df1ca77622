package model

import (
	"fmt"
	"sort"
)

// Params are the knobs of one generation run. Field tags double as the
// config keys and the expression names used by parameter rules.
type Params struct {
	Seed               int32 `json:"seed" mapstructure:"seed"`
	Size               int   `json:"size" mapstructure:"size"`
	Rotations          int   `json:"rotations" mapstructure:"rotations"`
	Mirror             int   `json:"mirror" mapstructure:"mirror"`
	PlayersPerRotation int   `json:"playersPerRotation" mapstructure:"players-per-rotation"`

	Water              float64 `json:"water" mapstructure:"water"`
	Mountain           float64 `json:"mountain" mapstructure:"mountain"`
	Forest             float64 `json:"forest" mapstructure:"forest"`
	TerrainSmoothing   int     `json:"terrainSmoothing" mapstructure:"terrain-smoothing"`
	SmoothingThreshold float64 `json:"smoothingThreshold" mapstructure:"smoothing-threshold"`
	MinimumThickness   int     `json:"minimumThickness" mapstructure:"minimum-thickness"`
	// MinimumMountainThickness bounds the width of altitude bands.
	MinimumMountainThickness int     `json:"minimumMountainThickness" mapstructure:"minimum-mountain-thickness"`
	WavelengthScale          float64 `json:"wavelengthScale" mapstructure:"wavelength-scale"`
	RoughnessRadius          int     `json:"roughnessRadius" mapstructure:"roughness-radius"`
	// Roughness is the fraction of mountain outline drawn as cliffs.
	Roughness        float64 `json:"roughness" mapstructure:"roughness"`
	MaximumAltitude  int     `json:"maximumAltitude" mapstructure:"maximum-altitude"`
	ForestClumpiness int     `json:"forestClumpiness" mapstructure:"forest-clumpiness"`
	EnforceSymmetry  bool    `json:"enforceSymmetry" mapstructure:"enforce-symmetry"`
	DenyWalledAreas  bool    `json:"denyWalledAreas" mapstructure:"deny-walled-areas"`
	CreateEntities   bool    `json:"createEntities" mapstructure:"create-entities"`

	CentralReservation int     `json:"centralReservation" mapstructure:"central-reservation"`
	SpawnRegionSize    int     `json:"spawnRegionSize" mapstructure:"spawn-region-size"`
	SpawnBuildSize     int     `json:"spawnBuildSize" mapstructure:"spawn-build-size"`
	SpawnMines         int     `json:"spawnMines" mapstructure:"spawn-mines"`
	SpawnOre           int     `json:"spawnOre" mapstructure:"spawn-ore"`
	MaxExpansions      int     `json:"maxExpansions" mapstructure:"max-expansions"`
	MinExpansionSize   int     `json:"minExpansionSize" mapstructure:"min-expansion-size"`
	MaxExpansionSize   int     `json:"maxExpansionSize" mapstructure:"max-expansion-size"`
	ExpansionInner     int     `json:"expansionInner" mapstructure:"expansion-inner"`
	ExpansionBorder    int     `json:"expansionBorder" mapstructure:"expansion-border"`
	ExpansionMines     float64 `json:"expansionMines" mapstructure:"expansion-mines"`
	ExpansionOre       int     `json:"expansionOre" mapstructure:"expansion-ore"`
	GemFraction        float64 `json:"gemFraction" mapstructure:"gem-fraction"`
	RockWeight         float64 `json:"rockWeight" mapstructure:"rock-weight"`
	RockSize           int     `json:"rockSize" mapstructure:"rock-size"`
	MaxBuildings       int     `json:"maxBuildings" mapstructure:"max-buildings"`
}

// DefaultParams is the "basic" preset.
func DefaultParams() Params {
	return Params{
		Seed:               -2024525772,
		Size:               96,
		Rotations:          2,
		Mirror:             0,
		PlayersPerRotation: 1,

		Water:                    0.5,
		Mountain:                 0.1,
		Forest:                   0.04,
		TerrainSmoothing:         4,
		SmoothingThreshold:       0.33,
		MinimumThickness:         5,
		MinimumMountainThickness: 5,
		WavelengthScale:          1.0,
		RoughnessRadius:          5,
		Roughness:                0.5,
		MaximumAltitude:          1,
		ForestClumpiness:         1,
		EnforceSymmetry:          false,
		DenyWalledAreas:          true,
		CreateEntities:           true,

		CentralReservation: 16,
		SpawnRegionSize:    16,
		SpawnBuildSize:     8,
		SpawnMines:         3,
		SpawnOre:           3,
		MaxExpansions:      4,
		MinExpansionSize:   2,
		MaxExpansionSize:   12,
		ExpansionInner:     4,
		ExpansionBorder:    4,
		ExpansionMines:     0.02,
		ExpansionOre:       5,
		GemFraction:        0,
		RockWeight:         0.1,
		RockSize:           4,
		MaxBuildings:       3,
	}
}

var presets = map[string]func(*Params){
	"basic": func(*Params) {},
	"plains": func(p *Params) {
		p.Water = 0
		p.WavelengthScale = 0.2
	},
	"wetlands": func(p *Params) {
		p.Water = 0.5
		p.WavelengthScale = 0.2
	},
	"wetlands-narrow": func(p *Params) {
		p.Water = 0.5
		p.WavelengthScale = 0.05
	},
	"puddles": func(p *Params) {
		p.Water = 0.2
		p.WavelengthScale = 0.2
	},
	"oceanic": func(p *Params) {
		p.Water = 0.8
		p.WavelengthScale = 0.2
	},
}

// Preset returns the default parameters adjusted by the named preset. The
// layout fields (seed, size, rotations, mirror, players) are taken from
// base.
func Preset(name string, base Params) (Params, error) {
	apply, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	p := DefaultParams()
	p.Seed = base.Seed
	p.Size = base.Size
	p.Rotations = base.Rotations
	p.Mirror = base.Mirror
	p.PlayersPerRotation = base.PlayersPerRotation
	apply(&p)
	return p, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
