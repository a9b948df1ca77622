package model

// Owner names used for map actors.
const (
	OwnerNeutral = "Neutral"
	OwnerCreeps  = "Creeps"
)

// Resource types stored in Map.Resources.
const (
	ResourceNone byte = 0
	ResourceOre  byte = 1
	ResourceGems byte = 2
)

// Entity is one actor placed on the map. Obstacles (trees and the like)
// carry their footprint so consumers can treat those cells as blocked.
type Entity struct {
	Type     string `json:"type"`
	Owner    string `json:"owner"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Obstacle bool   `json:"obstacle,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Player is a spawn point. Number follows generation order; Name is the
// map's player reference (Multi0, Multi1, ...).
type Player struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Stats records how a run went without failing it.
type Stats struct {
	StabilizeRounds  int  `json:"stabilizeRounds"`
	Converged        bool `json:"converged"`
	Leveled          int  `json:"leveled"`
	Coastlines       int  `json:"coastlines"`
	MountainCells    int  `json:"mountainCells"`
	Cliffs           int  `json:"cliffs"`
	CliffsDropped    int  `json:"cliffsDropped"`
	Expansions       int  `json:"expansions"`
	Buildings        int  `json:"buildings"`
	Trees            int  `json:"trees"`
	Regions          int  `json:"regions"`
	MainRegionSize   int  `json:"mainRegionSize"`
	Obstructed       int  `json:"obstructed"`
	AsymmetricCells  int  `json:"asymmetricCells"`
	BorderMismatches int  `json:"borderMismatches"`
}

// Map is the finished output of a run. All grids are row-major Size*Size.
type Map struct {
	Tileset           string     `json:"tileset"`
	Size              int        `json:"size"`
	Seed              int32      `json:"seed"`
	Tiles             []TileCode `json:"tiles"`
	Types             []string   `json:"types"`
	Resources         []byte     `json:"resources"`
	ResourceDensities []byte     `json:"resourceDensities"`
	Entities          []Entity   `json:"entities"`
	Players           []Player   `json:"players"`
	Stats             Stats      `json:"stats"`
}

// TypeAt returns the terrain type of cell (x, y), "" off the map.
func (m *Map) TypeAt(x, y int) string {
	if x < 0 || x >= m.Size || y < 0 || y >= m.Size {
		return ""
	}
	return m.Types[y*m.Size+x]
}
