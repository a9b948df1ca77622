package ipc

import (
	"encoding/json"

	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// These constants must stay in sync with the message types of the OpenRA host.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeGenerate = "generate"
	TypeProgress = "progress"
	TypeMap      = "map"
	TypeError    = "error"
)

type HelloMessage struct {
	Client  string `json:"client"`
	Version string `json:"version,omitempty"`
}

type AckMessage struct {
	Status  string   `json:"status"`
	Tileset string   `json:"tileset"`
	Presets []string `json:"presets"`
}

// GenerateRequest asks for one map. Params is a partial model.Params
// object laid over the server defaults (after Preset, if any), so a host
// only sends the knobs it changes.
type GenerateRequest struct {
	RequestID string          `json:"requestId,omitempty"`
	Preset    string          `json:"preset,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// ProgressMessage is sent after every pipeline stage.
type ProgressMessage struct {
	RequestID string      `json:"requestId"`
	Stage     string      `json:"stage"`
	Step      int         `json:"step"`
	Steps     int         `json:"steps"`
	ElapsedMS int64       `json:"elapsedMs"`
	Stats     model.Stats `json:"stats"`
}

type MapMessage struct {
	RequestID string       `json:"requestId"`
	Cached    bool         `json:"cached"`
	Params    model.Params `json:"params"`
	Map       *model.Map   `json:"map"`
	Terrain   *TerrainData `json:"terrain,omitempty"`
}

// TerrainData is the coarse terrain grid of a generated map, in the shape
// vimy-core agents already consume.
type TerrainData struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	CellW int   `json:"cellW"`
	CellH int   `json:"cellH"`
	Grid  []int `json:"grid"`
}

// NewTerrainData flattens a coarse grid for the wire.
func NewTerrainData(g *model.TerrainGrid) *TerrainData {
	if g == nil {
		return nil
	}
	grid := make([]int, len(g.Grid))
	for i, t := range g.Grid {
		grid[i] = int(t)
	}
	return &TerrainData{Cols: g.Cols, Rows: g.Rows, CellW: g.CellW, CellH: g.CellH, Grid: grid}
}

// Error codes carried by ErrorMessage.
const (
	CodeBadRequest    = "bad_request"
	CodeInvalidParams = "invalid_params"
	CodeUnsatisfiable = "unsatisfiable"
	CodeNoRoom        = "no_room"
	CodeCancelled     = "cancelled"
	CodeInternal      = "internal"
)

type ErrorMessage struct {
	RequestID string `json:"requestId,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}
