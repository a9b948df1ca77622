package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// Definition is the serialized catalog.
type Definition struct {
	Name      string                    `json:"name"`
	Tiles     []TileDef                 `json:"tiles"`
	Templates []TemplateDef             `json:"templates"`
	Fill      map[string]model.TileCode `json:"fill"`
	Obstacles []Obstacle                `json:"obstacles"`
	Playable  []string                  `json:"playable"`
}

// TileDef describes one tile. Index 255 denotes the whole template, with
// Codes listing the concrete tiles it may resolve to.
type TileDef struct {
	Template uint16           `json:"template"`
	Index    uint8            `json:"index"`
	Type     string           `json:"type"`
	L        string           `json:"l"`
	R        string           `json:"r"`
	U        string           `json:"u"`
	D        string           `json:"d"`
	Codes    []model.TileCode `json:"codes,omitempty"`
}

// TemplateDef describes a template path. Path points are template-local
// corners; StartDir and EndDir are octant letters (R, RD, D, ...).
type TemplateDef struct {
	ID        uint16   `json:"id"`
	Name      string   `json:"name"`
	Family    string   `json:"family"`
	StartType string   `json:"startType,omitempty"`
	EndType   string   `json:"endType,omitempty"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Cells     []Cell   `json:"cells"`
	Path      [][2]int `json:"path"`
	StartDir  string   `json:"startDir"`
	EndDir    string   `json:"endDir"`
}

// Load decodes a JSON definition and builds a Catalog from it.
func Load(r io.Reader) (*Catalog, error) {
	var def Definition
	if err := json.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(def)
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}
