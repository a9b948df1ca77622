package model

import (
	"fmt"
)

// AnyIndex marks a tile code whose index is chosen late (see
// tiling.Tiles.ResolveIndices).
const AnyIndex uint8 = 0xff

// TileCode identifies one tile of a tileset template, written tNiM in the
// OpenRA tileset data.
type TileCode struct {
	Template uint16 `json:"template"`
	Index    uint8  `json:"index"`
}

func (c TileCode) String() string {
	if c.Index == AnyIndex {
		return fmt.Sprintf("t%d", c.Template)
	}
	return fmt.Sprintf("t%di%d", c.Template, c.Index)
}

// IsAny reports whether the index is still unresolved.
func (c TileCode) IsAny() bool { return c.Index == AnyIndex }
