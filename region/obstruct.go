package region

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// ErrNoObstacle means an area needs obstructing but the catalog offers
// nothing to put there.
var ErrNoObstacle = errors.New("no obstacle available")

// Contract says what may replace a cell's current content.
type Contract uint8

const (
	ReplaceNone   Contract = 0
	ReplaceTile   Contract = 1
	ReplaceEntity Contract = 2
	ReplaceAny             = ReplaceTile | ReplaceEntity
)

// Admits reports whether an obstacle of kind k may be placed over the cell.
func (c Contract) Admits(k catalog.ObstacleKind) bool {
	switch k {
	case catalog.ObstacleTile:
		return c&ReplaceTile != 0
	case catalog.ObstacleEntity:
		return c&ReplaceEntity != 0
	}
	return false
}

func (c Contract) String() string {
	switch c {
	case ReplaceNone:
		return "none"
	case ReplaceTile:
		return "tile"
	case ReplaceEntity:
		return "entity"
	case ReplaceAny:
		return "any"
	}
	return fmt.Sprintf("Contract(%d)", uint8(c))
}

// Placement is an obstacle committed with its top-left cell at (X, Y).
type Placement struct {
	X, Y     int
	Obstacle catalog.Obstacle
}

// ObstructArea fills the cells marked in area with obstacles. Obstacles are
// tried largest footprint first; within a footprint size each remaining
// area cell is visited in shuffled order and offered a weighted pick. A
// pick is committed only when its whole footprint lies in the still open
// area and every covered cell's contract admits the obstacle's kind.
// Committed cells leave the area and their contracts become ReplaceNone.
//
// area and contracts are updated in place. Cells that no obstacle can take
// stay in area.
func ObstructArea(area []bool, contracts []Contract, size int, obstacles []catalog.Obstacle, r *random.Random) ([]Placement, error) {
	if !slices.Contains(area, true) {
		return nil, nil
	}
	var usable []catalog.Obstacle
	for _, o := range obstacles {
		if o.Weight > 0 && o.Width > 0 && o.Height > 0 {
			usable = append(usable, o)
		}
	}
	if len(usable) == 0 {
		return nil, ErrNoObstacle
	}
	slices.SortStableFunc(usable, func(a, b catalog.Obstacle) int {
		return cmp.Compare(b.Area(), a.Area())
	})

	var placements []Placement
	for lo := 0; lo < len(usable); {
		hi := lo + 1
		for hi < len(usable) && usable[hi].Area() == usable[lo].Area() {
			hi++
		}
		group := usable[lo:hi]
		weights := make([]float64, len(group))
		for i, o := range group {
			weights[i] = o.Weight
		}
		lo = hi

		var cells []int
		for i, open := range area {
			if open {
				cells = append(cells, i)
			}
		}
		random.Shuffle(r, cells)
		for _, i := range cells {
			if !area[i] {
				continue
			}
			o := random.PickWeighted(r, group, weights)
			x, y := i%size, i/size
			if !fits(area, contracts, size, o, x, y) {
				continue
			}
			for dy := 0; dy < o.Height; dy++ {
				for dx := 0; dx < o.Width; dx++ {
					j := (y+dy)*size + x + dx
					area[j] = false
					contracts[j] = ReplaceNone
				}
			}
			placements = append(placements, Placement{X: x, Y: y, Obstacle: o})
		}
	}
	return placements, nil
}

func fits(area []bool, contracts []Contract, size int, o catalog.Obstacle, x, y int) bool {
	if x+o.Width > size || y+o.Height > size {
		return false
	}
	for dy := 0; dy < o.Height; dy++ {
		for dx := 0; dx < o.Width; dx++ {
			j := (y+dy)*size + x + dx
			if !area[j] || !contracts[j].Admits(o.Kind) {
				return false
			}
		}
	}
	return true
}

// DenyWalledAreas obstructs every passable cell that is not part of the
// largest region inside ring. It returns the main region's id along with
// the placements.
func DenyWalledAreas(passable []bool, contracts []Contract, size, ring int, obstacles []catalog.Obstacle, r *random.Random) (int, []Placement, error) {
	regions := Label(passable, size)
	main := regions.Largest(ring)
	if main == -1 {
		return -1, nil, nil
	}
	placements, err := ObstructArea(regions.Outside(main), contracts, size, obstacles, r)
	if err != nil {
		return main, nil, fmt.Errorf("deny walled areas: %w", err)
	}
	return main, placements, nil
}
