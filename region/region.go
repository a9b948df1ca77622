// Package region finds connected playable areas of a finished map and
// blocks off the ones that should not be reachable.
package region

// Regions labels every passable cell of a size x size grid with the id of
// its 4-connected region. Impassable cells have id -1.
type Regions struct {
	Size  int
	IDs   []int
	Sizes []int // cell count per region id
}

func (r Regions) Count() int { return len(r.Sizes) }

// Label flood-fills passable cells into regions, ids in row-major order of
// each region's first cell.
func Label(passable []bool, size int) Regions {
	total := size * size
	ids := make([]int, total)
	for i := range ids {
		ids[i] = -1
	}
	var sizes []int
	queue := make([]int, 0, total)
	for start := range ids {
		if !passable[start] || ids[start] != -1 {
			continue
		}
		id := len(sizes)
		ids[start] = id
		queue = append(queue[:0], start)
		count := 0
		for head := 0; head < len(queue); head++ {
			i := queue[head]
			count++
			x, y := i%size, i/size
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || nx >= size || ny < 0 || ny >= size {
					continue
				}
				j := ny*size + nx
				if passable[j] && ids[j] == -1 {
					ids[j] = id
					queue = append(queue, j)
				}
			}
		}
		sizes = append(sizes, count)
	}
	return Regions{Size: size, IDs: ids, Sizes: sizes}
}

// Largest returns the region with the most cells at least ring cells away
// from every map edge, the lowest id on ties, or -1 when no region reaches
// inside the ring. A ring of 0 counts every cell.
func (r Regions) Largest(ring int) int {
	inner := make([]int, r.Count())
	for i, id := range r.IDs {
		if id < 0 {
			continue
		}
		x, y := i%r.Size, i/r.Size
		if x < ring || y < ring || x >= r.Size-ring || y >= r.Size-ring {
			continue
		}
		inner[id]++
	}
	best := -1
	for id, n := range inner {
		if n > 0 && (best == -1 || n > inner[best]) {
			best = id
		}
	}
	return best
}

// Outside returns a mask of passable cells that are not in region id.
func (r Regions) Outside(id int) []bool {
	out := make([]bool, len(r.IDs))
	for i, v := range r.IDs {
		out[i] = v >= 0 && v != id
	}
	return out
}
