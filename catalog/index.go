package catalog

import (
	"math"
	"sort"
)

// Index chains the templates of one family: which templates leave or reach
// a border, a dense numbering of the family's borders and the shortest
// chain between any two of them.
type Index struct {
	family    string
	byStart   map[Border][]*Template
	byEnd     map[Border][]*Template
	borders   []Border
	borderIdx map[Border]int
	steps     [][]int // fewest template steps from border i to border j
}

func newIndex(family string, templates []*Template) *Index {
	x := &Index{
		family:    family,
		byStart:   make(map[Border][]*Template),
		byEnd:     make(map[Border][]*Template),
		borderIdx: make(map[Border]int),
	}
	for _, t := range templates {
		if t.Family != family {
			continue
		}
		x.byStart[t.StartBorder] = append(x.byStart[t.StartBorder], t)
		x.byEnd[t.EndBorder] = append(x.byEnd[t.EndBorder], t)
		for _, b := range []Border{t.StartBorder, t.EndBorder} {
			if _, ok := x.borderIdx[b]; !ok {
				x.borderIdx[b] = 0
				x.borders = append(x.borders, b)
			}
		}
	}
	sort.Slice(x.borders, func(i, j int) bool {
		if x.borders[i].Type != x.borders[j].Type {
			return x.borders[i].Type < x.borders[j].Type
		}
		return x.borders[i].Dir < x.borders[j].Dir
	})
	for i, b := range x.borders {
		x.borderIdx[b] = i
	}

	n := len(x.borders)
	x.steps = make([][]int, n)
	for i := range x.steps {
		x.steps[i] = make([]int, n)
		for j := range x.steps[i] {
			x.steps[i][j] = math.MaxInt
		}
	}
	for _, t := range templates {
		if t.Family != family {
			continue
		}
		i, j := x.borderIdx[t.StartBorder], x.borderIdx[t.EndBorder]
		x.steps[i][j] = min(x.steps[i][j], len(t.Steps)-1)
	}
	// The diagonal starts unreachable, so every entry counts at least one
	// template.
	for k := range n {
		for i := range n {
			if x.steps[i][k] == math.MaxInt {
				continue
			}
			for j := range n {
				if x.steps[k][j] == math.MaxInt {
					continue
				}
				x.steps[i][j] = min(x.steps[i][j], x.steps[i][k]+x.steps[k][j])
			}
		}
	}
	return x
}

func (x *Index) Family() string { return x.family }

// StartingAt returns templates whose StartBorder is b, in ID order.
func (x *Index) StartingAt(b Border) []*Template { return x.byStart[b] }

// EndingAt returns templates whose EndBorder is b, in ID order.
func (x *Index) EndingAt(b Border) []*Template { return x.byEnd[b] }

// Borders lists every border of the family, sorted by type then octant.
func (x *Index) Borders() []Border { return x.borders }

// BorderIndex returns the dense index of b within Borders.
func (x *Index) BorderIndex(b Border) (int, bool) {
	i, ok := x.borderIdx[b]
	return i, ok
}

// MinPoints returns how many path points the shortest template chain from
// border from to border to draws, or false when no chain connects them.
func (x *Index) MinPoints(from, to Border) (int, bool) {
	i, ok := x.borderIdx[from]
	if !ok {
		return 0, false
	}
	j, ok := x.borderIdx[to]
	if !ok || x.steps[i][j] == math.MaxInt {
		return 0, false
	}
	return x.steps[i][j] + 1, true
}
