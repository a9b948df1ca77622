// Package tiling fits catalog templates along traced paths and paints their
// footprints into a tile grid.
//
// A fit searches the graph of (corner, border) states inside a band of
// maxDeviation = (MinimumThickness-1)/2 cells around the path. Every
// template whose start border matches a settled state is tried; a placement
// costs the sum of its path points' distances from the traced path and is
// rejected outright when it leaves the band or makes net backward progress
// against the path's local direction. The cheapest chain is rebuilt from the
// end, with ties picked from the run's PRNG.
package tiling

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/contour"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/pqueue"
	"github.com/nstehr/vimy/vimy-mapgen/random"
)

// ErrUnsatisfiable means the catalog cannot draw the path within the band.
var ErrUnsatisfiable = errors.New("unsatisfiable path")

const (
	unreachable = math.MaxInt
	outsideBand = math.MaxInt
)

// Fitter draws paths with the templates of one catalog.
type Fitter struct {
	Catalog          *catalog.Catalog
	MinimumThickness int
	Logger           *slog.Logger // slog.Default() when nil
}

func (f *Fitter) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// Fit paints the cheapest template chain for path into tiles and returns
// the corners that chain actually draws, in map coordinates. Only templates
// of the path's family are used. The chain starts on border
// {StartType, StartDir} and ends on {EndType, EndDir}.
func (f *Fitter) Fit(tiles *Tiles, path contour.Path, r *random.Random) ([]geom.Point, error) {
	if len(path.Points) < 2 {
		return nil, fmt.Errorf("%s path with %d points: %w", path.Type, len(path.Points), ErrUnsatisfiable)
	}
	s := newSearch(f.Catalog, path, max(0, (f.MinimumThickness-1)/2))

	start := catalog.Border{Type: orDefault(path.StartType, path.Type), Dir: path.StartDir}
	end := catalog.Border{Type: orDefault(path.EndType, path.Type), Dir: path.EndDir}
	sz, ok := s.index.BorderIndex(start)
	if !ok {
		return nil, fmt.Errorf("no %s template starts at %v: %w", path.Type, start, ErrUnsatisfiable)
	}
	ez, ok := s.index.BorderIndex(end)
	if !ok {
		return nil, fmt.Errorf("no %s template ends at %v: %w", path.Type, end, ErrUnsatisfiable)
	}

	first, last := s.points[0], s.points[len(s.points)-1]
	sil := sz*s.sizeXY + first.Y*s.sizeX + first.X
	eil := ez*s.sizeXY + last.Y*s.sizeX + last.X

	s.relax(sil)
	score := s.scores[eil]
	if score == unreachable {
		return nil, fmt.Errorf("%s path of %d points from %v to %v: %w", path.Type, len(path.Points), start, end, ErrUnsatisfiable)
	}
	f.logger().Debug("fitted path",
		"type", path.Type,
		"loop", path.IsLoop,
		"points", len(path.Points),
		"score", score,
		"perPoint", float64(score)/float64(len(path.Points)),
	)

	drawn, err := s.reconstruct(tiles, r, sil, eil)
	if err != nil {
		return nil, fmt.Errorf("%s path: %w", path.Type, err)
	}
	return drawn, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// search holds the state of one fit, in box-local coordinates.
type search struct {
	index        *catalog.Index
	borders      []catalog.Border
	points       []geom.Point
	isLoop       bool
	minX, minY   int
	sizeX, sizeY int
	sizeXY       int
	deviations   []int
	traversable  []uint8
	forward      []uint8
	scores       []int
	queue        *pqueue.Array
}

func newSearch(cat *catalog.Catalog, path contour.Path, maxDev int) *search {
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, p := range path.Points {
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}
	minX -= maxDev
	minY -= maxDev
	maxX += maxDev
	maxY += maxDev

	index := cat.Index(path.Type)
	s := &search{
		index:   index,
		borders: index.Borders(),
		isLoop:  path.IsLoop,
		minX:    minX,
		minY:    minY,
		sizeX:   maxX - minX + 1,
		sizeY:   maxY - minY + 1,
	}
	s.sizeXY = s.sizeX * s.sizeY
	s.points = make([]geom.Point, len(path.Points))
	for i, p := range path.Points {
		s.points[i] = geom.Point{X: p.X - minX, Y: p.Y - minY}
	}
	s.stamp(maxDev)

	n := s.sizeXY * len(s.borders)
	s.scores = make([]int, n)
	for i := range s.scores {
		s.scores[i] = unreachable
	}
	s.queue = pqueue.New(n).Fill(math.Inf(-1))
	return s
}

// stamp records, for every cell of the box, its Chebyshev distance to the
// nearest path point, the octants it may step toward without leaving a
// point's band, and the octants that count as forward progress.
func (s *search) stamp(maxDev int) {
	s.deviations = make([]int, s.sizeXY)
	for i := range s.deviations {
		s.deviations[i] = outsideBand
	}
	s.traversable = make([]uint8, s.sizeXY)
	s.forward = make([]uint8, s.sizeXY)
	gradX := make([]int, s.sizeXY)
	gradY := make([]int, s.sizeXY)

	for pi, p := range s.points {
		if s.isLoop && pi == 0 {
			// Same as the last point.
			continue
		}
		dx, dy := 0, 0
		if pi+1 < len(s.points) {
			dx += s.points[pi+1].X - p.X
			dy += s.points[pi+1].Y - p.Y
		}
		if pi > 0 {
			dx += p.X - s.points[pi-1].X
			dy += p.Y - s.points[pi-1].Y
		}
		bx0, by0 := p.X-maxDev, p.Y-maxDev
		bx1, by1 := p.X+maxDev, p.Y+maxDev
		for y := by0; y <= by1; y++ {
			for x := bx0; x <= bx1; x++ {
				i := y*s.sizeX + x
				dev := max(abs(x-p.X), abs(y-p.Y))
				s.deviations[i] = min(s.deviations[i], dev)
				gradX[i] += dx
				gradY[i] += dy

				var m uint8
				left, right, up, down := x > bx0, x < bx1, y > by0, y < by1
				if left {
					m |= geom.L.Mask()
				}
				if right {
					m |= geom.R.Mask()
				}
				if up {
					m |= geom.U.Mask()
				}
				if down {
					m |= geom.D.Mask()
				}
				if left && up {
					m |= geom.LU.Mask()
				}
				if left && down {
					m |= geom.LD.Mask()
				}
				if right && up {
					m |= geom.RU.Mask()
				}
				if right && down {
					m |= geom.RD.Mask()
				}
				s.traversable[i] |= m
			}
		}
	}
	for i := range s.forward {
		s.forward[i] = geom.ForwardMask(geom.DirectionOf(gradX[i], gradY[i]))
	}
}

// score returns the cost of placing t with its first path point at local
// (fx, fy), or unreachable when the placement is not allowed.
func (s *search) score(t *catalog.Template, fx, fy int) int {
	deviation, progress := 0, 0
	last := len(t.Steps) - 1
	for si, st := range t.Steps {
		px, py := fx+st.X, fy+st.Y
		if px < 0 || px >= s.sizeX || py < 0 || py >= s.sizeY {
			return unreachable
		}
		pi := py*s.sizeX + px
		if si < last {
			if s.traversable[pi]&st.Mask == 0 {
				return unreachable
			}
			switch {
			case s.forward[pi]&st.Mask == st.Mask:
				progress++
			case s.forward[pi]&st.ReverseMask == st.ReverseMask:
				progress--
			}
		}
		if si > 0 {
			if s.deviations[pi] == outsideBand {
				return unreachable
			}
			deviation += s.deviations[pi]
		}
	}
	if progress < 0 {
		return unreachable
	}
	return deviation
}

func (s *search) inBox(x, y int) bool {
	return x >= 0 && x < s.sizeX && y >= 0 && y < s.sizeY
}

// update relaxes every template leaving state fil and settles fil.
func (s *search) update(fil int) {
	fz, fi := fil/s.sizeXY, fil%s.sizeXY
	fx, fy := fi%s.sizeX, fi/s.sizeX
	fscore := s.scores[fil]
	for _, t := range s.index.StartingAt(s.borders[fz]) {
		tx, ty := fx+t.MovesX, fy+t.MovesY
		if !s.inBox(tx, ty) {
			continue
		}
		ti := ty*s.sizeX + tx
		if s.deviations[ti] == outsideBand {
			continue
		}
		cost := s.score(t, fx, fy)
		if cost == unreachable {
			continue
		}
		tz, _ := s.index.BorderIndex(t.EndBorder)
		til := tz*s.sizeXY + ti
		if tscore := fscore + cost; tscore < s.scores[til] {
			s.scores[til] = tscore
			s.queue.Set(til, -float64(tscore))
		}
	}
	s.queue.Set(fil, math.Inf(-1))
}

func (s *search) relax(sil int) {
	s.scores[sil] = 0
	s.update(sil)
	// A loop comes back to its start; let it be reached again.
	s.scores[sil] = unreachable
	for {
		fil := s.queue.Max()
		if math.IsInf(s.queue.Get(fil), -1) {
			return
		}
		s.update(fil)
	}
}

type placement struct {
	tmpl   *catalog.Template
	fx, fy int
}

// reconstruct walks back from eil to sil over states whose scores agree
// with the template costs. Once the chain is complete it paints every
// chosen template and returns the drawn corners in map coordinates.
func (s *search) reconstruct(tiles *Tiles, r *random.Random, sil, eil int) ([]geom.Point, error) {
	var chain []placement
	visited := make(map[int]bool)
	if !s.isLoop {
		s.scores[sil] = 0
	}
	til := eil
	for {
		tz, ti := til/s.sizeXY, til%s.sizeXY
		tx, ty := ti%s.sizeX, ti/s.sizeX
		tscore := s.scores[til]

		var candidates []placement
		for _, t := range s.index.EndingAt(s.borders[tz]) {
			fx, fy := tx-t.MovesX, ty-t.MovesY
			if !s.inBox(fx, fy) {
				continue
			}
			fi := fy*s.sizeX + fx
			if s.deviations[fi] == outsideBand {
				continue
			}
			cost := s.score(t, fx, fy)
			if cost == unreachable {
				continue
			}
			fz, _ := s.index.BorderIndex(t.StartBorder)
			fil := fz*s.sizeXY + fi
			if visited[fil] || s.scores[fil] == unreachable || tscore-cost != s.scores[fil] {
				continue
			}
			candidates = append(candidates, placement{tmpl: t, fx: fx, fy: fy})
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("no template leads back from (%d,%d) %v: %w", tx+s.minX, ty+s.minY, s.borders[tz], ErrUnsatisfiable)
		}
		p := random.Pick(r, candidates)
		chain = append(chain, p)

		if len(chain) == 1 {
			// A loop's start was left unreachable so the first step could
			// not close it early; from here on the walk may end there.
			s.scores[sil] = 0
		}
		pz, _ := s.index.BorderIndex(p.tmpl.StartBorder)
		til = pz*s.sizeXY + p.fy*s.sizeX + p.fx
		if til == sil {
			break
		}
		visited[til] = true
	}

	for _, p := range chain {
		tiles.paint(p.tmpl, p.fx+s.minX-p.tmpl.OffsetX, p.fy+s.minY-p.tmpl.OffsetY)
	}
	slices.Reverse(chain)
	drawn := []geom.Point{{X: s.points[0].X + s.minX, Y: s.points[0].Y + s.minY}}
	for _, p := range chain {
		for _, st := range p.tmpl.Steps[1:] {
			drawn = append(drawn, geom.Point{X: p.fx + st.X + s.minX, Y: p.fy + st.Y + s.minY})
		}
	}
	return drawn, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
