package contour

import (
	"slices"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
)

// ClearType caps open paths that end in the middle of the map.
const ClearType = "Clear"

// ExtensionLength is how many synthetic points Tweak adds past a map edge.
const ExtensionLength = 4

// Path is an ordered run of grid corners.
type Path struct {
	Points []geom.Point `json:"points"`
	// Type is the border family the path is drawn with (Coastline, Cliff).
	Type string `json:"type"`
	// StartType and EndType are the border families required at the two
	// ends. They equal Type except for capped open ends.
	StartType string         `json:"startType"`
	EndType   string         `json:"endType"`
	IsLoop    bool           `json:"isLoop"`
	StartDir  geom.Direction `json:"startDir"`
	EndDir    geom.Direction `json:"endDir"`
}

func (p Path) closed() bool {
	n := len(p.Points)
	return n > 1 && p.Points[0] == p.Points[n-1]
}

// OnEdge reports whether corner pt lies on the boundary of a size x size map.
func OnEdge(pt geom.Point, size int) bool {
	return pt.X == 0 || pt.Y == 0 || pt.X == size || pt.Y == size
}

// Tweak prepares a traced path for fitting. A loop is rotated to start in
// the middle of its longest straight run and repeats that start at the end.
// An open path gets ExtensionLength synthetic points straight off the map at
// each end that lies on the map edge. IsLoop, StartDir and EndDir are set.
func Tweak(p Path, size int) Path {
	out := p
	pts := p.Points
	if len(pts) < 2 {
		out.StartDir, out.EndDir = geom.DirNone, geom.DirNone
		return out
	}
	out.IsLoop = p.closed()
	if out.IsLoop {
		out.Points = cutLoop(pts)
		out.StartDir = geom.Towards(out.Points[0], out.Points[1])
		out.EndDir = out.StartDir
		return out
	}

	var head, tail []geom.Point
	if OnEdge(pts[0], size) {
		head = extension(pts[0], size)
		slices.Reverse(head)
	}
	if last := pts[len(pts)-1]; OnEdge(last, size) {
		tail = extension(last, size)
	}
	out.Points = slices.Concat(head, pts, tail)
	n := len(out.Points)
	out.StartDir = geom.Towards(out.Points[0], out.Points[1])
	out.EndDir = geom.Towards(out.Points[n-2], out.Points[n-1])
	return out
}

// Trim drops head points from the start and tail points from the end of an
// open path and recomputes its end directions.
func Trim(p Path, head, tail int) Path {
	out := p
	n := len(p.Points)
	lo, hi := min(max(head, 0), n), max(n-max(tail, 0), 0)
	out.Points = slices.Clone(p.Points[lo:max(lo, hi)])
	out.IsLoop = false
	if m := len(out.Points); m >= 2 {
		out.StartDir = geom.Towards(out.Points[0], out.Points[1])
		out.EndDir = geom.Towards(out.Points[m-2], out.Points[m-1])
	} else {
		out.StartDir, out.EndDir = geom.DirNone, geom.DirNone
	}
	return out
}

func extension(pt geom.Point, size int) []geom.Point {
	ox, oy := 0, 0
	switch pt.X {
	case 0:
		ox = -1
	case size:
		ox = 1
	}
	switch pt.Y {
	case 0:
		oy = -1
	case size:
		oy = 1
	}
	ext := make([]geom.Point, ExtensionLength)
	for i := range ext {
		ext[i] = pt.Add(ox*(i+1), oy*(i+1))
	}
	return ext
}

// cutLoop rotates a closed point list (first == last) so it starts halfway
// along its longest straight run.
func cutLoop(pts []geom.Point) []geom.Point {
	n := len(pts) - 1 // without the repeated end
	if n < 2 {
		return pts
	}
	prevDim := -1
	scanStart := -1
	bestScore := -1
	bestBend := -1
	prevBend := -1
	prevI := 0
	for i, steps := 1, 0; steps <= 2*n+2; i, steps = i+1, steps+1 {
		if i == n {
			i = 0
		}
		dim := 0
		if pts[i].X == pts[prevI].X {
			dim = 1
		}
		if prevDim != -1 && prevDim != dim {
			if scanStart == -1 {
				scanStart = i
			} else {
				score := prevI - prevBend
				if score < 0 {
					score += n
				}
				if score > bestScore {
					bestBend = prevBend
					bestScore = score
				}
				if i == scanStart {
					break
				}
			}
			prevBend = prevI
		}
		prevDim = dim
		prevI = i
	}
	if bestBend < 0 {
		return pts
	}
	start := (bestBend + bestScore/2) % n
	return slices.Concat(pts[start:n], pts[:start+1])
}

// Split cuts p into maximal runs of consecutive points accepted by keep and
// drops runs with fewer than minPoints points. A fully kept path comes back
// unchanged. Run ends that are not on the map edge are capped with ClearType.
func Split(p Path, size int, keep func(geom.Point) bool, minPoints int) []Path {
	minPoints = max(minPoints, 2)
	pts := p.Points
	if len(pts) == 0 {
		return nil
	}
	firstDrop := slices.IndexFunc(pts, func(pt geom.Point) bool { return !keep(pt) })
	if firstDrop < 0 {
		if len(pts) < minPoints {
			return nil
		}
		return []Path{p}
	}
	if p.closed() {
		// Start the walk on a dropped point so no run wraps around the seam.
		body := pts[:len(pts)-1]
		pts = slices.Concat(body[firstDrop:], body[:firstDrop+1])
	}

	var out []Path
	emit := func(run []geom.Point) {
		if len(run) < minPoints {
			return
		}
		q := Path{
			Points:    slices.Clone(run),
			Type:      p.Type,
			StartType: ClearType,
			EndType:   ClearType,
		}
		if OnEdge(run[0], size) {
			q.StartType = p.StartType
		}
		if OnEdge(run[len(run)-1], size) {
			q.EndType = p.EndType
		}
		out = append(out, q)
	}
	start := -1
	for i, pt := range pts {
		switch {
		case keep(pt) && start < 0:
			start = i
		case !keep(pt) && start >= 0:
			emit(pts[start:i])
			start = -1
		}
	}
	if start >= 0 {
		emit(pts[start:])
	}
	return out
}
