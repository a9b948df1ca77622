package terrain

import (
	"log/slog"
	"slices"
)

// DefaultMaxRounds bounds the outer stabilization loop.
const DefaultMaxRounds = 16

// Stabilizer converts a scalar field into a signed classification in which no
// feature of either class is thinner than MinimumThickness.
type Stabilizer struct {
	Size               int
	SmoothingRadius    int
	SmoothingThreshold float64
	MinimumThickness   int
	MaxRounds          int          // DefaultMaxRounds when zero
	Logger             *slog.Logger // slog.Default() when nil
	// Excluded cells are held in the background through every round, so
	// thickness repair sees them. Nil excludes nothing.
	Excluded []bool
}

// Result is the outcome of Stabilize.
type Result struct {
	Grid      []float64 // +1 foreground, -1 background
	Rounds    int
	Converged bool
	Leveled   int // cells stamped by the stall escape
}

func (s *Stabilizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Stabilize calibrates field so that fraction of it is background, then
// alternates threshold smoothing, erosion/dilation and thin-mass repair for
// both classes until a round changes nothing or MaxRounds is reached. From
// round 8 on, every 4th round levels cells that flipped during the sea pass by
// stamping land around them. Failure to converge is logged, not returned.
func (s *Stabilizer) Stabilize(field []float64, fraction float64) Result {
	size := s.Size
	width := s.MinimumThickness
	maxRounds := s.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	log := s.logger()

	calibrated := slices.Clone(field)
	Calibrate(calibrated, 0, fraction)
	grid := Binarize(calibrated)
	grid, _, _ = MedianBlur(grid, size, s.SmoothingRadius, true, 0)

	res := Result{}
	for round := 0; round < maxRounds; round++ {
		res.Rounds = round + 1
		for pass := 0; pass < size; pass++ {
			flips := 0
			for r := 1; r <= s.SmoothingRadius; r++ {
				var sc int
				grid, _, sc = MedianBlur(grid, size, r, true, s.SmoothingThreshold)
				flips += sc
			}
			if flips == 0 {
				break
			}
		}

		s.exclude(grid)
		changes := 0
		var n int
		grid, n = ErodeAndDilate(grid, size, true, width)
		changes += n
		_, n = FixThinMassesFull(grid, size, true, width)
		changes += n

		midFix := slices.Clone(grid)

		grid, n = ErodeAndDilate(grid, size, false, width)
		changes += n
		_, n = FixThinMassesFull(grid, size, false, width)
		changes += n
		changes += s.exclude(grid)

		if changes == 0 {
			res.Converged = true
			break
		}
		log.Debug("thinness corrections made", "round", round, "changes", changes)

		if round >= 8 && round%4 == 0 {
			log.Info("leveling unstable terrain", "round", round)
			var unstable []int
			for i := range grid {
				if grid[i] != midFix[i] {
					unstable = append(unstable, i)
				}
			}
			for _, i := range unstable {
				ReserveCircle(grid, size, i%size, i/size, 2*width, 1.0)
			}
			res.Leveled += len(unstable)
		}
	}
	s.exclude(grid)
	if !res.Converged {
		log.Warn("terrain did not stabilize", "rounds", res.Rounds, "thickness", width)
	}
	res.Grid = grid
	return res
}

// exclude forces excluded cells into the background and returns how many
// it moved.
func (s *Stabilizer) exclude(grid []float64) int {
	n := 0
	for i, x := range s.Excluded {
		if x && grid[i] >= 0 {
			grid[i] = -1
			n++
		}
	}
	return n
}
