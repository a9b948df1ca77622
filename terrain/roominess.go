package terrain

import (
	"math"
)

// Roominess measures, for each cell of a signed grid, the 8-connected step
// distance to the nearest class boundary: 1 on a shore cell, growing inland.
// Foreground distances are positive and background negative. With roomyEdges
// the map edge is not treated as a boundary. A grid without any boundary is
// filled with +size or -size according to its first cell.
func Roominess[T int | int8 | int32 | float64](signed []T, size int, roomyEdges bool) []int {
	out := make([]int, size*size)
	fg := func(i int) bool { return signed[i] >= 0 }
	var next []int
	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			pos, neg := 0, 0
			for oy := -1; oy <= 1; oy++ {
				for ox := -1; ox <= 1; ox++ {
					x, y := cx+ox, cy+oy
					switch {
					case x < 0 || x >= size || y < 0 || y >= size:
					case fg(y*size + x):
						pos++
					default:
						neg++
					}
				}
			}
			if roomyEdges && pos+neg != 9 {
				continue
			}
			if pos != 9 && neg != 9 {
				i := cy*size + cx
				out[i] = signedDistance(fg(i), 1)
				next = append(next, i)
			}
		}
	}
	if len(next) == 0 {
		fill := signedDistance(fg(0), size)
		for i := range out {
			out[i] = fill
		}
		return out
	}

	for distance := 2; len(next) > 0; distance++ {
		current := next
		next = nil
		for _, ci := range current {
			cx, cy := ci%size, ci/size
			for oy := -1; oy <= 1; oy++ {
				for ox := -1; ox <= 1; ox++ {
					x, y := cx+ox, cy+oy
					if (ox == 0 && oy == 0) || x < 0 || x >= size || y < 0 || y >= size {
						continue
					}
					i := y*size + x
					if out[i] != 0 {
						continue
					}
					out[i] = signedDistance(fg(i), distance)
					next = append(next, i)
				}
			}
		}
	}
	return out
}

func signedDistance(fg bool, d int) int {
	if fg {
		return d
	}
	return -d
}

// Roughness returns the standard deviation of values over the edge-clamped
// (2*radius+1)^2 window around each cell.
func Roughness(values []float64, size, radius int) []float64 {
	out := make([]float64, size*size)
	n := float64((2*radius + 1) * (2*radius + 1))
	for cy := 0; cy < size; cy++ {
		for cx := 0; cx < size; cx++ {
			sum, sumSq := 0.0, 0.0
			for oy := -radius; oy <= radius; oy++ {
				for ox := -radius; ox <= radius; ox++ {
					x := min(max(cx+ox, 0), size-1)
					y := min(max(cy+oy, 0), size-1)
					v := values[y*size+x]
					sum += v
					sumSq += v * v
				}
			}
			mean := sum / n
			out[cy*size+cx] = math.Sqrt(max(sumSq/n-mean*mean, 0))
		}
	}
	return out
}
