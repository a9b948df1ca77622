package terrain

// ReserveCircle sets every cell within r of (cx, cy) to v.
func ReserveCircle[T any](grid []T, size, cx, cy, r int, v T) {
	ReserveCircleFunc(grid, size, cx, cy, r, func(int, T) T { return v })
}

// ReserveCircleFunc replaces every cell within r of (cx, cy) with
// set(squared distance, old value).
func ReserveCircleFunc[T any](grid []T, size, cx, cy, r int, set func(rSq int, old T) T) {
	minX, minY := max(cx-r, 0), max(cy-r, 0)
	maxX, maxY := min(cx+r, size-1), min(cy+r, size-1)
	rSq := r * r
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := x-cx, y-cy
			if d := dx*dx + dy*dy; d <= rSq {
				i := y*size + x
				grid[i] = set(d, grid[i])
			}
		}
	}
}
