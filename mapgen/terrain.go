package mapgen

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/contour"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/noise"
	"github.com/nstehr/vimy/vimy-mapgen/random"
	"github.com/nstehr/vimy/vimy-mapgen/region"
	"github.com/nstehr/vimy/vimy-mapgen/terrain"
	"github.com/nstehr/vimy/vimy-mapgen/tiling"
)

// run is the state of one Generate call. Stages fill it in order.
type run struct {
	g      *Generator
	p      model.Params
	rnd    *random.Random
	cat    *catalog.Catalog
	size   int
	mirror geom.MirrorAxis
	log    *slog.Logger
	start  time.Time

	elevation []float64 // raw symmetric noise
	grid      []float64 // stabilized, +1 land / -1 water
	land      []int8    // chirality-resolved land mask
	bands     [][]float64
	roughness []float64

	tiles     *tiling.Tiles
	reserved  []bool
	resources []byte
	densities []byte
	contracts []region.Contract
	entities  []model.Entity
	players   []model.Player
	stats     model.Stats
}

func (r *run) symmetric(src noise.Source) ([]float64, error) {
	return noise.Symmetric(r.rnd, noise.SymmetryOptions{
		Size:      r.size,
		Rotations: r.p.Rotations,
		Mirror:    r.mirror,
		Source:    src,
	})
}

func (r *run) elevate() error {
	field, err := r.symmetric(noise.FractalSource{WavelengthScale: r.p.WavelengthScale})
	if err != nil {
		return err
	}
	r.elevation = field
	return nil
}

func (r *run) stabilize() error {
	s := terrain.Stabilizer{
		Size:               r.size,
		SmoothingRadius:    r.p.TerrainSmoothing,
		SmoothingThreshold: r.p.SmoothingThreshold,
		MinimumThickness:   r.p.MinimumThickness,
		Logger:             r.log,
	}
	res := s.Stabilize(r.elevation, r.p.Water)
	r.grid = res.Grid
	r.stats.StabilizeRounds = res.Rounds
	r.stats.Converged = res.Converged
	r.stats.Leveled = res.Leveled
	return nil
}

// coastlines fits every land/water boundary, then fills the rest of the map
// from the chirality of the drawn coasts.
func (r *run) coastlines() error {
	fitter := &tiling.Fitter{Catalog: r.cat, MinimumThickness: r.p.MinimumThickness, Logger: r.log}
	chirality := contour.NewChirality(r.size)
	for i, traced := range contour.Trace(r.grid, r.size, catalog.FamilyCoastline) {
		path := contour.Tweak(traced, r.size)
		drawn, err := fitter.Fit(r.tiles, path, r.rnd)
		if err != nil {
			return fmt.Errorf("coastline %d: %w", i, err)
		}
		chirality.Seed(drawn)
		r.stats.Coastlines++
	}
	r.land = chirality.Resolve(r.grid)
	return r.tiles.Fill(r.cat, r.land, catalog.TypeClear, catalog.TypeWater)
}

// mountains carves up to MaximumAltitude nested bands out of the land. Each
// band keeps MinimumThickness away from the edge of the band below it (the
// coast for the first) and is stabilized to MinimumMountainThickness.
func (r *run) mountains() error {
	p := r.p
	if p.Mountain <= 0 || p.MaximumAltitude < 1 || !r.cat.HasFamily(catalog.FamilyCliff) {
		return nil
	}
	altitude, err := r.symmetric(noise.FractalSource{WavelengthScale: p.WavelengthScale})
	if err != nil {
		return err
	}
	bumps, err := r.symmetric(noise.PerlinSource{Scale: 8 * p.WavelengthScale})
	if err != nil {
		return err
	}
	r.roughness = terrain.Roughness(bumps, r.size, p.RoughnessRadius)

	n := r.size * r.size
	lowest := slices.Min(altitude) - 1
	within := make([]float64, n)
	for i, v := range r.land {
		within[i] = float64(v)
	}
	s := terrain.Stabilizer{
		Size:               r.size,
		SmoothingRadius:    p.TerrainSmoothing,
		SmoothingThreshold: p.SmoothingThreshold,
		MinimumThickness:   p.MinimumMountainThickness,
		Logger:             r.log,
	}
	minCells := p.MinimumMountainThickness * p.MinimumMountainThickness
	for alt := 1; alt <= p.MaximumAltitude; alt++ {
		room := terrain.Roominess(within, r.size, true)
		field := make([]float64, n)
		excluded := make([]bool, n)
		open := 0
		for i := range field {
			field[i] = lowest
			excluded[i] = room[i] <= p.MinimumThickness
			if !excluded[i] {
				field[i] = altitude[i]
				open++
			}
		}
		want := min(open, int(p.Mountain*float64(n)/float64(alt)))
		if want < minCells {
			break
		}
		s.Excluded = excluded
		res := s.Stabilize(field, 1-float64(want)/float64(n))
		band := res.Grid
		count := 0
		for _, v := range band {
			if v >= 0 {
				count++
			}
		}
		if count == 0 {
			break
		}
		r.log.Debug("mountain band", "altitude", alt, "cells", count, "rounds", res.Rounds, "converged", res.Converged)
		r.bands = append(r.bands, band)
		r.stats.MountainCells += count
		within = band
	}
	return nil
}

// cliffs outlines each mountain band where the terrain is rough enough.
func (r *run) cliffs() error {
	if len(r.bands) == 0 {
		return nil
	}
	size := r.size
	threshold := terrain.Quantile(slices.Sorted(slices.Values(r.roughness)), 1-r.p.Roughness)
	keep := func(pt geom.Point) bool {
		x, y := min(pt.X, size-1), min(pt.Y, size-1)
		return r.roughness[y*size+x] >= threshold
	}
	fitter := &tiling.Fitter{Catalog: r.cat, MinimumThickness: r.p.MinimumMountainThickness, Logger: r.log}
	index := r.cat.Index(catalog.FamilyCliff)
	for alt, band := range r.bands {
		for _, traced := range contour.Trace(band, size, catalog.FamilyCliff) {
			for _, piece := range contour.Split(traced, size, keep, 2) {
				drawn, err := r.cliff(fitter, index, contour.Tweak(piece, size))
				if err != nil {
					return fmt.Errorf("cliff at altitude %d: %w", alt+1, err)
				}
				if drawn {
					r.stats.Cliffs++
				} else {
					r.stats.CliffsDropped++
				}
			}
		}
	}
	return nil
}

// cliff draws one piece of a band outline. A piece that ends in a Clear cap
// is pulled in from its capped ends until it fits, and is dropped once it
// is shorter than the shortest template chain between its end borders. A
// piece without caps must fit as traced.
func (r *run) cliff(fitter *tiling.Fitter, index *catalog.Index, path contour.Path) (bool, error) {
	headCap := path.StartType == contour.ClearType
	tailCap := path.EndType == contour.ClearType
	if !headCap && !tailCap {
		_, err := fitter.Fit(r.tiles, path, r.rnd)
		return err == nil, err
	}
	for trimmed := 0; ; trimmed++ {
		start := catalog.Border{Type: cmp.Or(path.StartType, path.Type), Dir: path.StartDir}
		end := catalog.Border{Type: cmp.Or(path.EndType, path.Type), Dir: path.EndDir}
		need, ok := index.MinPoints(start, end)
		if !ok || len(path.Points) < need {
			r.log.Debug("dropped cliff piece", "points", len(path.Points), "need", need, "trimmed", trimmed)
			return false, nil
		}
		_, err := fitter.Fit(r.tiles, path, r.rnd)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, tiling.ErrUnsatisfiable) {
			return false, err
		}
		// Alternate between capped ends.
		if headCap && (!tailCap || trimmed%2 == 0) {
			path = contour.Trim(path, 1, 0)
		} else {
			path = contour.Trim(path, 0, 1)
		}
	}
}
