// Package mapgen runs the whole generation pipeline: symmetric elevation,
// stabilization, coastline fitting, mountains and cliffs, zones, forests,
// walled-area denial and symmetry enforcement.
package mapgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
	"github.com/nstehr/vimy/vimy-mapgen/random"
	"github.com/nstehr/vimy/vimy-mapgen/rules"
	"github.com/nstehr/vimy/vimy-mapgen/tiling"
)

// ErrInvalidParams is returned before any stochastic work when the run
// parameters break a rule or do not suit the catalog.
var ErrInvalidParams = errors.New("invalid parameters")

// Stage names a pipeline checkpoint.
type Stage string

const (
	StageElevation  Stage = "elevation"
	StageStabilized Stage = "stabilized"
	StageCoastlines Stage = "coastlines"
	StageMountains  Stage = "mountains"
	StageCliffs     Stage = "cliffs"
	StageZones      Stage = "zones"
	StageForests    Stage = "forests"
	StageRegions    Stage = "regions"
	StageDone       Stage = "done"
)

// Stages lists every checkpoint in pipeline order.
var Stages = []Stage{
	StageElevation, StageStabilized, StageCoastlines, StageMountains, StageCliffs,
	StageZones, StageForests, StageRegions, StageDone,
}

// Checkpoint is passed to the hook after each stage. Stats is a snapshot.
type Checkpoint struct {
	Stage   Stage
	Step    int // 1-based position in Stages
	Steps   int
	Elapsed time.Duration
	Stats   model.Stats
}

// Hook observes checkpoints. It runs on the generating goroutine and must
// not call back into the Generator.
type Hook func(Checkpoint)

var defaultValidator = sync.OnceValues(func() (*rules.Validator, error) {
	return rules.NewValidator(rules.DefaultRules())
})

// Generator produces maps from parameters. The catalog is shared read-only,
// so one Generator may serve concurrent runs as long as Hook is safe for
// that.
type Generator struct {
	Catalog *catalog.Catalog
	Rules   *rules.Validator // compiled rules.DefaultRules() when nil
	Hook    Hook             // optional
	Logger  *slog.Logger     // slog.Default() when nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) validator() (*rules.Validator, error) {
	if g.Rules != nil {
		return g.Rules, nil
	}
	return defaultValidator()
}

// Validate checks p against the rules and the catalog without generating.
func (g *Generator) Validate(p model.Params) error {
	v, err := g.validator()
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if vs := v.Validate(p); len(vs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParams, rules.Summary(vs))
	}
	cat := g.Catalog
	if cat == nil {
		return fmt.Errorf("%w: no catalog", ErrInvalidParams)
	}
	for _, t := range []string{catalog.TypeClear, catalog.TypeWater} {
		if _, ok := cat.Fill(t); !ok {
			return fmt.Errorf("%w: catalog %s has no %s fill tile", ErrInvalidParams, cat.Name(), t)
		}
	}
	if p.Water > 0 && !cat.HasFamily(catalog.FamilyCoastline) {
		return fmt.Errorf("%w: water needs %s templates", ErrInvalidParams, catalog.FamilyCoastline)
	}
	return nil
}

// Generate runs the pipeline for p. The same parameters (with a non-zero
// seed) always produce the same map. ctx is checked between stages; a
// cancelled run returns ctx.Err().
func (g *Generator) Generate(ctx context.Context, p model.Params) (*model.Map, error) {
	if err := g.Validate(p); err != nil {
		return nil, err
	}
	r := random.New(p.Seed)
	p.Seed = r.Seed()

	run := &run{
		g:      g,
		p:      p,
		rnd:    r,
		cat:    g.Catalog,
		size:   p.Size,
		mirror: geom.MirrorAxis(p.Mirror),
		log:    g.logger().With("seed", p.Seed, "size", p.Size),
		start:  time.Now(),
		tiles:  tiling.NewTiles(p.Size),
	}
	n := p.Size * p.Size
	run.reserved = make([]bool, n)
	run.resources = make([]byte, n)
	run.densities = make([]byte, n)
	run.log.Info("generating map", "rotations", p.Rotations, "mirror", p.Mirror, "water", p.Water)

	steps := []struct {
		stage Stage
		fn    func() error
	}{
		{StageElevation, run.elevate},
		{StageStabilized, run.stabilize},
		{StageCoastlines, run.coastlines},
		{StageMountains, run.mountains},
		{StageCliffs, run.cliffs},
		{StageZones, run.zones},
		{StageForests, run.forests},
		{StageRegions, run.regions},
		{StageDone, run.finish},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.fn(); err != nil {
			run.log.Warn("generation failed", "stage", s.stage, "error", err)
			return nil, fmt.Errorf("%s: %w", s.stage, err)
		}
		run.checkpoint(s.stage)
	}

	run.log.Info("map generated",
		"elapsed", time.Since(run.start),
		"coastlines", run.stats.Coastlines,
		"cliffs", run.stats.Cliffs,
		"entities", len(run.entities),
		"players", len(run.players),
	)
	return run.result(), nil
}

func (r *run) checkpoint(stage Stage) {
	r.log.Debug("checkpoint", "stage", stage, "elapsed", time.Since(r.start))
	if r.g.Hook == nil {
		return
	}
	step := 0
	for i, s := range Stages {
		if s == stage {
			step = i + 1
		}
	}
	r.g.Hook(Checkpoint{
		Stage:   stage,
		Step:    step,
		Steps:   len(Stages),
		Elapsed: time.Since(r.start),
		Stats:   r.stats,
	})
}
