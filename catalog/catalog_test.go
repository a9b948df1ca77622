package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/nstehr/vimy/vimy-mapgen/geom"
	"github.com/nstehr/vimy/vimy-mapgen/model"
)

func TestTemperateTemplates(t *testing.T) {
	c := Temperate()
	if got := len(c.Templates()); got != 32 {
		t.Errorf("Temperate has %d templates, want 32", got)
	}
	tests := []struct {
		family string
		border Border
		starts int
		ends   int
	}{
		{FamilyCoastline, Border{FamilyCoastline, geom.R}, 3, 3},
		{FamilyCliff, Border{FamilyCliff, geom.D}, 4, 4}, // straight, turns, start cap ends here / end cap starts here
		{FamilyCliff, Border{TypeClear, geom.L}, 1, 1},
		{FamilyCoastline, Border{FamilyCoastline, geom.RD}, 0, 0},
		{FamilyCoastline, Border{FamilyCliff, geom.D}, 0, 0},
		{"Road", Border{"Road", geom.R}, 0, 0},
	}
	for _, tc := range tests {
		x := c.Index(tc.family)
		if got := len(x.StartingAt(tc.border)); got != tc.starts {
			t.Errorf("Index(%s).StartingAt(%v) = %d templates, want %d", tc.family, tc.border, got, tc.starts)
		}
		if got := len(x.EndingAt(tc.border)); got != tc.ends {
			t.Errorf("Index(%s).EndingAt(%v) = %d templates, want %d", tc.family, tc.border, got, tc.ends)
		}
	}
}

func TestTemperateStraightShape(t *testing.T) {
	c := Temperate()
	var straight *Template
	for _, tmpl := range c.Index(FamilyCoastline).StartingAt(Border{FamilyCoastline, geom.R}) {
		if tmpl.EndBorder.Dir == geom.R {
			straight = tmpl
		}
	}
	if straight == nil {
		t.Fatal("no straight R coastline template")
	}
	if straight.Width != 1 || straight.Height != 2 {
		t.Errorf("straight R footprint = %dx%d, want 1x2", straight.Width, straight.Height)
	}
	if straight.OffsetX != 0 || straight.OffsetY != 1 || straight.MovesX != 1 || straight.MovesY != 0 {
		t.Errorf("straight R offset/moves = (%d,%d)/(%d,%d)", straight.OffsetX, straight.OffsetY, straight.MovesX, straight.MovesY)
	}
	want := map[Cell]string{
		{X: 0, Y: 0, Index: 0}: TypeWater,
		{X: 0, Y: 1, Index: 1}: TypeBeach,
	}
	for _, cell := range straight.Cells {
		ti, ok := c.Tile(straight.Code(cell))
		if !ok {
			t.Fatalf("no tile for %s", straight.Code(cell))
		}
		if ti.Type != want[cell] {
			t.Errorf("cell %v type = %q, want %q", cell, ti.Type, want[cell])
		}
	}
	lower, _ := c.Tile(model.TileCode{Template: straight.ID, Index: 1})
	upper, _ := c.Tile(model.TileCode{Template: straight.ID, Index: 0})
	if lower.U != FamilyCoastline || upper.D != FamilyCoastline {
		t.Errorf("shared edge codes = %q/%q, want %q", upper.D, lower.U, FamilyCoastline)
	}
	if lower.L != TypeBeach || upper.R != TypeWater {
		t.Errorf("off-path edges = %q/%q", lower.L, upper.R)
	}
}

func TestTemperateTurnOuterCorner(t *testing.T) {
	c := Temperate()
	for _, tmpl := range c.Index(FamilyCoastline).StartingAt(Border{FamilyCoastline, geom.R}) {
		if tmpl.EndBorder.Dir != geom.D {
			continue
		}
		// R then D around a land corner: only the lower-left cell is land.
		types := make([]string, 4)
		for _, cell := range tmpl.Cells {
			types[cell.Y*2+cell.X] = c.Type(tmpl.Code(cell))
		}
		want := []string{TypeWater, TypeWater, TypeBeach, TypeWater}
		for i := range want {
			if types[i] != want[i] {
				t.Fatalf("R-D turn types = %v, want %v", types, want)
			}
		}
		return
	}
	t.Fatal("no R-D coastline turn")
}

func TestStepsMasks(t *testing.T) {
	c := Temperate()
	for _, tmpl := range c.Templates() {
		last := len(tmpl.Steps) - 1
		if tmpl.Steps[0].X != 0 || tmpl.Steps[0].Y != 0 {
			t.Errorf("%s: first step not at origin", tmpl.Name)
		}
		if tmpl.Steps[last].Dir != geom.DirNone || tmpl.Steps[last].Mask != 0 {
			t.Errorf("%s: last step has a direction", tmpl.Name)
		}
		for _, s := range tmpl.Steps[:last] {
			if s.Mask != s.Dir.Mask() || s.ReverseMask != s.Dir.Reverse().Mask() {
				t.Errorf("%s: step masks %08b/%08b for %v", tmpl.Name, s.Mask, s.ReverseMask, s.Dir)
			}
		}
	}
}

func TestBordersIndexed(t *testing.T) {
	c := Temperate()
	tests := []struct {
		family string
		want   int
	}{
		{FamilyCoastline, 4},
		{FamilyCliff, 8}, // cliff and clear caps
		{"Road", 0},
	}
	for _, tc := range tests {
		x := c.Index(tc.family)
		borders := x.Borders()
		if len(borders) != tc.want {
			t.Errorf("Index(%s).Borders() = %d, want %d:\n%s", tc.family, len(borders), tc.want, spew.Sdump(borders))
		}
		for i, b := range borders {
			if got, ok := x.BorderIndex(b); !ok || got != i {
				t.Errorf("Index(%s).BorderIndex(%v) = %d, %v, want %d", tc.family, b, got, ok, i)
			}
		}
	}
}

func TestMinPoints(t *testing.T) {
	x := Temperate().Index(FamilyCliff)
	tests := []struct {
		from, to Border
		want     int
		ok       bool
	}{
		{Border{TypeClear, geom.D}, Border{TypeClear, geom.D}, 3, true},  // start cap, end cap
		{Border{TypeClear, geom.D}, Border{TypeClear, geom.R}, 5, true},  // one turn
		{Border{TypeClear, geom.D}, Border{TypeClear, geom.U}, 7, true},  // two turns
		{Border{FamilyCliff, geom.R}, Border{FamilyCliff, geom.R}, 2, true},
		{Border{FamilyCliff, geom.R}, Border{TypeClear, geom.L}, 6, true},
		{Border{TypeClear, geom.R}, Border{FamilyCliff, geom.RD}, 0, false},
		{Border{FamilyCoastline, geom.R}, Border{TypeClear, geom.R}, 0, false},
	}
	for _, tc := range tests {
		got, ok := x.MinPoints(tc.from, tc.to)
		if got != tc.want || ok != tc.ok {
			t.Errorf("MinPoints(%v, %v) = %d, %v, want %d, %v", tc.from, tc.to, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTileAnyIndexFallback(t *testing.T) {
	c := Temperate()
	fill, ok := c.Fill(TypeClear)
	if !ok || !fill.IsAny() {
		t.Fatalf("Fill(Clear) = %v, %v", fill, ok)
	}
	ti, ok := c.Tile(model.TileCode{Template: ClearTemplate, Index: 7})
	if !ok || ti.Type != TypeClear || len(ti.Codes) != 16 {
		t.Errorf("Tile(t255i7) = %+v, %v", ti, ok)
	}
	if !c.Playable(TypeBeach) || c.Playable(TypeWater) {
		t.Error("Beach should be playable and Water not")
	}
	if !c.HasType(TypeRock) || !c.HasFamily(FamilyCliff) {
		t.Error("builtin catalog should carry rocks and cliffs")
	}
}

const smallCatalog = `{
  "name": "tiny",
  "tiles": [
    {"template": 1, "index": 0, "type": "Water", "l": "Water", "r": "Water", "u": "Water", "d": "Water"},
    {"template": 2, "index": 0, "type": "Clear", "l": "Clear", "r": "Clear", "u": "Clear", "d": "Clear"},
    {"template": 9, "index": 0, "type": "Water", "l": "Water", "r": "Water", "u": "Water", "d": "Shore"},
    {"template": 9, "index": 1, "type": "Clear", "l": "Clear", "r": "Clear", "u": "Shore", "d": "Clear"}
  ],
  "templates": [
    {"id": 9, "name": "shore-r", "family": "Shore", "width": 1, "height": 2,
     "cells": [{"x": 0, "y": 0, "index": 0}, {"x": 0, "y": 1, "index": 1}],
     "path": [[0, 1], [1, 1]], "startDir": "%s", "endDir": "R"}
  ],
  "fill": {"Water": {"template": 1, "index": 0}, "Clear": {"template": 2, "index": 0}},
  "playable": ["Clear"]
}`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(strings.Replace(smallCatalog, "%s", "R", 1)))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Name() != "tiny" || len(c.Templates()) != 1 {
		t.Errorf("Load = %q with %d templates", c.Name(), len(c.Templates()))
	}
	if got := c.Index("Shore").StartingAt(Border{"Shore", geom.R}); len(got) != 1 || got[0].ID != 9 {
		t.Errorf("Index(Shore).StartingAt(Shore/R) = %v", got)
	}
}

func TestLoadRejectsBadDirection(t *testing.T) {
	tests := []struct {
		letter string
		target error
	}{
		{"X", ErrBadDirection},
		{"DR", ErrBadDirection},
	}
	for _, tc := range tests {
		_, err := Load(strings.NewReader(strings.Replace(smallCatalog, "%s", tc.letter, 1)))
		if !errors.Is(err, tc.target) {
			t.Errorf("Load with startDir %q error = %v, want %v", tc.letter, err, tc.target)
		}
	}
	if _, err := Load(strings.NewReader(strings.Replace(smallCatalog, "%s", "D", 1))); err == nil {
		t.Error("Load should reject a start direction that disagrees with the path")
	}
}
