package model

import (
	"slices"
	"testing"
)

func TestPreset(t *testing.T) {
	base := DefaultParams()
	base.Seed = 7
	base.Size = 64
	base.Rotations = 4
	base.Mirror = 1
	base.PlayersPerRotation = 2
	base.Water = 0.9

	tests := []struct {
		name       string
		water      float64
		wavelength float64
	}{
		{"basic", 0.5, 1.0},
		{"plains", 0, 0.2},
		{"wetlands", 0.5, 0.2},
		{"wetlands-narrow", 0.5, 0.05},
		{"puddles", 0.2, 0.2},
		{"oceanic", 0.8, 0.2},
	}
	for _, tc := range tests {
		p, err := Preset(tc.name, base)
		if err != nil {
			t.Fatalf("Preset(%q) error: %v", tc.name, err)
		}
		if p.Water != tc.water || p.WavelengthScale != tc.wavelength {
			t.Errorf("Preset(%q) water/wavelength = %v/%v, want %v/%v", tc.name, p.Water, p.WavelengthScale, tc.water, tc.wavelength)
		}
		if p.Seed != 7 || p.Size != 64 || p.Rotations != 4 || p.Mirror != 1 || p.PlayersPerRotation != 2 {
			t.Errorf("Preset(%q) did not keep the layout fields: %+v", tc.name, p)
		}
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("lava", DefaultParams()); err == nil {
		t.Error("Preset(lava) should fail")
	}
	if !slices.IsSorted(PresetNames()) || len(PresetNames()) != 6 {
		t.Errorf("PresetNames() = %v", PresetNames())
	}
}

func TestTileCodeString(t *testing.T) {
	tests := []struct {
		code TileCode
		want string
	}{
		{TileCode{Template: 255, Index: AnyIndex}, "t255"},
		{TileCode{Template: 1, Index: 0}, "t1i0"},
		{TileCode{Template: 104, Index: 3}, "t104i3"},
	}
	for _, tc := range tests {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.code, got, tc.want)
		}
	}
}
