package rules

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/nstehr/vimy/vimy-mapgen/model"
)

func TestDefaultRulesCompile(t *testing.T) {
	v, err := NewValidator(DefaultRules())
	if err != nil {
		t.Fatalf("NewValidator(DefaultRules()) failed: %v", err)
	}
	if len(v.rules) != 18 {
		t.Errorf("expected 18 rules, got %d", len(v.rules))
	}
	// Verify priority ordering (descending).
	for i := 1; i < len(v.rules); i++ {
		if v.rules[i].Priority > v.rules[i-1].Priority {
			t.Errorf("rules not sorted by priority: %s (%d) > %s (%d)",
				v.rules[i].Name, v.rules[i].Priority,
				v.rules[i-1].Name, v.rules[i-1].Priority)
		}
	}
}

func TestDefaultParamsValid(t *testing.T) {
	v, err := NewValidator(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Validate(model.DefaultParams()); len(got) != 0 {
		t.Errorf("Validate(DefaultParams()) = %v, want no violations", got)
	}
	for _, name := range model.PresetNames() {
		p, err := model.Preset(name, model.DefaultParams())
		if err != nil {
			t.Fatal(err)
		}
		if got := v.Validate(p); len(got) != 0 {
			t.Errorf("Validate(preset %q) = %v, want no violations", name, got)
		}
	}
}

func TestValidateViolations(t *testing.T) {
	v, err := NewValidator(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(*model.Params)
		want   []string
	}{
		{"too small", func(p *model.Params) { p.Size = 8 }, []string{"size-range", "thickness", "spawn-region"}},
		{"zero rotations", func(p *model.Params) { p.Rotations = 0 }, []string{"rotations-range"}},
		{"bad mirror", func(p *model.Params) { p.Mirror = 5 }, []string{"mirror-axis"}},
		{"too many players", func(p *model.Params) { p.Rotations = 4; p.PlayersPerRotation = 3; p.Mirror = 1 }, []string{"player-count"}},
		{"third turns enforced", func(p *model.Params) { p.Rotations = 3; p.EnforceSymmetry = true }, []string{"symmetry-support"}},
		{"water and mountain", func(p *model.Params) { p.Water = 0.8; p.Mountain = 0.3 }, []string{"fractions"}},
		{"thin", func(p *model.Params) { p.MinimumThickness = 1 }, []string{"thickness"}},
		{"flat mountains", func(p *model.Params) { p.MaximumAltitude = 0 }, []string{"mountain-thickness"}},
		{"no mountains", func(p *model.Params) { p.Mountain = 0; p.MaximumAltitude = 0 }, nil},
		{"wavelength", func(p *model.Params) { p.WavelengthScale = 0 }, []string{"wavelength"}},
		{"roughness", func(p *model.Params) { p.Roughness = 2 }, []string{"roughness"}},
		{"expansion sizes", func(p *model.Params) { p.MinExpansionSize = 20 }, []string{"expansion-sizes"}},
		{"zones skipped", func(p *model.Params) { p.MinExpansionSize = 20; p.CreateEntities = false }, nil},
		{"gems", func(p *model.Params) { p.GemFraction = 1.5 }, []string{"expansion-resources"}},
	}
	for _, tc := range tests {
		p := model.DefaultParams()
		tc.mutate(&p)
		var got []string
		for _, viol := range v.Validate(p) {
			got = append(got, viol.Rule)
		}
		if !slices.Equal(got, tc.want) {
			t.Errorf("%s: Validate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSwapKeepsOldRulesOnError(t *testing.T) {
	v, err := NewValidator(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	before := v.Names()
	bad := []*Rule{{Name: "broken", ConditionSrc: `Params.Nope > 1`}}
	if err := v.Swap(bad); err == nil {
		t.Fatal("Swap with an unknown field should fail")
	}
	if !slices.Equal(v.Names(), before) {
		t.Errorf("Swap failure replaced the rules: %v", v.Names())
	}

	l := DefaultLimits()
	l.MaxSize = 64
	if err := v.Swap(CompileLimits(l)); err != nil {
		t.Fatalf("Swap(CompileLimits) failed: %v", err)
	}
	got := v.Validate(model.DefaultParams())
	if len(got) != 1 || got[0].Rule != "size-range" {
		t.Errorf("Validate with max size 64 = %v, want size-range", got)
	}
	if !strings.Contains(Summary(got), "between 16 and 64") {
		t.Errorf("Summary = %q, want the compiled bounds", Summary(got))
	}
}

func TestValidatorLogger(t *testing.T) {
	var buf bytes.Buffer
	v, err := NewValidator(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	v.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := model.DefaultParams()
	p.Rotations = 0
	v.Validate(p)
	if err := v.Swap(DefaultRules()); err != nil {
		t.Fatal(err)
	}
	tests := []string{
		"msg=\"rule violated\" rule=rotations-range",
		"msg=\"rule set swapped\" count=18",
	}
	for _, want := range tests {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("injected logger output = %q, want it to contain %q", buf.String(), want)
		}
	}
}

func TestLimitsValidate(t *testing.T) {
	tests := []struct {
		in, want Limits
	}{
		{DefaultLimits(), DefaultLimits()},
		{Limits{MinSize: 2, MaxSize: 1, MaxRotations: 0, MaxPlayers: 100, MinThickness: 0},
			Limits{MinSize: 8, MaxSize: 8, MaxRotations: 1, MaxPlayers: 32, MinThickness: 1}},
	}
	for _, tc := range tests {
		got := tc.in
		got.Validate()
		if got != tc.want {
			t.Errorf("Validate(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParamEnv(t *testing.T) {
	p := model.DefaultParams()
	p.Rotations = 3
	p.PlayersPerRotation = 2
	p.Mirror = 2
	e := ParamEnv{Params: p}
	if got := e.TotalPlayers(); got != 12 {
		t.Errorf("TotalPlayers() = %d, want 12", got)
	}
	if e.SymmetryCheckable() {
		t.Error("SymmetryCheckable() = true for 3 rotations")
	}
	if !e.ValidMirror() || !e.Mirrored() {
		t.Error("mirror 2 should be valid and mirrored")
	}
}
