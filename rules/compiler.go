package rules

import "fmt"

// Limits are the host's bounds on run parameters. The compiler turns them
// into concrete rule conditions.
type Limits struct {
	MinSize      int `json:"min_size" mapstructure:"min-size"`
	MaxSize      int `json:"max_size" mapstructure:"max-size"`
	MaxRotations int `json:"max_rotations" mapstructure:"max-rotations"`
	MaxPlayers   int `json:"max_players" mapstructure:"max-players"`
	MinThickness int `json:"min_thickness" mapstructure:"min-thickness"`
}

// DefaultLimits match what the builtin catalog can tile and what OpenRA
// lobbies accept.
func DefaultLimits() Limits {
	return Limits{
		MinSize:      16,
		MaxSize:      256,
		MaxRotations: 8,
		MaxPlayers:   16,
		MinThickness: 3,
	}
}

// Validate clamps every limit to a usable range.
func (l *Limits) Validate() {
	l.MinSize = clampInt(l.MinSize, 8, 1024)
	l.MaxSize = clampInt(l.MaxSize, l.MinSize, 1024)
	l.MaxRotations = clampInt(l.MaxRotations, 1, 16)
	l.MaxPlayers = clampInt(l.MaxPlayers, 1, 32)
	l.MinThickness = clampInt(l.MinThickness, 1, 15)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// DefaultRules compiles the default limits.
func DefaultRules() []*Rule {
	return CompileLimits(DefaultLimits())
}

// CompileLimits generates the full constraint set for l.
// All conditions are built via fmt.Sprintf with interpolated integers, so
// the compiler never generates invalid expr.
func CompileLimits(l Limits) []*Rule {
	l.Validate()
	var rules []*Rule

	// --- Layout ---

	rules = append(rules, &Rule{
		Name:         "size-range",
		Priority:     1000,
		Category:     "layout",
		ConditionSrc: fmt.Sprintf(`Params.Size >= %d && Params.Size <= %d`, l.MinSize, l.MaxSize),
		Message:      fmt.Sprintf("size must be between %d and %d", l.MinSize, l.MaxSize),
	})

	rules = append(rules, &Rule{
		Name:         "rotations-range",
		Priority:     990,
		Category:     "layout",
		ConditionSrc: fmt.Sprintf(`Params.Rotations >= 1 && Params.Rotations <= %d`, l.MaxRotations),
		Message:      fmt.Sprintf("rotations must be between 1 and %d", l.MaxRotations),
	})

	rules = append(rules, &Rule{
		Name:         "mirror-axis",
		Priority:     980,
		Category:     "layout",
		ConditionSrc: `ValidMirror()`,
		Message:      "mirror must be 0 (none) to 4 (anti-diagonal)",
	})

	rules = append(rules, &Rule{
		Name:         "player-count",
		Priority:     970,
		Category:     "layout",
		ConditionSrc: fmt.Sprintf(`Params.PlayersPerRotation >= 1 && TotalPlayers() <= %d`, l.MaxPlayers),
		Message:      fmt.Sprintf("players per rotation must be at least 1 with at most %d players in total", l.MaxPlayers),
	})

	rules = append(rules, &Rule{
		Name:         "symmetry-support",
		Priority:     960,
		Category:     "layout",
		ConditionSrc: `!Params.EnforceSymmetry || SymmetryCheckable()`,
		Message:      "symmetry enforcement needs 1, 2 or 4 rotations",
	})

	// --- Terrain ---

	rules = append(rules, &Rule{
		Name:         "fractions",
		Priority:     900,
		Category:     "terrain",
		ConditionSrc: `Params.Water >= 0 && Params.Mountain >= 0 && LandFraction() >= 0`,
		Message:      "water and mountain fractions must be non-negative and sum to at most 1",
	})

	rules = append(rules, &Rule{
		Name:         "forest-fraction",
		Priority:     890,
		Category:     "terrain",
		ConditionSrc: `Params.Forest >= 0 && Params.Forest <= 1`,
		Message:      "forest fraction must be between 0 and 1",
	})

	rules = append(rules, &Rule{
		Name:         "thickness",
		Priority:     880,
		Category:     "terrain",
		ConditionSrc: fmt.Sprintf(`Params.MinimumThickness >= %d && Params.MinimumThickness * 4 <= Params.Size`, l.MinThickness),
		Message:      fmt.Sprintf("minimum thickness must be at least %d and at most a quarter of the size", l.MinThickness),
	})

	rules = append(rules, &Rule{
		Name:         "mountain-thickness",
		Priority:     870,
		Category:     "terrain",
		ConditionSrc: fmt.Sprintf(`Params.Mountain == 0 || (Params.MinimumMountainThickness >= %d && Params.MaximumAltitude >= 1)`, l.MinThickness),
		Message:      fmt.Sprintf("mountains need a thickness of at least %d and at least one altitude band", l.MinThickness),
	})

	rules = append(rules, &Rule{
		Name:         "smoothing",
		Priority:     860,
		Category:     "terrain",
		ConditionSrc: `Params.TerrainSmoothing >= 0 && Params.SmoothingThreshold >= 0 && Params.SmoothingThreshold <= 1`,
		Message:      "terrain smoothing must be non-negative with a threshold between 0 and 1",
	})

	rules = append(rules, &Rule{
		Name:         "wavelength",
		Priority:     850,
		Category:     "terrain",
		ConditionSrc: `Params.WavelengthScale > 0`,
		Message:      "wavelength scale must be positive",
	})

	rules = append(rules, &Rule{
		Name:         "roughness",
		Priority:     840,
		Category:     "terrain",
		ConditionSrc: `Params.RoughnessRadius >= 1 && Params.Roughness >= 0 && Params.Roughness <= 1`,
		Message:      "roughness radius must be at least 1 with a roughness between 0 and 1",
	})

	rules = append(rules, &Rule{
		Name:         "forest-clumpiness",
		Priority:     830,
		Category:     "terrain",
		ConditionSrc: `Params.ForestClumpiness >= 0`,
		Message:      "forest clumpiness must be non-negative",
	})

	// --- Zones (only checked when entities are created) ---

	rules = append(rules, &Rule{
		Name:         "spawn-region",
		Priority:     700,
		Category:     "zones",
		ConditionSrc: `!Params.CreateEntities || (Params.SpawnBuildSize >= 1 && Params.SpawnBuildSize <= Params.SpawnRegionSize && SpawnFootprint() <= Params.Size)`,
		Message:      "spawn build size must be between 1 and the spawn region size, and the region must fit on the map",
	})

	rules = append(rules, &Rule{
		Name:         "spawn-mines",
		Priority:     690,
		Category:     "zones",
		ConditionSrc: `!Params.CreateEntities || (Params.SpawnMines >= 0 && Params.SpawnOre >= 1)`,
		Message:      "spawn mines must be non-negative with an ore radius of at least 1",
	})

	rules = append(rules, &Rule{
		Name:         "expansion-sizes",
		Priority:     680,
		Category:     "zones",
		ConditionSrc: `!Params.CreateEntities || (Params.MaxExpansions >= 0 && Params.MinExpansionSize >= 1 && Params.MinExpansionSize <= Params.MaxExpansionSize && Params.ExpansionInner >= 0 && Params.ExpansionBorder >= 0)`,
		Message:      "expansion sizes must satisfy 1 <= min <= max with non-negative inner and border",
	})

	rules = append(rules, &Rule{
		Name:         "expansion-resources",
		Priority:     670,
		Category:     "zones",
		ConditionSrc: `!Params.CreateEntities || (Params.ExpansionMines >= 0 && Params.ExpansionOre >= 1 && Params.GemFraction >= 0 && Params.GemFraction <= 1)`,
		Message:      "expansion mines must be non-negative, ore at least 1, gem fraction between 0 and 1",
	})

	rules = append(rules, &Rule{
		Name:         "rocks-and-buildings",
		Priority:     660,
		Category:     "zones",
		ConditionSrc: `!Params.CreateEntities || (Params.RockWeight >= 0 && Params.RockSize >= 0 && Params.MaxBuildings >= 0 && Params.CentralReservation >= 0)`,
		Message:      "rock weight and size, building count and central reservation must be non-negative",
	})

	return rules
}
