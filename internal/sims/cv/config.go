package cv

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"fluid-cv/pkg/lattice"

	"gopkg.in/gcfg.v1"
)

// Shapes understood by Config.Shape.
const (
	ShapeRect = "rect"
	ShapeBox  = "box"
)

// SolverParams holds the numeric coefficients handed to the solver factory.
type SolverParams struct {
	Diffusivity float64
	Damping     float64
	Leak        float64
	Spread      float64
	Density     float64
}

// Map converts the coefficients into the form solver factories accept.
func (p SolverParams) Map() map[string]float64 {
	return map[string]float64{
		"diffusivity": p.Diffusivity,
		"damping":     p.Damping,
		"leak":        p.Leak,
		"spread":      p.Spread,
		"density":     p.Density,
	}
}

// Check reports coefficients the solvers would refuse. Damping and leak are
// fractions in [0, 1]; density must be positive.
func (p SolverParams) Check() error {
	for _, f := range []struct {
		name   string
		v, max float64
	}{
		{"diffusivity", p.Diffusivity, math.Inf(1)},
		{"damping", p.Damping, 1},
		{"leak", p.Leak, 1},
		{"spread", p.Spread, math.Inf(1)},
	} {
		if !(f.v >= 0 && f.v <= f.max) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be in [0, %g], got %g", f.name, f.max, f.v)
		}
	}
	if !(p.Density > 0) || math.IsInf(p.Density, 0) {
		return fmt.Errorf("density must be positive, got %g", p.Density)
	}
	return nil
}

// Config controls the control-volume simulation.
type Config struct {
	Shape      string
	Width      float64
	Height     float64
	Depth      float64
	Resolution float64
	Arity      int
	Match      string
	Workers    int

	Solver string
	DT     float64
	Params SolverParams

	Seed            int64
	WallPressure    float64
	InletPressure   float64
	InitialPressure float64
	InitialWeight   float64
	FillJitter      float64
	PressureJitter  float64
	Obstacles       int
	ObstacleRadius  int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Shape:      ShapeRect,
		Width:      96,
		Height:     64,
		Depth:      6,
		Resolution: 1,
		Arity:      8,
		Match:      "strict",

		Solver: "diffusion",
		DT:     0.1,
		Params: SolverParams{
			Diffusivity: 0.2,
			Damping:     0.02,
			Leak:        0.25,
			Spread:      0.05,
			Density:     1,
		},

		Seed:            1337,
		WallPressure:    0,
		InletPressure:   1,
		InitialPressure: 0,
		InitialWeight:   0.4,
		FillJitter:      0.3,
		PressureJitter:  0.02,
		Obstacles:       3,
		ObstacleRadius:  4,
	}
}

// CheckInit validates the configuration and returns the first problem found.
func (c *Config) CheckInit() error {
	if c.Shape != ShapeRect && c.Shape != ShapeBox {
		return fmt.Errorf("shape must be %q or %q, got %q", ShapeRect, ShapeBox, c.Shape)
	}
	extents := []struct {
		name string
		v    float64
	}{{"width", c.Width}, {"height", c.Height}, {"resolution", c.Resolution}}
	if c.Shape == ShapeBox {
		extents = append(extents, struct {
			name string
			v    float64
		}{"depth", c.Depth})
	}
	for _, e := range extents {
		if !(e.v > 0) || math.IsInf(e.v, 0) {
			return fmt.Errorf("%s must be positive, got %g", e.name, e.v)
		}
	}
	if !slices.Contains(lattice.Arities(), c.Arity) {
		return fmt.Errorf("arity must be one of %v, got %d", lattice.Arities(), c.Arity)
	}
	if _, err := lattice.ParseMatch(c.Match); err != nil {
		return err
	}
	if !slices.Contains(lattice.Solvers(), c.Solver) {
		return fmt.Errorf("solver must be one of %v, got %q", lattice.Solvers(), c.Solver)
	}
	if !(c.DT > 0) {
		return fmt.Errorf("dt must be positive, got %g", c.DT)
	}
	if err := c.Params.Check(); err != nil {
		return err
	}
	if c.InitialWeight < 0 || c.InitialWeight > 1 {
		return fmt.Errorf("initial weight must be in [0, 1], got %g", c.InitialWeight)
	}
	if c.Obstacles < 0 || c.ObstacleRadius < 0 {
		return fmt.Errorf("obstacle count and radius must not be negative")
	}
	return nil
}

// fileConfig mirrors the INI layout read by LoadConfigFile.
type fileConfig struct {
	Volume struct {
		Shape      string
		Width      float64
		Height     float64
		Depth      float64
		Resolution float64
		Arity      int
		Match      string
		Workers    int
	}
	Solver struct {
		Name        string
		DT          float64 `gcfg:"dt"`
		Diffusivity float64
		Damping     float64
		Leak        float64
		Spread      float64
		Density     float64
	}
	Initial struct {
		Seed           int64
		WallPressure   float64 `gcfg:"wall-pressure"`
		InletPressure  float64 `gcfg:"inlet-pressure"`
		Pressure       float64
		Weight         float64
		FillJitter     float64 `gcfg:"fill-jitter"`
		PressureJitter float64 `gcfg:"pressure-jitter"`
		Obstacles      int
		ObstacleRadius int `gcfg:"obstacle-radius"`
	}
}

func toFile(c Config) fileConfig {
	var f fileConfig
	f.Volume.Shape = c.Shape
	f.Volume.Width = c.Width
	f.Volume.Height = c.Height
	f.Volume.Depth = c.Depth
	f.Volume.Resolution = c.Resolution
	f.Volume.Arity = c.Arity
	f.Volume.Match = c.Match
	f.Volume.Workers = c.Workers
	f.Solver.Name = c.Solver
	f.Solver.DT = c.DT
	f.Solver.Diffusivity = c.Params.Diffusivity
	f.Solver.Damping = c.Params.Damping
	f.Solver.Leak = c.Params.Leak
	f.Solver.Spread = c.Params.Spread
	f.Solver.Density = c.Params.Density
	f.Initial.Seed = c.Seed
	f.Initial.WallPressure = c.WallPressure
	f.Initial.InletPressure = c.InletPressure
	f.Initial.Pressure = c.InitialPressure
	f.Initial.Weight = c.InitialWeight
	f.Initial.FillJitter = c.FillJitter
	f.Initial.PressureJitter = c.PressureJitter
	f.Initial.Obstacles = c.Obstacles
	f.Initial.ObstacleRadius = c.ObstacleRadius
	return f
}

func (f fileConfig) config() Config {
	return Config{
		Shape:      f.Volume.Shape,
		Width:      f.Volume.Width,
		Height:     f.Volume.Height,
		Depth:      f.Volume.Depth,
		Resolution: f.Volume.Resolution,
		Arity:      f.Volume.Arity,
		Match:      f.Volume.Match,
		Workers:    f.Volume.Workers,
		Solver:     f.Solver.Name,
		DT:         f.Solver.DT,
		Params: SolverParams{
			Diffusivity: f.Solver.Diffusivity,
			Damping:     f.Solver.Damping,
			Leak:        f.Solver.Leak,
			Spread:      f.Solver.Spread,
			Density:     f.Solver.Density,
		},
		Seed:            f.Initial.Seed,
		WallPressure:    f.Initial.WallPressure,
		InletPressure:   f.Initial.InletPressure,
		InitialPressure: f.Initial.Pressure,
		InitialWeight:   f.Initial.Weight,
		FillJitter:      f.Initial.FillJitter,
		PressureJitter:  f.Initial.PressureJitter,
		Obstacles:       f.Initial.Obstacles,
		ObstacleRadius:  f.Initial.ObstacleRadius,
	}
}

// LoadConfigFile reads an INI file on top of base. Variables missing from the
// file keep their value from base.
func LoadConfigFile(path string, base Config) (Config, error) {
	f := toFile(base)
	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	c := f.config()
	if err := c.CheckInit(); err != nil {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unparseable or out-of-range values are ignored.
func FromMap(cfg map[string]string) Config {
	return overlay(DefaultConfig(), cfg)
}

func overlay(c Config, cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	float := func(keys []string, min float64, dst *float64) {
		for _, k := range keys {
			if v, ok := cfg[k]; ok {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= min {
					*dst = parsed
				}
			}
		}
	}
	integer := func(key string, min int, dst *int) {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= min {
				*dst = parsed
			}
		}
	}
	fraction := func(key string, dst *float64) {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
				*dst = parsed
			}
		}
	}
	const positive = math.SmallestNonzeroFloat64

	if v, ok := cfg["shape"]; ok && (v == ShapeRect || v == ShapeBox) {
		c.Shape = v
	}
	float([]string{"w", "width"}, positive, &c.Width)
	float([]string{"h", "height"}, positive, &c.Height)
	float([]string{"d", "depth"}, positive, &c.Depth)
	float([]string{"res", "resolution"}, positive, &c.Resolution)
	if v, ok := cfg["arity"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && slices.Contains(lattice.Arities(), parsed) {
			c.Arity = parsed
		}
	}
	if v, ok := cfg["match"]; ok {
		if _, err := lattice.ParseMatch(v); err == nil {
			c.Match = v
		}
	}
	integer("workers", 0, &c.Workers)
	if v, ok := cfg["solver"]; ok && v != "" {
		c.Solver = v
	}
	float([]string{"dt"}, positive, &c.DT)
	float([]string{"diffusivity"}, 0, &c.Params.Diffusivity)
	fraction("damping", &c.Params.Damping)
	fraction("leak", &c.Params.Leak)
	float([]string{"spread"}, 0, &c.Params.Spread)
	float([]string{"density"}, positive, &c.Params.Density)
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	float([]string{"wall_pressure"}, math.Inf(-1), &c.WallPressure)
	float([]string{"inlet_pressure"}, math.Inf(-1), &c.InletPressure)
	float([]string{"initial_pressure"}, math.Inf(-1), &c.InitialPressure)
	float([]string{"initial_weight"}, 0, &c.InitialWeight)
	if c.InitialWeight > 1 {
		c.InitialWeight = 1
	}
	float([]string{"fill_jitter"}, 0, &c.FillJitter)
	float([]string{"pressure_jitter"}, 0, &c.PressureJitter)
	integer("obstacles", 0, &c.Obstacles)
	integer("obstacle_radius", 0, &c.ObstacleRadius)
	return c
}
