package cv

import (
	"fmt"
	"math"

	"fluid-cv/internal/core"
	"fluid-cv/pkg/lattice"

	"gonum.org/v1/gonum/floats"
)

// Parameters implements the HUD parameter snapshot.
func (w *World) Parameters() core.ParameterSnapshot {
	c := w.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Volume",
			Params: []core.Parameter{
				core.StringParam("shape", "Shape", c.Shape),
				core.FloatParam("width", "Width", c.Width),
				core.FloatParam("height", "Height", c.Height),
				core.FloatParam("depth", "Depth", c.Depth),
				core.FloatParam("res", "Resolution", w.vol.Resolution()),
				core.IntParam("arity", "Arity", c.Arity),
				core.StringParam("match", "Match", c.Match),
				core.Int64Param("seed", "Seed", w.seed),
			},
		},
		{
			Name: "Solver",
			Params: []core.Parameter{
				core.StringParam("solver", "Solver", c.Solver),
				core.FloatParam("dt", "Time step", c.DT),
				core.FloatParam("diffusivity", "Diffusivity", c.Params.Diffusivity),
				core.FloatParam("damping", "Damping", c.Params.Damping),
				core.FloatParam("leak", "Leak", c.Params.Leak),
				core.FloatParam("spread", "Spread", c.Params.Spread),
				core.FloatParam("density", "Density", c.Params.Density),
			},
		},
		{
			Name: "Boundary",
			Params: []core.Parameter{
				core.FloatParam("wall_pressure", "Wall pressure", c.WallPressure),
				core.FloatParam("inlet_pressure", "Inlet pressure", c.InletPressure),
				core.FloatParam("initial_weight", "Initial fill", c.InitialWeight),
				core.IntParam("obstacles", "Obstacles", c.Obstacles),
				core.IntParam("obstacle_radius", "Obstacle radius", c.ObstacleRadius),
			},
		},
	}}
}

// ParameterControls lists the values adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	unit := func(key, label string, step float64) core.ParameterControl {
		return core.ParameterControl{Key: key, Label: label, Type: core.ParamTypeFloat, Step: step, Min: 0, Max: 1, HasMin: true, HasMax: true}
	}
	return []core.ParameterControl{
		{Key: "arity", Label: "Arity", Type: core.ParamTypeInt, Step: 2, Min: 4, Max: 8, HasMin: true, HasMax: true},
		{Key: "inlet_pressure", Label: "Inlet pressure", Type: core.ParamTypeFloat, Step: 0.1, Min: -10, Max: 10, HasMin: true, HasMax: true},
		{Key: "dt", Label: "Time step", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.01, Max: 1, HasMin: true, HasMax: true},
		unit("diffusivity", "Diffusivity", 0.02),
		unit("damping", "Damping", 0.01),
		unit("leak", "Leak", 0.05),
		unit("spread", "Spread", 0.01),
		{Key: "obstacles", Label: "Obstacles", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 32, HasMin: true, HasMax: true},
	}
}

func (w *World) control(key string) (core.ParameterControl, bool) {
	for _, c := range w.ParameterControls() {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetFloatParameter updates a solver coefficient, the time step or the inlet
// pressure in place. Values are clamped to the control limits.
func (w *World) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeFloat || math.IsNaN(value) {
		return false
	}
	value = ctrl.Clamp(value)

	params := w.cfg.Params
	switch key {
	case "inlet_pressure":
		w.cfg.InletPressure = value
		w.applyInlet()
		w.refresh()
		return true
	case "dt":
		w.cfg.DT = value
		return true
	case "diffusivity":
		params.Diffusivity = value
	case "damping":
		params.Damping = value
	case "leak":
		params.Leak = value
	case "spread":
		params.Spread = value
	default:
		return false
	}
	solver, err := lattice.NewSolver(w.cfg.Solver, params.Map())
	if err != nil {
		return false
	}
	w.cfg.Params = params
	w.solver = solver
	return true
}

// SetIntParameter changes a structural value and rebuilds the volume with the
// current seed.
func (w *World) SetIntParameter(key string, value int) bool {
	ctrl, ok := w.control(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	value = int(ctrl.Clamp(float64(value)))

	next := w.cfg
	switch key {
	case "arity":
		// Snap to the nearest supported basis.
		switch {
		case value < 5:
			value = 4
		case value < 7:
			value = 6
		default:
			value = 8
		}
		next.Arity = value
	case "obstacles":
		next.Obstacles = value
	default:
		return false
	}
	prev := w.cfg
	w.cfg = next
	if err := w.rebuild(w.seed); err != nil {
		w.cfg = prev
		w.logger.Printf("cv: set %s=%d: %v", key, value, err)
		return false
	}
	return true
}

// Stats implements core.StatsProvider.
func (w *World) Stats() []core.Stat {
	var pressure, speed, weight []float64
	w.vol.EachCell(func(c *lattice.Cell) {
		pressure = append(pressure, c.Pressure)
		speed = append(speed, math.Hypot(c.Velocity.X, c.Velocity.Y))
		weight = append(weight, c.Weight)
	})
	stats := []core.Stat{
		{Label: "Tick", Value: fmt.Sprint(w.vol.Ticks())},
		{Label: "Cells", Value: fmt.Sprint(len(pressure))},
		{Label: "Contained", Value: fmt.Sprint(w.vol.ContainedCount())},
	}
	if n := float64(len(pressure)); n > 0 {
		stats = append(stats,
			core.Stat{Label: "Mean pressure", Value: fmt.Sprintf("%.4f", floats.Sum(pressure)/n)},
			core.Stat{Label: "Max speed", Value: fmt.Sprintf("%.4f", floats.Max(speed))},
			core.Stat{Label: "Total fill", Value: fmt.Sprintf("%.3f", floats.Sum(weight))},
		)
	}
	if w.err != nil {
		stats = append(stats, core.Stat{Label: "Error", Value: w.err.Error()})
	}
	return stats
}
