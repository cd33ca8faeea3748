// Package diffusion implements an explicit pressure-relaxation solver.
//
// Each tick a cell's pressure relaxes towards its neighbours, the pressure
// difference along every link accelerates the cell in the plane, and the fill
// weight diffuses between fluid cells. Cells that are not contained leak part
// of their velocity, which is how open topology restricts flow.
package diffusion

import (
	"fluid-cv/pkg/geom"
	"fluid-cv/pkg/lattice"

	"gonum.org/v1/gonum/spatial/r2"
)

// Params holds the solver coefficients.
type Params struct {
	Diffusivity float64 // pressure relaxation rate
	Density     float64
	Damping     float64 // fraction of velocity lost per tick
	Leak        float64 // extra fraction lost by uncontained cells
	Spread      float64 // weight diffusion rate
}

// DefaultParams returns coefficients that are stable for dt <= 0.1 on a unit
// resolution grid.
func DefaultParams() Params {
	return Params{
		Diffusivity: 0.2,
		Density:     1,
		Damping:     0.02,
		Leak:        0.25,
		Spread:      0.05,
	}
}

// FromMap overrides defaults with any recognised keys.
func FromMap(m map[string]float64) Params {
	p := DefaultParams()
	if v, ok := m["diffusivity"]; ok && v >= 0 {
		p.Diffusivity = v
	}
	if v, ok := m["density"]; ok && v > 0 {
		p.Density = v
	}
	if v, ok := m["damping"]; ok && v >= 0 && v <= 1 {
		p.Damping = v
	}
	if v, ok := m["leak"]; ok && v >= 0 && v <= 1 {
		p.Leak = v
	}
	if v, ok := m["spread"]; ok && v >= 0 {
		p.Spread = v
	}
	return p
}

// Solver is safe for concurrent use; it holds no per-tick state.
type Solver struct {
	p Params
}

// New returns a solver with the given parameters.
func New(p Params) *Solver {
	if p.Density <= 0 {
		p.Density = 1
	}
	return &Solver{p: p}
}

// Params returns the coefficients in use.
func (s *Solver) Params() Params { return s.p }

// Name returns the solver identifier.
func (s *Solver) Name() string { return "diffusion" }

// Update computes the next state of one cell.
func (s *Solver) Update(self lattice.CellState, nbrs []lattice.NeighborState, dt float64) lattice.Update {
	var (
		lap    float64
		grad   r2.Vec
		spread float64
	)
	for _, n := range nbrs {
		if n.Dist <= 0 {
			continue
		}
		dp := n.Pressure - self.Pressure
		lap += dp / (n.Dist * n.Dist)
		// Flow runs from high to low pressure.
		grad = r2.Add(grad, r2.Scale(-dp/n.Dist, geom.Planar(n.Dir)))
		if !n.Wall {
			spread += n.Weight - self.Weight
		}
	}

	accel := r2.Scale(1/s.p.Density, grad)
	keep := 1 - s.p.Damping
	if !self.Contained {
		keep *= 1 - s.p.Leak
	}
	vel := r2.Scale(keep, r2.Add(self.Velocity, r2.Scale(dt, accel)))

	weight := self.Weight + s.p.Spread*dt*spread
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}

	return lattice.Update{
		Pressure:     self.Pressure + s.p.Diffusivity*dt*lap,
		Velocity:     vel,
		Acceleration: accel,
		Weight:       weight,
	}
}

func init() {
	lattice.RegisterSolver("diffusion", func(m map[string]float64) lattice.Solver {
		return New(FromMap(m))
	})
}
