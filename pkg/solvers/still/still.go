// Package still provides a solver that leaves every cell as it was.
package still

import "fluid-cv/pkg/lattice"

// Still returns each cell's own state unchanged.
type Still struct{}

// Name returns the solver identifier.
func (Still) Name() string { return "still" }

// Update copies the cell's state into the update.
func (Still) Update(self lattice.CellState, _ []lattice.NeighborState, _ float64) lattice.Update {
	return lattice.Update{
		Pressure:     self.Pressure,
		Velocity:     self.Velocity,
		Acceleration: self.Acceleration,
		Weight:       self.Weight,
	}
}

func init() {
	lattice.RegisterSolver("still", func(map[string]float64) lattice.Solver { return Still{} })
}
