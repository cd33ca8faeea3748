package lattice

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// CellState is a cell as seen at the start of a tick.
type CellState struct {
	ID           NodeID
	Pressure     float64
	Velocity     r2.Vec
	Acceleration r2.Vec
	Weight       float64
	Contained    bool
}

// NeighborState is a neighbour as seen at the start of a tick. Walls report
// their fixed pressure, zero velocity and full weight.
type NeighborState struct {
	ID NodeID
	Link
	Pressure float64
	Velocity r2.Vec
	Weight   float64
	Wall     bool
}

// Update is the new state a solver computes for one cell.
type Update struct {
	Pressure     float64
	Velocity     r2.Vec
	Acceleration r2.Vec
	Weight       float64
}

// Solver computes the next state of a single cell. Update is called
// concurrently for different cells and must not retain nbrs.
type Solver interface {
	Name() string
	Update(self CellState, nbrs []NeighborState, dt float64) Update
}

// SolverFactory builds a solver from numeric parameters. Unknown keys are
// ignored.
type SolverFactory func(params map[string]float64) Solver

var solvers = map[string]SolverFactory{}

// RegisterSolver adds a solver factory under name.
func RegisterSolver(name string, f SolverFactory) {
	if name == "" || f == nil {
		return
	}
	solvers[name] = f
}

// Solvers lists registered solver names in ascending order.
func Solvers() []string {
	out := make([]string, 0, len(solvers))
	for name := range solvers {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// NewSolver builds the registered solver called name.
func NewSolver(name string, params map[string]float64) (Solver, error) {
	f, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownSolver, name, Solvers())
	}
	return f(params), nil
}
