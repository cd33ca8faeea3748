package still

import (
	"testing"

	"fluid-cv/pkg/lattice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestStillCopiesState(t *testing.T) {
	t.Parallel()

	self := lattice.CellState{
		Pressure:     1.5,
		Velocity:     r2.Vec{X: 1, Y: 2},
		Acceleration: r2.Vec{X: -1},
		Weight:       0.3,
	}
	nbrs := []lattice.NeighborState{{Pressure: 100, Wall: true}}
	got := Still{}.Update(self, nbrs, 0.5)
	assert.Equal(t, lattice.Update{
		Pressure:     1.5,
		Velocity:     r2.Vec{X: 1, Y: 2},
		Acceleration: r2.Vec{X: -1},
		Weight:       0.3,
	}, got)
}

func TestStillRegistered(t *testing.T) {
	t.Parallel()

	s, err := lattice.NewSolver("still", nil)
	require.NoError(t, err)
	assert.Equal(t, "still", s.Name())
}
