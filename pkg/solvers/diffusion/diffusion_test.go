package diffusion

import (
	"context"
	"math"
	"testing"

	"fluid-cv/pkg/lattice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func ring(p float64, wall bool) []lattice.NeighborState {
	dirs := []r3.Vec{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}
	out := make([]lattice.NeighborState, len(dirs))
	for i, d := range dirs {
		out[i] = lattice.NeighborState{
			ID:       lattice.NodeID(i + 1),
			Link:     lattice.Link{Dir: d, Dist: 1},
			Pressure: p,
			Weight:   0.5,
			Wall:     wall,
		}
	}
	return out
}

func TestUniformPressureIsSteady(t *testing.T) {
	t.Parallel()

	s := New(DefaultParams())
	self := lattice.CellState{Pressure: 2, Weight: 0.5, Contained: true}
	u := s.Update(self, ring(2, false), 0.1)

	assert.Equal(t, 2.0, u.Pressure)
	assert.Equal(t, r2.Vec{}, u.Acceleration)
	assert.Equal(t, r2.Vec{}, u.Velocity)
	assert.Equal(t, 0.5, u.Weight)
}

func TestPressureGradientAccelerates(t *testing.T) {
	t.Parallel()

	s := New(DefaultParams())
	nbrs := ring(0, false)
	// High pressure on the -x side pushes the cell towards +x.
	nbrs[1].Pressure = 1

	u := s.Update(lattice.CellState{Contained: true}, nbrs, 0.1)
	assert.Greater(t, u.Acceleration.X, 0.0)
	assert.InDelta(t, 0, u.Acceleration.Y, 1e-15)
	assert.Greater(t, u.Velocity.X, 0.0)
	assert.Greater(t, u.Pressure, 0.0)
}

func TestUncontainedCellsLeak(t *testing.T) {
	t.Parallel()

	s := New(DefaultParams())
	self := lattice.CellState{Velocity: r2.Vec{X: 1}, Contained: true}
	held := s.Update(self, nil, 0.1)
	self.Contained = false
	leaked := s.Update(self, nil, 0.1)

	assert.InDelta(t, 1-s.Params().Damping, held.Velocity.X, 1e-12)
	assert.Less(t, leaked.Velocity.X, held.Velocity.X)
}

func TestWeightStaysInRange(t *testing.T) {
	t.Parallel()

	s := New(Params{Spread: 100, Density: 1})
	full := ring(0, false)
	for i := range full {
		full[i].Weight = 1
	}
	u := s.Update(lattice.CellState{Weight: 0.9}, full, 1)
	assert.Equal(t, 1.0, u.Weight)

	empty := ring(0, false)
	for i := range empty {
		empty[i].Weight = 0
	}
	u = s.Update(lattice.CellState{Weight: 0.1}, empty, 1)
	assert.Equal(t, 0.0, u.Weight)

	// Walls never exchange fill.
	u = s.Update(lattice.CellState{Weight: 0.1}, ring(0, true), 1)
	assert.Equal(t, 0.1, u.Weight)
}

func TestFromMap(t *testing.T) {
	t.Parallel()

	p := FromMap(map[string]float64{
		"diffusivity": 0.4,
		"damping":     2, // out of range, ignored
		"leak":        0.5,
		"density":     -1, // ignored
		"unknown":     7,
	})
	def := DefaultParams()
	assert.Equal(t, 0.4, p.Diffusivity)
	assert.Equal(t, def.Damping, p.Damping)
	assert.Equal(t, 0.5, p.Leak)
	assert.Equal(t, def.Density, p.Density)
	assert.Equal(t, def, FromMap(nil))
}

func TestRegistered(t *testing.T) {
	t.Parallel()

	s, err := lattice.NewSolver("diffusion", map[string]float64{"spread": 0.3})
	require.NoError(t, err)
	d, ok := s.(*Solver)
	require.True(t, ok)
	assert.Equal(t, 0.3, d.Params().Spread)
}

func TestInletDrivesFlowAcrossVolume(t *testing.T) {
	t.Parallel()

	v, err := lattice.NewRectangle(6, 3, 1, lattice.WithArity(8))
	require.NoError(t, err)
	_, rows, _ := v.Shape()
	for r := 0; r < rows; r++ {
		require.NoError(t, v.SetPressure(v.At(0, r, 0), 1))
	}

	require.NoError(t, v.Run(context.Background(), New(DefaultParams()), 0.1, 200))

	near, _ := v.Cell(v.At(0, 2, 1))
	far, _ := v.Cell(v.At(0, 2, 6))
	assert.Greater(t, near.Pressure, far.Pressure)
	assert.Greater(t, near.Velocity.X, 0.0)

	v.EachCell(func(c *lattice.Cell) {
		assert.False(t, math.IsNaN(c.Pressure))
		assert.LessOrEqual(t, c.Pressure, 1.0+1e-9, "pressure must stay bounded by the boundary values")
		assert.GreaterOrEqual(t, c.Pressure, -1e-9)
	})

	inlet, _ := v.Point(v.At(0, 2, 0))
	assert.Equal(t, 1.0, inlet.Pressure)
}
