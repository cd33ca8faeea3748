package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var axes = []r3.Vec{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

func newTestCell(t *testing.T, arity int, m Match, dirs ...r3.Vec) *Cell {
	t.Helper()
	c, err := NewCell(0, r3.Vec{}, arity, 0)
	require.NoError(t, err)
	c.SetMatch(m)
	for i, d := range dirs {
		c.Link(NodeID(i+1), Link{Dir: r3.Unit(d), Dist: r3.Norm(d)})
	}
	return c
}

func TestSixBasisAllAxes(t *testing.T) {
	t.Parallel()

	c := newTestCell(t, 6, MatchStrict, axes...)
	assert.True(t, c.Contained())

	for i := range axes {
		c := newTestCell(t, 6, MatchStrict, axes...)
		require.True(t, c.Unlink(NodeID(i+1)))
		assert.False(t, c.Contained(), "removing %v should break containment", axes[i])
	}
}

func TestSixBasisInclusiveBoundary(t *testing.T) {
	t.Parallel()

	// The remaining axes sit exactly at the π/2 tolerance of the missing one.
	c := newTestCell(t, 6, MatchInclusive, axes[1:]...)
	assert.True(t, c.Contained())

	c = newTestCell(t, 6, MatchStrict, axes[1:]...)
	assert.False(t, c.Contained())
}

func TestEightBasis(t *testing.T) {
	t.Parallel()

	b, err := LookupBasis(8)
	require.NoError(t, err)

	t.Run("all diagonals", func(t *testing.T) {
		c := newTestCell(t, 8, MatchStrict, b.Directions()...)
		assert.True(t, c.Contained())
	})

	t.Run("single axis neighbour", func(t *testing.T) {
		c := newTestCell(t, 8, MatchStrict, r3.Vec{X: 1})
		assert.False(t, c.Contained())
	})

	t.Run("positive axes only", func(t *testing.T) {
		// (-1,-1,-1)/√3 is ~125° from every positive axis.
		c := newTestCell(t, 8, MatchStrict, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})
		assert.False(t, c.Contained())
	})

	t.Run("one diagonal and positive axes", func(t *testing.T) {
		c := newTestCell(t, 8, MatchStrict, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1})
		assert.False(t, c.Contained())
	})

	t.Run("full axis set within wide tolerance", func(t *testing.T) {
		// Each diagonal is ~54.7° from three axes, inside arccos(-1/3).
		c := newTestCell(t, 8, MatchStrict, axes...)
		assert.True(t, c.Contained())
	})
}

func TestFourBasisZeroTolerance(t *testing.T) {
	t.Parallel()

	b, err := LookupBasis(4)
	require.NoError(t, err)
	exact := b.Directions()

	t.Run("strict never matches", func(t *testing.T) {
		c := newTestCell(t, 4, MatchStrict, exact...)
		assert.False(t, c.Contained())
	})

	t.Run("inclusive matches exact directions", func(t *testing.T) {
		c := newTestCell(t, 4, MatchInclusive, exact...)
		assert.True(t, c.Contained())
	})

	t.Run("inclusive rejects near misses", func(t *testing.T) {
		tilted := make([]r3.Vec, len(exact))
		copy(tilted, exact)
		tilted[0] = r3.Add(tilted[0], r3.Vec{Y: 1e-3})
		c := newTestCell(t, 4, MatchInclusive, tilted...)
		assert.False(t, c.Contained())
	})

	t.Run("planar lattice directions", func(t *testing.T) {
		c := newTestCell(t, 4, MatchInclusive, r3.Vec{X: 1}, r3.Vec{X: -1}, r3.Vec{Y: 1}, r3.Vec{Y: -1})
		assert.False(t, c.Contained())
	})
}

func TestContainmentIdempotent(t *testing.T) {
	t.Parallel()

	for _, arity := range Arities() {
		b, err := LookupBasis(arity)
		require.NoError(t, err)
		for _, dirs := range [][]r3.Vec{axes, b.Directions(), axes[:3]} {
			c := newTestCell(t, arity, MatchStrict, dirs...)
			first := c.CheckContainment()
			second := c.CheckContainment()
			assert.Equal(t, first, second)
			assert.Equal(t, first, c.Contained())
		}
	}
}

func TestContainmentFollowsTopology(t *testing.T) {
	t.Parallel()

	c := newTestCell(t, 6, MatchStrict, axes...)
	require.True(t, c.Contained())
	rev := c.Revision()

	c.Unlink(5)
	assert.NotEqual(t, rev, c.Revision())
	assert.False(t, c.Contained(), "cached flag must be dropped after unlink")

	c.Link(99, Link{Dir: r3.Vec{Z: 1}, Dist: 1})
	assert.True(t, c.Contained())

	assert.False(t, c.Unlink(12345))
}

func TestContainmentEmptyNeighbourhood(t *testing.T) {
	t.Parallel()

	for _, arity := range Arities() {
		c := newTestCell(t, arity, MatchInclusive)
		assert.False(t, c.Contained(), "arity %d", arity)
	}
}

func TestMatchParse(t *testing.T) {
	t.Parallel()

	m, err := ParseMatch("inclusive")
	require.NoError(t, err)
	assert.Equal(t, MatchInclusive, m)
	assert.Equal(t, "inclusive", m.String())

	m, err = ParseMatch("")
	require.NoError(t, err)
	assert.Equal(t, MatchStrict, m)

	_, err = ParseMatch("sloppy")
	assert.Error(t, err)
}
