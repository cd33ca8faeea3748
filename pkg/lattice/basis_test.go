package lattice

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestArities(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int{4, 6, 8}, Arities())
}

func TestBasisTable(t *testing.T) {
	t.Parallel()

	want := map[int]float64{
		4: 0,
		6: math.Pi / 2,
		8: math.Acos(-1.0 / 3),
	}
	for arity, tol := range want {
		b, err := LookupBasis(arity)
		require.NoError(t, err)
		assert.Equal(t, arity, b.Arity())
		assert.InDelta(t, tol, b.Tolerance(), 1e-15)

		dirs := b.Directions()
		require.Len(t, dirs, arity)
		for i, d := range dirs {
			assert.InDelta(t, 1, r3.Norm(d), 1e-12, "arity %d direction %d", arity, i)
			for j := i + 1; j < len(dirs); j++ {
				assert.NotEqual(t, d, dirs[j], "arity %d has duplicate directions", arity)
			}
		}
	}
}

func TestBasisDirectionsAreCopies(t *testing.T) {
	t.Parallel()

	b, err := LookupBasis(6)
	require.NoError(t, err)
	dirs := b.Directions()
	dirs[0] = r3.Vec{X: 42}
	assert.Equal(t, r3.Vec{X: 1}, b.Directions()[0])
}

func TestLookupBasisUnsupported(t *testing.T) {
	t.Parallel()

	for _, arity := range []int{0, 3, 5, 7, 12, -6} {
		_, err := LookupBasis(arity)
		assert.ErrorIs(t, err, ErrUnsupportedBasisArity, "arity %d", arity)
	}

	_, err := NewCell(0, r3.Vec{}, 5, 0)
	assert.ErrorIs(t, err, ErrUnsupportedBasisArity)
}
