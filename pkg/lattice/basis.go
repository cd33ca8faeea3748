package lattice

import (
	"fmt"
	"math"
	"slices"

	"fluid-cv/pkg/geom"

	"gonum.org/v1/gonum/spatial/r3"
)

// Basis is a fixed set of reference directions and the angular tolerance
// within which a neighbour direction counts as covering one of them.
type Basis struct {
	arity     int
	tolerance float64
	dirs      []r3.Vec
}

// Arity returns the number of directions in the basis.
func (b *Basis) Arity() int { return b.arity }

// Tolerance returns the maximum matching angle in radians.
func (b *Basis) Tolerance() float64 { return b.tolerance }

// Directions returns a copy of the unit reference directions.
func (b *Basis) Directions() []r3.Vec { return slices.Clone(b.dirs) }

var bases = buildBases()

func buildBases() map[int]*Basis {
	const (
		oosr2 = 1 / math.Sqrt2
		oosr3 = 1 / 1.7320508075688772
	)
	raw := map[int]struct {
		dirs []r3.Vec
		tol  float64
	}{
		4: {
			dirs: []r3.Vec{
				{X: 1, Y: 0, Z: -oosr2},
				{X: -1, Y: 0, Z: -oosr2},
				{X: 0, Y: 1, Z: oosr2},
				{X: 0, Y: -1, Z: oosr2},
			},
			tol: 0,
		},
		6: {
			dirs: []r3.Vec{
				{X: 1}, {X: -1},
				{Y: 1}, {Y: -1},
				{Z: 1}, {Z: -1},
			},
			tol: math.Pi / 2,
		},
		8: {
			dirs: []r3.Vec{
				{X: oosr3, Y: oosr3, Z: oosr3},
				{X: oosr3, Y: oosr3, Z: -oosr3},
				{X: oosr3, Y: -oosr3, Z: oosr3},
				{X: oosr3, Y: -oosr3, Z: -oosr3},
				{X: -oosr3, Y: oosr3, Z: oosr3},
				{X: -oosr3, Y: oosr3, Z: -oosr3},
				{X: -oosr3, Y: -oosr3, Z: oosr3},
				{X: -oosr3, Y: -oosr3, Z: -oosr3},
			},
			tol: math.Acos(-1.0 / 3),
		},
	}

	out := make(map[int]*Basis, len(raw))
	for arity, entry := range raw {
		b := &Basis{arity: arity, tolerance: entry.tol, dirs: make([]r3.Vec, len(entry.dirs))}
		for i, d := range entry.dirs {
			u, err := geom.Normalize(d)
			if err != nil {
				panic(fmt.Sprintf("basis %d direction %d: %v", arity, i, err))
			}
			b.dirs[i] = u
		}
		out[arity] = b
	}
	return out
}

// LookupBasis returns the registered basis for arity.
func LookupBasis(arity int) (*Basis, error) {
	b, ok := bases[arity]
	if !ok {
		return nil, fmt.Errorf("%w: %d (supported: %v)", ErrUnsupportedBasisArity, arity, Arities())
	}
	return b, nil
}

// Arities lists the registered basis arities in ascending order.
func Arities() []int {
	out := make([]int, 0, len(bases))
	for a := range bases {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}
