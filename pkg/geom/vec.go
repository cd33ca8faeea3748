// Package geom holds the small amount of vector math the lattice needs on top
// of gonum's r2/r3 types.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateVector is returned when a zero-length vector has to be
// normalized.
var ErrDegenerateVector = errors.New("geom: degenerate (zero-length) vector")

// clampEps is how close a dot product must be to ±1 before it snaps to 0 or π.
const clampEps = 1e-8

// Normalize returns v scaled to unit length.
func Normalize(v r3.Vec) (r3.Vec, error) {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return r3.Vec{}, ErrDegenerateVector
	}
	return r3.Scale(1/n, v), nil
}

// AngleBetween returns the angle in radians between a and b, in [0, π].
// Dot products within 1e-8 of +1 or -1 return exactly 0 or π.
func AngleBetween(a, b r3.Vec) (float64, error) {
	ua, err := Normalize(a)
	if err != nil {
		return 0, err
	}
	ub, err := Normalize(b)
	if err != nil {
		return 0, err
	}
	return UnitAngle(ua, ub), nil
}

// UnitAngle is AngleBetween for vectors the caller already knows are unit
// length. No normalization is done.
func UnitAngle(a, b r3.Vec) float64 {
	dot := r3.Dot(a, b)
	if math.Abs(dot-1) < clampEps {
		return 0
	}
	if math.Abs(dot+1) < clampEps {
		return math.Pi
	}
	// Values a hair outside [-1, 1] can still slip past the snap above.
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot)
}

// Direction returns the unit vector pointing from one position to another and
// the distance between them.
func Direction(from, to r3.Vec) (r3.Vec, float64, error) {
	d := r3.Sub(to, from)
	dist := r3.Norm(d)
	u, err := Normalize(d)
	if err != nil {
		return r3.Vec{}, 0, err
	}
	return u, dist, nil
}

// Planar drops the z component.
func Planar(v r3.Vec) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Finite reports whether every component of v is a finite number.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
