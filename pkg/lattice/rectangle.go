package lattice

import (
	"fmt"
	"math"
)

// MaxNodes bounds the arena size so every node fits a NodeID.
const MaxNodes = math.MaxInt32

// GridCount converts a physical extent into a node count by rounding to the
// nearest whole number of resolution steps. It fails for non-finite inputs, a
// non-positive resolution or a count above MaxNodes.
func GridCount(extent, resolution float64) (int, error) {
	steps := (extent + 0.5*resolution) / resolution
	switch {
	case math.IsNaN(resolution) || math.IsInf(resolution, 0) || resolution <= 0:
		return 0, fmt.Errorf("%w: resolution must be positive and finite, got %g", ErrInvalidGridDimensions, resolution)
	case math.IsNaN(steps) || math.IsInf(steps, 0):
		return 0, fmt.Errorf("%w: extent %g is not finite", ErrInvalidGridDimensions, extent)
	case steps > MaxNodes:
		return 0, fmt.Errorf("%w: extent %g spans more than %d steps of %g", ErrInvalidGridDimensions, extent, MaxNodes, resolution)
	case steps < 0:
		return 0, nil
	}
	return int(steps), nil
}

func checkExtent(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidGridDimensions, name, v)
	}
	return nil
}

func interiorCount(name string, extent, resolution float64) (int, error) {
	n, err := GridCount(extent, resolution)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s %g is smaller than half a resolution step (%g)", ErrInvalidGridDimensions, name, extent, resolution)
	}
	return n, nil
}

// arenaSize returns layers*rows*cols, failing once the product exceeds
// MaxNodes.
func arenaSize(layers, rows, cols int) (int, error) {
	total := 1
	for _, n := range []int{layers, rows, cols} {
		if n <= 0 || total > MaxNodes/n {
			return 0, fmt.Errorf("%w: %d x %d x %d nodes exceeds %d", ErrInvalidGridDimensions, layers, rows, cols, MaxNodes)
		}
		total *= n
	}
	return total, nil
}

// NewRectangle builds a planar volume of round(height/resolution) rows by
// round(width/resolution) columns of fluid cells surrounded by a one-node wall
// border.
func NewRectangle(width, height, resolution float64, opts ...Option) (*Volume, error) {
	for _, chk := range []struct {
		name string
		v    float64
	}{{"resolution", resolution}, {"width", width}, {"height", height}} {
		if err := checkExtent(chk.name, chk.v); err != nil {
			return nil, err
		}
	}
	cols, err := interiorCount("width", width, resolution)
	if err != nil {
		return nil, err
	}
	rows, err := interiorCount("height", height, resolution)
	if err != nil {
		return nil, err
	}
	return newVolume(1, rows+2, cols+2, resolution, true, opts)
}

// NewBox is the three-dimensional counterpart of NewRectangle. The wall shell
// also closes the volume in depth.
func NewBox(width, height, depth, resolution float64, opts ...Option) (*Volume, error) {
	for _, chk := range []struct {
		name string
		v    float64
	}{{"resolution", resolution}, {"width", width}, {"height", height}, {"depth", depth}} {
		if err := checkExtent(chk.name, chk.v); err != nil {
			return nil, err
		}
	}
	cols, err := interiorCount("width", width, resolution)
	if err != nil {
		return nil, err
	}
	rows, err := interiorCount("height", height, resolution)
	if err != nil {
		return nil, err
	}
	layers, err := interiorCount("depth", depth, resolution)
	if err != nil {
		return nil, err
	}
	return newVolume(layers+2, rows+2, cols+2, resolution, false, opts)
}
