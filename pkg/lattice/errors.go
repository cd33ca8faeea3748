package lattice

import "errors"

var (
	// ErrUnsupportedBasisArity is returned when a cell asks for a basis arity
	// that is not registered.
	ErrUnsupportedBasisArity = errors.New("unsupported basis arity")

	// ErrInvalidGridDimensions is returned for non-positive or non-finite
	// volume dimensions, or when rounding leaves no interior cells.
	ErrInvalidGridDimensions = errors.New("invalid grid dimensions")

	// ErrUnknownNode is returned when a NodeID does not belong to the volume.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNonFiniteUpdate aborts a tick whose solver produced NaN or Inf.
	ErrNonFiniteUpdate = errors.New("solver produced a non-finite update")

	// ErrUnknownSolver is returned by NewSolver for unregistered names.
	ErrUnknownSolver = errors.New("unknown solver")
)
