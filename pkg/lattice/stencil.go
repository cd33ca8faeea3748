package lattice

// offset is a (layer, row, col) step to a neighbouring node.
type offset struct{ dk, dr, dc int }

// Stencils are symmetric: if o is present so is -o. Wiring relies on this to
// create both directions of every cell-to-cell link.
var (
	vonNeumann = []offset{
		{0, 0, 1}, {0, 0, -1},
		{0, 1, 0}, {0, -1, 0},
	}
	// Square-lattice equivalent of hexagonal connectivity.
	hexPlanar = []offset{
		{0, 0, 1}, {0, 0, -1},
		{0, 1, 0}, {0, -1, 0},
		{0, 1, 1}, {0, -1, -1},
	}
	moore = []offset{
		{0, -1, -1}, {0, -1, 0}, {0, -1, 1},
		{0, 0, -1}, {0, 0, 1},
		{0, 1, -1}, {0, 1, 0}, {0, 1, 1},
	}
	faces = []offset{
		{0, 0, 1}, {0, 0, -1},
		{0, 1, 0}, {0, -1, 0},
		{1, 0, 0}, {-1, 0, 0},
	}
	bodyDiagonals = []offset{
		{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
		{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
	}
)

// stencilFor picks the neighbour offsets that match a basis arity.
func stencilFor(arity int, planar bool) []offset {
	switch arity {
	case 6:
		if planar {
			return hexPlanar
		}
		return faces
	case 8:
		if planar {
			return moore
		}
		return bodyDiagonals
	default:
		return vonNeumann
	}
}
