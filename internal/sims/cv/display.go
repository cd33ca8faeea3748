package cv

import (
	"image/color"

	"fluid-cv/pkg/lattice"
)

// DisplayWall marks wall nodes in Cells; lower values are lattice levels.
const DisplayWall = lattice.LevelSolid + 1

var cvPalette = []color.RGBA{
	lattice.LevelAbsent: {R: 0, G: 0, B: 0, A: 255},
	lattice.LevelFaint:  {R: 18, G: 34, B: 64, A: 255},
	lattice.LevelSparse: {R: 30, G: 82, B: 140, A: 255},
	lattice.LevelDense:  {R: 58, G: 140, B: 206, A: 255},
	lattice.LevelSolid:  {R: 150, G: 210, B: 245, A: 255},
	DisplayWall:         {R: 120, G: 120, B: 120, A: 255},
}

// Palette exposes the colors used for each display level.
func (w *World) Palette() []color.RGBA { return cvPalette }

func displayLevel(n lattice.NodeView) uint8 {
	if n.Wall && n.Exists {
		return DisplayWall
	}
	return lattice.Level(n)
}
