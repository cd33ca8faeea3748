package lattice

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// NodeView is the read-only per-node record handed to renderers.
type NodeView struct {
	Exists    bool
	Wall      bool
	Weight    float64
	Pressure  float64
	Velocity  r2.Vec
	Contained bool
}

// View is a row-major (layer, row, col) snapshot of a volume.
type View struct {
	VolumeID           uuid.UUID
	Layers, Rows, Cols int
	Tick               uint64
	Nodes              []NodeView
}

// View copies the current state of every node.
func (v *Volume) View() View {
	out := View{
		VolumeID: v.id,
		Layers:   v.layers,
		Rows:     v.rows,
		Cols:     v.cols,
		Tick:     v.ticks,
		Nodes:    make([]NodeView, len(v.points)),
	}
	for id, pt := range v.points {
		nv := NodeView{Exists: !v.absent[id], Wall: pt.Wall, Pressure: pt.Pressure}
		if c := v.cells[id]; c != nil {
			nv.Weight = c.Weight
			nv.Velocity = c.Velocity
			if nv.Exists {
				nv.Contained = c.Contained()
			}
		} else {
			nv.Weight = 1
		}
		out.Nodes[id] = nv
	}
	return out
}

// At returns the node at (layer, row, col).
func (vw View) At(layer, row, col int) NodeView {
	if layer < 0 || layer >= vw.Layers || row < 0 || row >= vw.Rows || col < 0 || col >= vw.Cols {
		panic(fmt.Sprintf("lattice: view index (%d,%d,%d) outside %dx%dx%d", layer, row, col, vw.Layers, vw.Rows, vw.Cols))
	}
	return vw.Nodes[(layer*vw.Rows+row)*vw.Cols+col]
}

// Layer returns one layer as rows of nodes. The rows alias the view.
func (vw View) Layer(k int) [][]NodeView {
	if k < 0 || k >= vw.Layers {
		panic(fmt.Sprintf("lattice: layer %d outside [0,%d)", k, vw.Layers))
	}
	area := vw.Rows * vw.Cols
	out := make([][]NodeView, vw.Rows)
	for r := range out {
		start := k*area + r*vw.Cols
		out[r] = vw.Nodes[start : start+vw.Cols]
	}
	return out
}

// Glyph levels, from absent to full.
const (
	LevelAbsent uint8 = iota
	LevelFaint
	LevelSparse
	LevelDense
	LevelSolid
)

var glyphs = [...]rune{' ', '▫', '▪', '▤', '■'}

// Level buckets a node by fill weight.
func Level(n NodeView) uint8 {
	switch {
	case !n.Exists:
		return LevelAbsent
	case n.Weight > 0.8:
		return LevelSolid
	case n.Weight > 0.5:
		return LevelDense
	case n.Weight > 0.2:
		return LevelSparse
	default:
		return LevelFaint
	}
}

// Glyph returns the character used for a node in text dumps.
func Glyph(n NodeView) rune { return glyphs[Level(n)] }

// LayerString renders one layer as space separated glyphs, one line per row.
func (vw View) LayerString(k int) string {
	var sb strings.Builder
	for r, row := range vw.Layer(k) {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, n := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(Glyph(n))
		}
	}
	return sb.String()
}

func (vw View) String() string {
	if len(vw.Nodes) == 0 {
		return "Uninitiated Control Volume"
	}
	return vw.LayerString(vw.Layers / 2)
}
