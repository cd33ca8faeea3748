package lattice

import (
	"fmt"
	"io"
	"log"

	"fluid-cv/pkg/geom"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Volume is a control volume: a fixed (layers, rows, cols) arena of nodes with
// a one-node wall shell. A Volume is owned by a single driver and is not safe
// for concurrent Tick calls.
type Volume struct {
	id uuid.UUID

	layers, rows, cols int
	planar             bool
	res                float64

	arity   int
	match   Match
	workers int
	log     *log.Logger

	points []*Point
	cells  []*Cell // nil for walls
	absent []bool
	next   []Update

	ticks uint64
}

type options struct {
	arity        int
	match        Match
	wallPressure float64
	initPressure float64
	workers      int
	logger       *log.Logger
}

// Option configures a Volume at construction.
type Option func(*options)

// WithArity selects the direction basis of every fluid cell and the matching
// wiring stencil. The default is 4.
func WithArity(arity int) Option { return func(o *options) { o.arity = arity } }

// WithMatch selects the containment comparison policy.
func WithMatch(m Match) Option { return func(o *options) { o.match = m } }

// WithWallPressure sets the fixed pressure carried by wall nodes.
func WithWallPressure(p float64) Option { return func(o *options) { o.wallPressure = p } }

// WithInitialPressure sets the starting pressure of fluid cells.
func WithInitialPressure(p float64) Option { return func(o *options) { o.initPressure = p } }

// WithWorkers bounds the goroutines used by the read phase of a tick.
// Zero or less means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithLogger routes construction and topology messages to l.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

func newVolume(layers, rows, cols int, res float64, planar bool, opts []Option) (*Volume, error) {
	o := options{arity: 4}
	for _, fn := range opts {
		fn(&o)
	}
	if _, err := LookupBasis(o.arity); err != nil {
		return nil, err
	}
	total, err := arenaSize(layers, rows, cols)
	if err != nil {
		return nil, err
	}
	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	v := &Volume{
		id:      uuid.New(),
		layers:  layers,
		rows:    rows,
		cols:    cols,
		planar:  planar,
		res:     res,
		arity:   o.arity,
		match:   o.match,
		workers: o.workers,
		log:     logger,
		points:  make([]*Point, total),
		cells:   make([]*Cell, total),
		absent:  make([]bool, total),
		next:    make([]Update, total),
	}

	for k := 0; k < layers; k++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				id := v.index(k, r, c)
				pos := r3.Vec{X: float64(c) * res, Y: float64(r) * res, Z: float64(k) * res}
				if v.onShell(k, r, c) {
					v.points[id] = NewPoint(id, pos, true, o.wallPressure)
					continue
				}
				cell, err := NewCell(id, pos, o.arity, o.initPressure)
				if err != nil {
					return nil, err
				}
				cell.match = o.match
				v.cells[id] = cell
				v.points[id] = &cell.Point
			}
		}
	}

	for id, cell := range v.cells {
		if cell == nil {
			continue
		}
		if err := v.wire(NodeID(id)); err != nil {
			return nil, err
		}
	}

	v.log.Printf("volume %s: %dx%dx%d nodes, arity %d, resolution %g", v.id, layers, rows, cols, o.arity, res)
	return v, nil
}

func (v *Volume) index(k, r, c int) NodeID { return NodeID((k*v.rows+r)*v.cols + c) }

func (v *Volume) onShell(k, r, c int) bool {
	if r == 0 || r == v.rows-1 || c == 0 || c == v.cols-1 {
		return true
	}
	return !v.planar && (k == 0 || k == v.layers-1)
}

func (v *Volume) inBounds(k, r, c int) bool {
	return k >= 0 && k < v.layers && r >= 0 && r < v.rows && c >= 0 && c < v.cols
}

// wire links id to every present stencil neighbour in both directions.
// Wall-to-wall links are never created.
func (v *Volume) wire(id NodeID) error {
	k, r, c := v.Coords(id)
	self := v.points[id]
	for _, o := range stencilFor(v.arity, v.planar) {
		nk, nr, nc := k+o.dk, r+o.dr, c+o.dc
		if !v.inBounds(nk, nr, nc) {
			continue
		}
		nid := v.index(nk, nr, nc)
		if v.absent[nid] {
			continue
		}
		other := v.points[nid]
		if self.Wall && other.Wall {
			continue
		}
		dir, dist, err := geom.Direction(self.Pos, other.Pos)
		if err != nil {
			return fmt.Errorf("wire %d -> %d: %w", id, nid, err)
		}
		self.Link(nid, Link{Dir: dir, Dist: dist})
		other.Link(id, Link{Dir: r3.Scale(-1, dir), Dist: dist})
	}
	return nil
}

// ID returns the identity assigned to the volume at construction.
func (v *Volume) ID() uuid.UUID { return v.id }

// Shape returns the node counts including the wall shell.
func (v *Volume) Shape() (layers, rows, cols int) { return v.layers, v.rows, v.cols }

// Planar reports whether the volume is a single layer.
func (v *Volume) Planar() bool { return v.planar }

// Resolution returns the node spacing.
func (v *Volume) Resolution() float64 { return v.res }

// Arity returns the basis arity shared by all cells.
func (v *Volume) Arity() int { return v.arity }

// Len returns the number of nodes in the arena.
func (v *Volume) Len() int { return len(v.points) }

// Ticks returns the number of committed ticks.
func (v *Volume) Ticks() uint64 { return v.ticks }

// At returns the node id at (layer, row, col). It panics when out of range.
func (v *Volume) At(layer, row, col int) NodeID {
	if !v.inBounds(layer, row, col) {
		panic(fmt.Sprintf("lattice: (%d,%d,%d) outside %dx%dx%d volume", layer, row, col, v.layers, v.rows, v.cols))
	}
	return v.index(layer, row, col)
}

// Coords is the inverse of At.
func (v *Volume) Coords(id NodeID) (layer, row, col int) {
	i := int(id)
	area := v.rows * v.cols
	return i / area, (i % area) / v.cols, i % v.cols
}

// Point returns the node with the given id.
func (v *Volume) Point(id NodeID) (*Point, bool) {
	if int(id) < 0 || int(id) >= len(v.points) {
		return nil, false
	}
	return v.points[id], true
}

// Cell returns the fluid cell with the given id; ok is false for walls.
func (v *Volume) Cell(id NodeID) (*Cell, bool) {
	if int(id) < 0 || int(id) >= len(v.cells) || v.cells[id] == nil {
		return nil, false
	}
	return v.cells[id], true
}

// Exists reports whether the node is part of the lattice (not detached).
func (v *Volume) Exists(id NodeID) bool {
	return int(id) >= 0 && int(id) < len(v.absent) && !v.absent[id]
}

// EachCell calls fn for every present fluid cell in id order.
func (v *Volume) EachCell(fn func(c *Cell)) {
	for id, c := range v.cells {
		if c == nil || v.absent[id] {
			continue
		}
		fn(c)
	}
}

// SetPressure overrides the pressure of any node, walls included. Wall
// pressure is a boundary condition and is never changed by a tick.
func (v *Volume) SetPressure(id NodeID, p float64) error {
	pt, ok := v.Point(id)
	if !ok {
		return fmt.Errorf("set pressure %d: %w", id, ErrUnknownNode)
	}
	pt.Pressure = p
	return nil
}

// Detach removes every link to and from id and marks it absent. Cells that
// lost a neighbour recompute containment on their next query.
func (v *Volume) Detach(id NodeID) error {
	pt, ok := v.Point(id)
	if !ok {
		return fmt.Errorf("detach %d: %w", id, ErrUnknownNode)
	}
	if v.absent[id] {
		return nil
	}
	for _, nid := range pt.Neighbors() {
		v.points[nid].Unlink(id)
		pt.Unlink(nid)
	}
	v.absent[id] = true
	return nil
}

// Attach restores a detached node and rewires it with the stencil.
func (v *Volume) Attach(id NodeID) error {
	if _, ok := v.Point(id); !ok {
		return fmt.Errorf("attach %d: %w", id, ErrUnknownNode)
	}
	if !v.absent[id] {
		return nil
	}
	v.absent[id] = false
	return v.wire(id)
}

// ContainedCount returns how many present cells are contained.
func (v *Volume) ContainedCount() int {
	n := 0
	v.EachCell(func(c *Cell) {
		if c.Contained() {
			n++
		}
	})
	return n
}
