package lattice

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// NodeID indexes a node inside the arena of the Volume that created it.
type NodeID int32

// Link describes the relation from a node to one of its neighbours.
type Link struct {
	Dir  r3.Vec // unit vector towards the neighbour
	Dist float64
}

// Point is a located node. Walls are Points that are never updated by a tick.
type Point struct {
	ID       NodeID
	Pos      r3.Vec
	Pressure float64
	Wall     bool

	neighbors map[NodeID]Link
	rev       uint64
}

// NewPoint returns a point with no neighbours.
func NewPoint(id NodeID, pos r3.Vec, wall bool, pressure float64) *Point {
	return &Point{ID: id, Pos: pos, Wall: wall, Pressure: pressure, neighbors: make(map[NodeID]Link)}
}

// Link records (or replaces) the relation to neighbour id.
func (p *Point) Link(id NodeID, l Link) {
	if p.neighbors == nil {
		p.neighbors = make(map[NodeID]Link)
	}
	p.neighbors[id] = l
	p.rev++
}

// Unlink removes neighbour id and reports whether it was present.
func (p *Point) Unlink(id NodeID) bool {
	if _, ok := p.neighbors[id]; !ok {
		return false
	}
	delete(p.neighbors, id)
	p.rev++
	return true
}

// Neighbor returns the link to id, if any.
func (p *Point) Neighbor(id NodeID) (Link, bool) {
	l, ok := p.neighbors[id]
	return l, ok
}

// NumNeighbors returns the number of linked neighbours.
func (p *Point) NumNeighbors() int { return len(p.neighbors) }

// Neighbors returns the neighbour ids in ascending order.
func (p *Point) Neighbors() []NodeID {
	out := make([]NodeID, 0, len(p.neighbors))
	for id := range p.neighbors {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// EachNeighbor calls fn for every neighbour in unspecified order.
func (p *Point) EachNeighbor(fn func(id NodeID, l Link)) {
	for id, l := range p.neighbors {
		fn(id, l)
	}
}

// Revision changes every time the neighbour set is modified.
func (p *Point) Revision() uint64 { return p.rev }

// Match selects how a neighbour angle is compared against a basis tolerance.
type Match uint8

const (
	// MatchStrict requires angle < tolerance. A tolerance of 0 never matches.
	MatchStrict Match = iota
	// MatchInclusive accepts angle <= tolerance.
	MatchInclusive
)

func (m Match) String() string {
	switch m {
	case MatchStrict:
		return "strict"
	case MatchInclusive:
		return "inclusive"
	default:
		return fmt.Sprintf("Match(%d)", uint8(m))
	}
}

// ParseMatch converts "strict" or "inclusive" into a Match.
func ParseMatch(s string) (Match, error) {
	switch s {
	case "strict", "":
		return MatchStrict, nil
	case "inclusive":
		return MatchInclusive, nil
	default:
		return MatchStrict, fmt.Errorf("unknown match policy %q", s)
	}
}

// Cell is a movable fluid node.
type Cell struct {
	Point

	Velocity     r2.Vec
	Acceleration r2.Vec
	Weight       float64

	basis *Basis
	match Match

	contained  bool
	checkedRev uint64
	checked    bool
}

// NewCell builds a fluid cell bound to the basis of the given arity.
func NewCell(id NodeID, pos r3.Vec, arity int, pressure float64) (*Cell, error) {
	b, err := LookupBasis(arity)
	if err != nil {
		return nil, fmt.Errorf("cell %d: %w", id, err)
	}
	return &Cell{
		Point: Point{ID: id, Pos: pos, Pressure: pressure, neighbors: make(map[NodeID]Link)},
		basis: b,
	}, nil
}

// Basis returns the bound direction basis.
func (c *Cell) Basis() *Basis { return c.basis }

// Match returns the tolerance comparison in use.
func (c *Cell) Match() Match { return c.match }

// SetMatch changes the comparison policy and forces the next containment query
// to recompute.
func (c *Cell) SetMatch(m Match) {
	c.match = m
	c.checked = false
}
