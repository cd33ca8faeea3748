// Package lattice is the topology engine behind a control volume.
//
// A Volume owns a fixed arena of nodes addressed by NodeID. Wall nodes are
// plain Points; fluid nodes are Cells that also carry velocity, acceleration,
// a fill weight and a Direction Basis against which containment is decided.
// Neighbour relations are NodeID keys with a unit direction and distance, so
// no node owns another.
//
// Time advances with Volume.Tick: every cell reads the state at the start of
// the tick, a barrier is reached, and only then are updates committed. Walls
// are never written.
package lattice
