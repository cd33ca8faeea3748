package lattice

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"fluid-cv/pkg/geom"

	"golang.org/x/sync/errgroup"
)

// Tick advances every present fluid cell by one step of solver. All cells read
// the state at the start of the tick; updates are committed only after every
// read has finished. Walls and detached nodes are never written. If any update
// is non-finite nothing is committed.
func (v *Volume) Tick(ctx context.Context, solver Solver, dt float64) error {
	active := v.activeCells()

	err := v.partition(ctx, len(active), func(lo, hi int) error {
		var nbrs []NeighborState
		for _, id := range active[lo:hi] {
			c := v.cells[id]
			nbrs = v.gather(c, nbrs[:0])
			u := solver.Update(c.state(), nbrs, dt)
			if !finite(u) {
				return fmt.Errorf("%w: %s at cell %d: %+v", ErrNonFiniteUpdate, solver.Name(), id, u)
			}
			v.next[id] = u
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tick %d: %w", v.ticks+1, err)
	}

	for _, id := range active {
		c := v.cells[id]
		u := v.next[id]
		c.Pressure = u.Pressure
		c.Velocity = u.Velocity
		c.Acceleration = u.Acceleration
		c.Weight = u.Weight
	}
	v.ticks++
	return nil
}

// Run performs up to n ticks, stopping early when ctx is done.
func (v *Volume) Run(ctx context.Context, solver Solver, dt float64, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Tick(ctx, solver, dt); err != nil {
			return err
		}
	}
	return nil
}

func (v *Volume) activeCells() []NodeID {
	out := make([]NodeID, 0, len(v.cells))
	for id, c := range v.cells {
		if c != nil && !v.absent[id] {
			out = append(out, NodeID(id))
		}
	}
	return out
}

// partition splits [0,n) into contiguous chunks and runs fn on each in its
// own goroutine. Wait is the barrier between the read and commit phases.
func (v *Volume) partition(ctx context.Context, n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	workers := v.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

func (c *Cell) state() CellState {
	return CellState{
		ID:           c.ID,
		Pressure:     c.Pressure,
		Velocity:     c.Velocity,
		Acceleration: c.Acceleration,
		Weight:       c.Weight,
		Contained:    c.Contained(),
	}
}

func (v *Volume) gather(c *Cell, buf []NeighborState) []NeighborState {
	for _, nid := range c.Neighbors() {
		l, _ := c.Neighbor(nid)
		ns := NeighborState{ID: nid, Link: l}
		if nc := v.cells[nid]; nc != nil {
			ns.Pressure = nc.Pressure
			ns.Velocity = nc.Velocity
			ns.Weight = nc.Weight
		} else {
			ns.Pressure = v.points[nid].Pressure
			ns.Weight = 1
			ns.Wall = true
		}
		buf = append(buf, ns)
	}
	return buf
}

func finite(u Update) bool {
	return !math.IsNaN(u.Pressure) && !math.IsInf(u.Pressure, 0) &&
		!math.IsNaN(u.Weight) && !math.IsInf(u.Weight, 0) &&
		geom.Finite(u.Velocity) && geom.Finite(u.Acceleration)
}
