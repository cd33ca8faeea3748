// Package cv hosts a control-volume lattice as a viewer simulation: it builds
// the volume from a Config, seeds it, drives ticks through a registered
// solver and exposes display levels, masks and HUD parameters.
package cv

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"fluid-cv/internal/core"
	"fluid-cv/pkg/lattice"

	// Registered solvers.
	_ "fluid-cv/pkg/solvers/diffusion"
	_ "fluid-cv/pkg/solvers/still"
)

// World drives one control volume.
type World struct {
	cfg    Config
	name   string
	seed   int64
	logger *log.Logger

	vol    *lattice.Volume
	solver lattice.Solver
	view   lattice.View
	layer  int

	display   *core.ByteGrid
	pressure  []float32
	contained []float32

	err error
}

// New validates cfg and returns a seeded world.
func New(cfg Config) (*World, error) {
	return newWorld(cfg, nil)
}

func newWorld(cfg Config, logger *log.Logger) (*World, error) {
	if err := cfg.CheckInit(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &World{cfg: cfg, name: "cv" + cfg.Shape, logger: logger}
	if err := w.rebuild(cfg.Seed); err != nil {
		return nil, err
	}
	return w, nil
}

// Name implements core.Sim.
func (w *World) Name() string { return w.name }

// Size implements core.Sim. The displayed grid includes the wall shell.
func (w *World) Size() core.Size {
	_, rows, cols := w.vol.Shape()
	return core.Size{W: cols, H: rows}
}

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Volume exposes the underlying lattice.
func (w *World) Volume() *lattice.Volume { return w.vol }

// View returns the snapshot taken after the last reset or step.
func (w *World) View() lattice.View { return w.view }

// Err reports the error of the last failed step, if any.
func (w *World) Err() error { return w.err }

// Reset rebuilds the volume. A zero seed reuses the configured one.
func (w *World) Reset(seed int64) {
	if seed == 0 {
		seed = w.cfg.Seed
	}
	if err := w.rebuild(seed); err != nil {
		w.err = err
		w.logger.Printf("cv: reset failed: %v", err)
	}
}

func (w *World) rebuild(seed int64) error {
	cfg := w.cfg
	match, err := lattice.ParseMatch(cfg.Match)
	if err != nil {
		return err
	}
	solver, err := lattice.NewSolver(cfg.Solver, cfg.Params.Map())
	if err != nil {
		return err
	}
	opts := []lattice.Option{
		lattice.WithArity(cfg.Arity),
		lattice.WithMatch(match),
		lattice.WithWallPressure(cfg.WallPressure),
		lattice.WithInitialPressure(cfg.InitialPressure),
		lattice.WithWorkers(cfg.Workers),
		lattice.WithLogger(w.logger),
	}

	var vol *lattice.Volume
	if cfg.Shape == ShapeBox {
		vol, err = lattice.NewBox(cfg.Width, cfg.Height, cfg.Depth, cfg.Resolution, opts...)
	} else {
		vol, err = lattice.NewRectangle(cfg.Width, cfg.Height, cfg.Resolution, opts...)
	}
	if err != nil {
		return fmt.Errorf("build volume: %w", err)
	}

	w.vol = vol
	w.solver = solver
	w.seed = seed
	w.err = nil
	layers, rows, cols := vol.Shape()
	w.layer = layers / 2
	w.display = core.NewByteGrid(cols, rows)
	w.pressure = make([]float32, rows*cols)
	w.contained = make([]float32, rows*cols)

	rng := core.NewRNG(seed)
	vol.EachCell(func(c *lattice.Cell) {
		c.Weight = clamp01(cfg.InitialWeight + rng.Jitter(cfg.FillJitter))
		c.Pressure = cfg.InitialPressure + rng.Jitter(cfg.PressureJitter)
	})
	w.carveObstacles(rng)
	w.applyInlet()

	w.logger.Printf("cv: reset %s seed=%d solver=%s arity=%d contained=%d",
		w.name, seed, solver.Name(), cfg.Arity, vol.ContainedCount())
	w.refresh()
	return nil
}

// carveObstacles detaches round columns of cells running through every layer.
// The inlet and outlet columns are left clear.
func (w *World) carveObstacles(rng *core.RNG) {
	layers, rows, cols := w.vol.Shape()
	innerRows, innerCols := rows-2, cols-4
	if w.cfg.Obstacles == 0 || innerRows <= 0 || innerCols <= 0 {
		return
	}
	radius := w.cfg.ObstacleRadius
	for i := 0; i < w.cfg.Obstacles; i++ {
		cr := 1 + rng.IntN(innerRows)
		cc := 2 + rng.IntN(innerCols)
		for r := cr - radius; r <= cr+radius; r++ {
			for c := cc - radius; c <= cc+radius; c++ {
				if r < 1 || r > rows-2 || c < 2 || c > cols-3 {
					continue
				}
				dr, dc := r-cr, c-cc
				if dr*dr+dc*dc > radius*radius {
					continue
				}
				for k := 0; k < layers; k++ {
					id := w.vol.At(k, r, c)
					if _, ok := w.vol.Cell(id); !ok {
						continue
					}
					if err := w.vol.Detach(id); err != nil {
						w.logger.Printf("cv: carve obstacle at (%d,%d,%d): %v", k, r, c, err)
					}
				}
			}
		}
	}
}

// applyInlet raises the pressure of the left wall column.
func (w *World) applyInlet() {
	layers, rows, _ := w.vol.Shape()
	for k := 0; k < layers; k++ {
		for r := 0; r < rows; r++ {
			if err := w.vol.SetPressure(w.vol.At(k, r, 0), w.cfg.InletPressure); err != nil {
				w.logger.Printf("cv: inlet at (%d,%d): %v", k, r, err)
			}
		}
	}
}

// Step implements core.Sim. A failed tick leaves the volume unchanged and is
// reported through Err.
func (w *World) Step() {
	if err := w.vol.Tick(context.Background(), w.solver, w.cfg.DT); err != nil {
		if w.err == nil {
			w.logger.Printf("cv: tick %d failed: %v", w.vol.Ticks(), err)
		}
		w.err = err
		return
	}
	w.err = nil
	w.refresh()
}

// refresh snapshots the volume and rebuilds the display buffers from the
// displayed layer.
func (w *World) refresh() {
	w.view = w.vol.View()
	layer := w.view.Layer(w.layer)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range layer {
		for _, n := range row {
			if n.Exists {
				lo = math.Min(lo, n.Pressure)
				hi = math.Max(hi, n.Pressure)
			}
		}
	}
	span := hi - lo

	for r, row := range layer {
		for c, n := range row {
			w.display.Set(c, r, displayLevel(n))
			i := w.display.Index(c, r)
			w.pressure[i] = 0
			if n.Exists && span > 0 {
				w.pressure[i] = float32((n.Pressure - lo) / span)
			}
			w.contained[i] = 0
			if n.Contained {
				w.contained[i] = 1
			}
		}
	}
}

// Cells implements core.Sim.
func (w *World) Cells() []uint8 { return w.display.Cells() }

// String renders the displayed layer as glyphs.
func (w *World) String() string { return w.view.LayerString(w.layer) }

// PressureMask returns the displayed layer's pressure scaled to [0, 1].
func (w *World) PressureMask() []float32 { return w.pressure }

// ContainmentMask is 1 where a cell is contained and 0 elsewhere.
func (w *World) ContainmentMask() []float32 { return w.contained }

// VelocityAt samples the velocity of the node under grid position (x, y).
func (w *World) VelocityAt(x, y float64) (float64, float64) {
	c, r := int(math.Floor(x)), int(math.Floor(y))
	if r < 0 || r >= w.view.Rows || c < 0 || c >= w.view.Cols {
		return 0, 0
	}
	n := w.view.At(w.layer, r, c)
	if !n.Exists || n.Wall {
		return 0, 0
	}
	return n.Velocity.X, n.Velocity.Y
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func init() {
	core.Register("cvrect", func(cfg map[string]string) (core.Sim, error) {
		return factory(ShapeRect, cfg)
	})
	core.Register("cvbox", func(cfg map[string]string) (core.Sim, error) {
		return factory(ShapeBox, cfg)
	})
}

func factory(shape string, cfg map[string]string) (core.Sim, error) {
	c := DefaultConfig()
	c.Shape = shape
	if path := cfg["config"]; path != "" {
		var err error
		if c, err = LoadConfigFile(path, c); err != nil {
			return nil, err
		}
		c.Shape = shape
	}
	c = overlay(c, cfg)
	c.Shape = shape
	return newWorld(c, log.Default())
}
