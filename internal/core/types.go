package core

import (
	"errors"
	"fmt"
	"slices"
)

// Size describes the dimensions of the grid a Sim displays.
type Size struct {
	W int
	H int
}

// Sim is the contract the viewer drives. Cells returns one display level per
// grid position in row-major order.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory constructs a Sim from flag-style key/value pairs.
type Factory func(cfg map[string]string) (Sim, error)

// ErrUnknownSim is returned by New for unregistered names.
var ErrUnknownSim = errors.New("unknown sim")

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Names lists the registered simulations in ascending order.
func Names() []string {
	out := make([]string, 0, len(sims))
	for name := range sims {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// New builds the registered simulation called name.
func New(name string, cfg map[string]string) (Sim, error) {
	f, ok := sims[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownSim, name, Names())
	}
	return f(cfg)
}
