package cv

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"fluid-cv/pkg/lattice"

	"gonum.org/v1/gonum/floats"
)

// Scenario is one point of a parameter sweep.
type Scenario struct {
	Arity  int
	Params SolverParams
}

func (s Scenario) String() string {
	return fmt.Sprintf("arity=%d diffusivity=%.3f damping=%.3f leak=%.3f spread=%.3f",
		s.Arity, s.Params.Diffusivity, s.Params.Damping, s.Params.Leak, s.Params.Spread)
}

// Result summarises a scenario after its last tick.
type Result struct {
	Scenario Scenario
	Ticks    uint64
	// Throughput is the mean x velocity over present cells.
	Throughput float64
	// FarPressure is the mean pressure of the right half of the volume.
	FarPressure float64
	Contained   int
	Err         error
}

// Grid expands every combination of arities and coefficient options.
func Grid(base SolverParams, arities []int, diffusivity, damping, leak []float64) []Scenario {
	var out []Scenario
	for _, a := range arities {
		for _, d := range diffusivity {
			for _, dm := range damping {
				for _, l := range leak {
					p := base
					p.Diffusivity, p.Damping, p.Leak = d, dm, l
					out = append(out, Scenario{Arity: a, Params: p})
				}
			}
		}
	}
	return out
}

// RunScenario builds a world from base with the scenario applied and runs it
// for steps ticks.
func RunScenario(ctx context.Context, base Config, sc Scenario, steps int) Result {
	cfg := base
	cfg.Arity = sc.Arity
	cfg.Params = sc.Params
	res := Result{Scenario: sc}

	w, err := New(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	if err := w.vol.Run(ctx, w.solver, cfg.DT, steps); err != nil {
		res.Err = err
	}
	res.Ticks = w.vol.Ticks()
	res.Contained = w.vol.ContainedCount()

	_, _, cols := w.vol.Shape()
	var vx, far []float64
	w.vol.EachCell(func(c *lattice.Cell) {
		vx = append(vx, c.Velocity.X)
		if _, _, col := w.vol.Coords(c.ID); col >= cols/2 {
			far = append(far, c.Pressure)
		}
	})
	if len(vx) > 0 {
		res.Throughput = floats.Sum(vx) / float64(len(vx))
	}
	if len(far) > 0 {
		res.FarPressure = floats.Sum(far) / float64(len(far))
	}
	return res
}

// Sweep runs every scenario on a pool of workers and returns one result per
// scenario, ordered by throughput with failed or cancelled scenarios last.
func Sweep(ctx context.Context, base Config, scenarios []Scenario, steps, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan Scenario)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- RunScenario(ctx, base, sc, steps)
			}
		}()
	}
	// Scenarios left undispatched on cancellation report the context error.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i, sc := range scenarios {
			select {
			case jobs <- sc:
				continue
			case <-ctx.Done():
			}
			close(jobs)
			for _, rest := range scenarios[i:] {
				results <- Result{Scenario: rest, Err: ctx.Err()}
			}
			return
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	all := make([]Result, 0, len(scenarios))
	for res := range results {
		all = append(all, res)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if (all[i].Err == nil) != (all[j].Err == nil) {
			return all[i].Err == nil
		}
		return all[i].Throughput > all[j].Throughput
	})
	return all
}
