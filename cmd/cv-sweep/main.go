package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fluid-cv/internal/sims/cv"
)

func main() {
	steps := flag.Int("steps", 400, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "results to print")
	file := flag.String("config", "", "INI file with the base volume settings")
	arities := flag.String("arity", "4,6,8", "comma separated arities")
	diffusivity := flag.String("diffusivity", "0.1,0.2,0.3", "comma separated diffusivities")
	damping := flag.String("damping", "0.01,0.02,0.05", "comma separated damping factors")
	leak := flag.String("leak", "0,0.25,0.5", "comma separated leak factors")
	flag.Parse()

	base := cv.DefaultConfig()
	if *file != "" {
		var err error
		if base, err = cv.LoadConfigFile(*file, base); err != nil {
			log.Fatal(err)
		}
	}

	var ar []int
	for _, f := range parseList(*arities) {
		ar = append(ar, int(f))
	}
	sets := cv.Grid(base.Params, ar, parseList(*diffusivity), parseList(*damping), parseList(*leak))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps)\n", len(sets), *workers, *steps)
	start := time.Now()
	results := cv.Sweep(ctx, base, sets, *steps, *workers)

	fmt.Printf("\nTop %d results (elapsed %s):\n", *top, time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(results) && i < *top; i++ {
		r := results[i]
		if r.Err != nil {
			fmt.Printf("%2d) failed after %d ticks: %v (%s)\n", i+1, r.Ticks, r.Err, r.Scenario)
			continue
		}
		fmt.Printf("%2d) throughput=%.5f far=%.4f contained=%d %s\n",
			i+1, r.Throughput, r.FarPressure, r.Contained, r.Scenario)
	}
}

func parseList(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			log.Fatalf("bad value %q: %v", part, err)
		}
		out = append(out, v)
	}
	return out
}
