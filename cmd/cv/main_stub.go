//go:build !ebiten

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"fluid-cv/internal/app"
	"fluid-cv/internal/core"
	_ "fluid-cv/internal/sims/cv"
)

// Without the viewer, -ticks runs the simulation headless and prints the
// final layer and statistics.
func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	ticks := flag.Int("ticks", 0, "run this many ticks headless and print the result")
	flag.Parse()

	if *ticks <= 0 {
		fmt.Fprintln(os.Stderr, "The fluid-cv viewer requires the ebiten build tag.")
		fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/cv`, or pass -ticks N for a headless run.")
		os.Exit(2)
	}

	sim, err := core.New(cfg.Sim, cfg.SimConfig())
	if err != nil {
		log.Fatalf("build %s: %v", cfg.Sim, err)
	}
	for i := 0; i < *ticks; i++ {
		sim.Step()
	}

	if s, ok := sim.(fmt.Stringer); ok {
		fmt.Println(s.String())
	}
	if p, ok := sim.(core.StatsProvider); ok {
		for _, st := range p.Stats() {
			fmt.Printf("%s: %s\n", st.Label, st.Value)
		}
	}
}
