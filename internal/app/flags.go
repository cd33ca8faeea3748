package app

import (
	"flag"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	File     string
	Params   Params
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "cvrect", Scale: 6, TPS: 30, Seed: 1337, HUDWidth: 260, Params: Params{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "control panel width in pixels (0 hides it)")
	fs.StringVar(&c.File, "config", c.File, "INI file with simulation settings")
	fs.Var(c.Params, "p", "simulation setting as key=value (repeatable)")
}

// SimConfig returns the key/value pairs handed to the simulation factory.
// Explicit -p values win over the seed flag.
func (c *Config) SimConfig() map[string]string {
	out := map[string]string{"seed": fmt.Sprint(c.Seed)}
	if c.File != "" {
		out["config"] = c.File
	}
	maps.Copy(out, c.Params)
	return out
}

// Params collects repeated key=value flags.
type Params map[string]string

func (p Params) String() string {
	keys := slices.Sorted(maps.Keys(p))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

// Set parses one key=value pair.
func (p Params) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p[k] = strings.TrimSpace(v)
	return nil
}
