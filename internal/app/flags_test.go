package app

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	fs := flag.NewFlagSet("cv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)

	err := fs.Parse([]string{"-sim", "cvbox", "-scale", "4", "-seed", "7", "-config", "cv.ini",
		"-p", "arity=6", "-p", " dt = 0.05 ", "-p", "seed=9"})
	require.NoError(t, err)

	assert.Equal(t, "cvbox", cfg.Sim)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 30, cfg.TPS)
	assert.Equal(t, "arity=6,dt=0.05,seed=9", cfg.Params.String())
	assert.Equal(t, map[string]string{"arity": "6", "dt": "0.05", "seed": "9", "config": "cv.ini"}, cfg.SimConfig())
}

func TestParamsRejectsMalformed(t *testing.T) {
	t.Parallel()

	p := Params{}
	assert.Error(t, p.Set("arity"))
	assert.Error(t, p.Set("=4"))
	require.NoError(t, p.Set("match="))
	assert.Equal(t, "", p["match"])

	cfg := NewConfig()
	assert.Equal(t, map[string]string{"seed": "1337"}, cfg.SimConfig())
}
