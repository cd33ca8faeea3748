package ui

import (
	"math"
	"testing"

	"fluid-cv/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSetter struct {
	ints   map[string]int
	floats map[string]float64
	reject bool
}

func (r *recordingSetter) SetIntParameter(key string, v int) bool {
	if r.reject {
		return false
	}
	r.ints[key] = v
	return true
}

func (r *recordingSetter) SetFloatParameter(key string, v float64) bool {
	if r.reject {
		return false
	}
	r.floats[key] = v
	return true
}

type namedSim struct{ name string }

func (n namedSim) Name() string { return n.name }
func (namedSim) Size() core.Size { return core.Size{W: 1, H: 1} }
func (namedSim) Reset(int64)     {}
func (namedSim) Step()           {}
func (namedSim) Cells() []uint8  { return []uint8{0} }

func testControls() []controlState {
	return newControls([]core.ParameterControl{
		{Key: "arity", Label: "Arity", Type: core.ParamTypeInt, Step: 2, Min: 4, Max: 8, HasMin: true, HasMax: true},
		{Key: "leak", Label: "Leak", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "solver", Label: "Solver", Type: core.ParamTypeString},
	}, 240)
}

func testSnapshot() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "All",
		Params: []core.Parameter{
			core.IntParam("arity", "Arity", 8),
			core.FloatParam("leak", "Leak", 0.25),
			core.StringParam("solver", "Solver", "diffusion"),
		},
	}}}
}

func TestControlLayout(t *testing.T) {
	t.Parallel()

	states := testControls()
	require.Len(t, states, 3)
	for i, s := range states {
		assert.Equal(t, controlsTop+i*lineHeight, s.top)
		assert.Equal(t, 240-panelPadding, s.plusRect.Max.X)
		assert.Equal(t, buttonSize, s.minusRect.Dx())
		assert.Less(t, s.minusRect.Max.X, s.plusRect.Min.X)
		assert.Equal(t, "--", s.value)
	}
	assert.Equal(t, controlsTop+3*lineHeight, controlsBottom(3))
}

func TestControlLoadAndStep(t *testing.T) {
	t.Parallel()

	states := testControls()
	snap := testSnapshot()
	for i := range states {
		states[i].load(snap)
	}
	arity, leak, solver := &states[0], &states[1], &states[2]
	assert.Equal(t, "8", arity.value)
	assert.Equal(t, "0.25", leak.value)
	assert.False(t, solver.hasValue)

	_, ok := arity.target(1)
	assert.False(t, ok, "already at the maximum")
	v, ok := arity.target(-1)
	assert.True(t, ok)
	assert.Equal(t, 6.0, v)

	v, ok = leak.target(1)
	assert.True(t, ok)
	assert.InDelta(t, 0.3, v, 1e-12)

	_, ok = solver.target(1)
	assert.False(t, ok)

	rec := &recordingSetter{ints: map[string]int{}, floats: map[string]float64{}}
	require.True(t, arity.adjust(-1, rec, rec))
	assert.Equal(t, 6, rec.ints["arity"])
	assert.Equal(t, "6", arity.value)

	require.True(t, leak.adjust(-1, rec, rec))
	assert.InDelta(t, 0.2, rec.floats["leak"], 1e-12)

	rec.reject = true
	assert.False(t, leak.adjust(1, rec, rec))
	assert.InDelta(t, 0.2, leak.num, 1e-12)
	assert.False(t, arity.adjust(-1, nil, rec))

	missing := newControls([]core.ParameterControl{{Key: "gone", Type: core.ParamTypeFloat}}, 100)
	missing[0].load(snap)
	assert.False(t, missing[0].hasValue)
}

func TestHit(t *testing.T) {
	t.Parallel()

	states := testControls()
	for i := range states {
		states[i].load(testSnapshot())
	}
	m := states[1].minusRect.Min
	i, dir, ok := hit(states, m.X+1, m.Y+1)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, -1, dir)

	p := states[0].plusRect.Min
	i, dir, ok = hit(states, p.X, p.Y)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, dir)

	// The string row has no value and is not clickable.
	s := states[2].plusRect.Min
	_, _, ok = hit(states, s.X, s.Y)
	assert.False(t, ok)

	_, _, ok = hit(states, 0, 0)
	assert.False(t, ok)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3", formatValue(core.ParameterControl{Type: core.ParamTypeInt}, 2.6))
	assert.Equal(t, "0.1235", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.0005}, 0.12346))
	assert.Equal(t, "0.12", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.05}, 0.123))
	assert.Equal(t, "0.1", formatValue(core.ParameterControl{Type: core.ParamTypeFloat, Step: 0.5}, 0.123))

	assert.Equal(t, []string{"Tick: 4", "Cells: 12"}, formatStats([]core.Stat{{Label: "Tick", Value: "4"}, {Label: "Cells", Value: "12"}}))

	assert.Equal(t, "Cvrect Controls", buildTitle(namedSim{name: "cvrect"}))
	assert.Equal(t, "Controls", buildTitle(namedSim{}))
	assert.Equal(t, "Controls", buildTitle(nil))
}

func TestSampleGrid(t *testing.T) {
	t.Parallel()

	samples, span := sampleGrid(core.Size{W: 10, H: 4}, 2)
	require.NotEmpty(t, samples)
	assert.Equal(t, 6.0, span)
	for _, s := range samples {
		assert.GreaterOrEqual(t, s.cx, 0.5)
		assert.Less(t, s.cx, 10.0)
		assert.Less(t, s.cy, 4.0)
		assert.Equal(t, s.cx*2, s.sx)
		assert.Equal(t, s.cy*2, s.sy)
	}

	none, _ := sampleGrid(core.Size{}, 2)
	assert.Empty(t, none)
}

func TestArrowFor(t *testing.T) {
	t.Parallel()

	s := arrowSample{sx: 50, sy: 50}
	_, ok := arrowFor(s, 0.001, 0, 10, 1, 0.01)
	assert.False(t, ok, "calm velocity draws a dot")
	_, ok = arrowFor(s, math.NaN(), 0, 10, 1, 0)
	assert.False(t, ok)

	a, ok := arrowFor(s, 2, 0, 10, 1, 0.01)
	require.True(t, ok)
	assert.Equal(t, 1.0, a.strength)
	// Pointing along +x: the shaft runs left to right through the sample.
	assert.Less(t, a.shaft.x1, 50.0)
	assert.Greater(t, a.shaft.x2, 50.0)
	assert.InDelta(t, 50, a.shaft.y1, 1e-12)
	assert.InDelta(t, a.left.x1, a.right.x1, 1e-12)
	assert.Greater(t, a.left.x1, a.shaft.x2)
	// Head strokes are mirrored about the shaft.
	assert.InDelta(t, 50-a.left.y2, a.right.y2-50, 1e-9)

	half, ok := arrowFor(s, 0, -0.25, 10, 1, 0.01)
	require.True(t, ok)
	assert.InDelta(t, 0.25, half.strength, 1e-12)
	assert.Greater(t, half.shaft.y1, half.shaft.y2, "points up the screen")
}
