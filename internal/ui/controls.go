package ui

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"fluid-cv/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 30
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 20
	statsSpacing   = 16
	controlsTop    = panelPadding + headerBaseline + 14
)

// controlState is one adjustable row of the HUD.
type controlState struct {
	control  core.ParameterControl
	value    string
	num      float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// newControls lays out one row per control inside a panel of the given width.
func newControls(ctrls []core.ParameterControl, width int) []controlState {
	out := make([]controlState, len(ctrls))
	for i, ctrl := range ctrls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		out[i] = controlState{control: ctrl, value: "--", top: top, minusRect: minus, plusRect: plus}
	}
	return out
}

// controlsBottom is the first free y below the control rows.
func controlsBottom(n int) int { return controlsTop + n*lineHeight }

// load refreshes the displayed value from a parameter snapshot.
func (s *controlState) load(snap core.ParameterSnapshot) {
	s.hasValue = false
	s.value = "--"
	p, ok := snap.Lookup(s.control.Key)
	if !ok {
		return
	}
	var v float64
	switch s.control.Type {
	case core.ParamTypeInt:
		n, err := strconv.Atoi(p.Value)
		if err != nil {
			return
		}
		v = float64(n)
	case core.ParamTypeFloat:
		f, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return
		}
		v = f
	default:
		return
	}
	s.num = v
	s.value = formatValue(s.control, v)
	s.hasValue = true
}

// target is the value one step away in direction, clamped to the control
// limits. ok is false when the step would not change anything.
func (s *controlState) target(direction int) (float64, bool) {
	if !s.hasValue || direction == 0 {
		return s.num, false
	}
	step := s.control.Step
	switch s.control.Type {
	case core.ParamTypeInt:
		step = math.Round(step)
		if step <= 0 {
			step = 1
		}
	case core.ParamTypeFloat:
		if step <= 0 {
			step = 0.05
		}
	default:
		return s.num, false
	}
	t := s.control.Clamp(s.num + float64(direction)*step)
	return t, math.Abs(t-s.num) > 1e-9
}

// adjust steps the control and pushes the new value to the matching setter.
func (s *controlState) adjust(direction int, ints core.IntParameterSetter, floats core.FloatParameterSetter) bool {
	t, ok := s.target(direction)
	if !ok {
		return false
	}
	switch s.control.Type {
	case core.ParamTypeInt:
		if ints == nil || !ints.SetIntParameter(s.control.Key, int(math.Round(t))) {
			return false
		}
	case core.ParamTypeFloat:
		if floats == nil || !floats.SetFloatParameter(s.control.Key, t) {
			return false
		}
	}
	s.num = t
	s.value = formatValue(s.control, t)
	return true
}

// hit returns the control and direction under (x, y) in panel coordinates.
func hit(states []controlState, x, y int) (int, int, bool) {
	for i := range states {
		if !states[i].hasValue {
			continue
		}
		if pointInRect(x, y, states[i].minusRect) {
			return i, -1, true
		}
		if pointInRect(x, y, states[i].plusRect) {
			return i, 1, true
		}
	}
	return 0, 0, false
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	precision := 1
	switch {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func formatStats(stats []core.Stat) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = fmt.Sprintf("%s: %s", s.Label, s.Value)
	}
	return out
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Controls"
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}
