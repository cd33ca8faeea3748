//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"fluid-cv/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	statColor   = color.RGBA{R: 150, G: 200, B: 235, A: 255}
	buttonColor = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff   = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD renders the control and statistics panel to the right of the view.
type HUD struct {
	sim   core.Sim
	width int
	title string

	panel    *ebiten.Image
	pixel    *ebiten.Image
	offsetX  int
	controls []controlState
	stats    []string

	ints   core.IntParameterSetter
	floats core.FloatParameterSetter
}

// NewHUD constructs a HUD for sim with a panel of the given width. A width of
// zero disables it.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(0, width), title: buildTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = newControls(p.ParameterControls(), h.width)
	}
	h.ints, _ = sim.(core.IntParameterSetter)
	h.floats, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes values from the simulation and handles clicks on the
// panel, which starts at panelOffsetX on screen.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	if p, ok := h.sim.(parameterProvider); ok {
		snap := p.Parameters()
		for i := range h.controls {
			h.controls[i].load(snap)
		}
	}
	if p, ok := h.sim.(core.StatsProvider); ok {
		h.stats = formatStats(p.Stats())
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if i, dir, ok := hit(h.controls, mx-h.offsetX, my); ok {
		h.controls[i].adjust(dir, h.ints, h.floats)
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(1, scale)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for i := range h.controls {
		h.drawControl(&h.controls[i])
	}
	y := controlsBottom(len(h.controls)) + statsSpacing
	for _, line := range h.stats {
		text.Draw(h.panel, line, face, panelPadding, y, statColor)
		y += statsSpacing
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawControl(s *controlState) {
	face := basicfont.Face7x13
	y := s.top + labelBaseline
	text.Draw(h.panel, s.control.Label, face, panelPadding, y, labelColor)

	valueColor := labelColor
	if !s.hasValue {
		valueColor = mutedColor
	}
	w := text.BoundString(face, s.value).Dx()
	text.Draw(h.panel, s.value, face, s.minusRect.Min.X-buttonGap-w, y, valueColor)

	_, canDown := s.target(-1)
	_, canUp := s.target(1)
	h.drawButton(s.minusRect, "-", canDown && h.canSet(s))
	h.drawButton(s.plusRect, "+", canUp && h.canSet(s))
}

func (h *HUD) canSet(s *controlState) bool {
	switch s.control.Type {
	case core.ParamTypeInt:
		return h.ints != nil
	case core.ParamTypeFloat:
		return h.floats != nil
	}
	return false
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = buttonOff, mutedColor
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
