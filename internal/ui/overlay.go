//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"fluid-cv/internal/core"
	"fluid-cv/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type pressureMaskProvider interface {
	PressureMask() []float32
}

type containmentMaskProvider interface {
	ContainmentMask() []float32
}

type velocityFieldProvider interface {
	VelocityAt(x, y float64) (float64, float64)
}

// Overlay draws optional debugging visuals on top of the base simulation:
// 1 toggles the pressure field, 2 the containment mask, 3 velocity arrows.
type Overlay struct {
	sim   core.Sim
	scale int

	showPressure  bool
	showContained bool
	showVelocity  bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image

	samples     []arrowSample
	sampleSpan  float64
	sampledSize core.Size
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPressure = !o.showPressure
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showContained = !o.showContained
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showVelocity = !o.showVelocity
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showPressure {
		if p, ok := o.sim.(pressureMaskProvider); ok {
			o.drawMask(screen, size, p.PressureMask(), color.RGBA{R: 255, G: 120, B: 40}, 150)
		}
	}
	if o.showContained {
		if p, ok := o.sim.(containmentMaskProvider); ok {
			o.drawMask(screen, size, p.ContainmentMask(), color.RGBA{R: 90, G: 220, B: 120}, 90)
		}
	}
	if o.showVelocity {
		if p, ok := o.sim.(velocityFieldProvider); ok {
			o.drawVelocity(screen, size, p)
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, size core.Size, mask []float32, tint color.RGBA, alpha uint8) {
	total := size.W * size.H
	if len(mask) != total {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	render.FillMask(o.maskBuf, mask, tint, alpha)
	o.maskImg.WritePixels(o.maskBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawVelocity(screen *ebiten.Image, size core.Size, field velocityFieldProvider) {
	if size != o.sampledSize || len(o.samples) == 0 {
		o.samples, o.sampleSpan = sampleGrid(size, o.scale)
		o.sampledSize = size
	}

	// Arrow length is relative to the fastest sample of this frame.
	vel := make([][2]float64, len(o.samples))
	ref := 0.0
	for i, s := range o.samples {
		vx, vy := field.VelocityAt(s.cx, s.cy)
		vel[i] = [2]float64{vx, vy}
		ref = math.Max(ref, math.Hypot(vx, vy))
	}
	calm := ref * 0.05

	dot := math.Max(o.sampleSpan*0.15, float64(o.scale)*0.75)
	for i, s := range o.samples {
		a, ok := arrowFor(s, vel[i][0], vel[i][1], o.sampleSpan, ref, calm)
		if !ok {
			o.drawDot(screen, s.sx, s.sy, dot, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}
		col := arrowColor(a.strength)
		thickness := math.Max(1, float64(o.scale)*(0.6+0.4*a.strength))
		o.drawSegment(screen, a.shaft, thickness, col)
		o.drawSegment(screen, a.left, thickness*0.85, col)
		o.drawSegment(screen, a.right, thickness*0.85, col)
	}
}

func (o *Overlay) drawDot(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size/2, y-size/2)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawSegment(screen *ebiten.Image, s segment, thickness float64, col color.RGBA) {
	dx, dy := s.x2-s.x1, s.y2-s.y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(s.x1, s.y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func arrowColor(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	return color.RGBA{
		R: uint8(math.Round(80 + 170*t)),
		G: uint8(math.Round(170 + 40*t)),
		B: uint8(math.Round(230 - 150*t)),
		A: uint8(math.Round(150 + 90*t)),
	}
}
