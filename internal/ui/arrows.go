package ui

import (
	"math"

	"fluid-cv/internal/core"
)

// arrowSample is a grid position (cx, cy) and its screen position (sx, sy).
type arrowSample struct {
	cx, cy float64
	sx, sy float64
}

// sampleGrid spreads roughly targetSamples points evenly over the grid,
// centred, with each point in the middle of a cell. span is the screen
// distance between neighbouring samples.
func sampleGrid(size core.Size, scale int) (samples []arrowSample, span float64) {
	if size.W <= 0 || size.H <= 0 {
		return nil, 0
	}
	if scale <= 0 {
		scale = 1
	}
	const (
		targetSamples = 360.0
		minSpacing    = 3
		maxSpacing    = 16
	)
	spacing := int(math.Sqrt(float64(size.W*size.H) / targetSamples))
	spacing = max(minSpacing, min(maxSpacing, spacing))

	countX := (size.W + spacing - 1) / spacing
	countY := (size.H + spacing - 1) / spacing
	startX := max(0, (size.W-1-(countX-1)*spacing)/2)
	startY := max(0, (size.H-1-(countY-1)*spacing)/2)

	samples = make([]arrowSample, 0, countX*countY)
	for yi := 0; yi < countY; yi++ {
		cy := float64(min(startY+yi*spacing, size.H-1)) + 0.5
		for xi := 0; xi < countX; xi++ {
			cx := float64(min(startX+xi*spacing, size.W-1)) + 0.5
			samples = append(samples, arrowSample{cx: cx, cy: cy, sx: cx * float64(scale), sy: cy * float64(scale)})
		}
	}
	return samples, float64(spacing * scale)
}

type segment struct{ x1, y1, x2, y2 float64 }

// arrow is a shaft plus two head strokes centred on a sample.
type arrow struct {
	shaft, left, right segment
	strength           float64 // speed relative to the reference, in [0, 1]
}

// arrowFor builds the arrow for velocity (vx, vy). ok is false when the speed
// is below calm, in which case callers draw a dot.
func arrowFor(s arrowSample, vx, vy, span, refSpeed, calm float64) (arrow, bool) {
	speed := math.Hypot(vx, vy)
	if speed < calm || speed == 0 || math.IsNaN(speed) {
		return arrow{}, false
	}
	const headAngle = math.Pi / 6
	nx, ny := vx/speed, vy/speed
	strength := 1.0
	if refSpeed > 0 {
		strength = math.Min(1, speed/refSpeed)
	}
	length := span * (0.35 + 0.35*math.Sqrt(strength))
	head := length * 0.3
	tail := length * 0.4

	tipX, tipY := s.sx+nx*(length-tail), s.sy+ny*(length-tail)
	tailX, tailY := s.sx-nx*tail, s.sy-ny*tail
	angle := math.Atan2(ny, nx)
	return arrow{
		shaft:    segment{tailX, tailY, tipX - nx*head, tipY - ny*head},
		left:     segment{tipX, tipY, tipX - math.Cos(angle+headAngle)*head, tipY - math.Sin(angle+headAngle)*head},
		right:    segment{tipX, tipY, tipX - math.Cos(angle-headAngle)*head, tipY - math.Sin(angle-headAngle)*head},
		strength: strength,
	}, true
}
