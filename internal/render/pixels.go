package render

import (
	"image/color"
	"math"
)

// FillPalette converts display levels into RGBA pixels using a palette.
// Levels past the end of the palette use its last entry. When the palette is
// empty the buffer is cleared to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FillMask writes tint into buf with an alpha proportional to each mask
// value, scaled by maxAlpha. Values are clamped to [0, 1] and NaN is treated
// as zero. Colors are premultiplied as ebiten expects.
func FillMask(buf []byte, mask []float32, tint color.RGBA, maxAlpha uint8) {
	for i, v := range mask {
		if math.IsNaN(float64(v)) || v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		a := float32(maxAlpha) * v
		base := i * 4
		buf[base+0] = uint8(float32(tint.R) * a / 255)
		buf[base+1] = uint8(float32(tint.G) * a / 255)
		buf[base+2] = uint8(float32(tint.B) * a / 255)
		buf[base+3] = uint8(a)
	}
}
