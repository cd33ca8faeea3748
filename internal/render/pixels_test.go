package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillPalette(t *testing.T) {
	t.Parallel()

	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 255}, {R: 9, G: 8, B: 7, A: 128}}
	buf := make([]byte, 12)
	FillPalette(buf, []uint8{0, 1, 5}, palette)
	assert.Equal(t, []byte{1, 2, 3, 255, 9, 8, 7, 128, 9, 8, 7, 128}, buf)

	FillPalette(buf, []uint8{0, 1, 5}, nil)
	assert.Equal(t, make([]byte, 12), buf)
}

func TestFillMask(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 16)
	tint := color.RGBA{R: 255, G: 0, B: 100}
	FillMask(buf, []float32{0, 1, 2, -1}, tint, 200)

	assert.Equal(t, []byte{0, 0, 0, 0}, buf[0:4])
	assert.Equal(t, []byte{200, 0, 78, 200}, buf[4:8])
	assert.Equal(t, buf[4:8], buf[8:12], "values above one clamp")
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[12:16])
}
