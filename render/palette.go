package render

import (
	"image/color"

	"github.com/kilianp07/svitlo/core/model"
)

var (
	colorOn     = color.RGBA{R: 0xFF, G: 0xF4, B: 0xC2, A: 0xFF}
	colorOff    = color.RGBA{R: 0x3B, G: 0x3B, B: 0x4F, A: 0xFF}
	colorGrid   = color.RGBA{R: 0xB0, G: 0xB0, B: 0xB0, A: 0xFF}
	colorText   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
	colorBack   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorHeader = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
)

// halves returns the fill of the first and second half hour of a slot.
func halves(s model.SlotState) (first, second color.RGBA) {
	switch s {
	case model.Off:
		return colorOff, colorOff
	case model.OffFirstHalf:
		return colorOff, colorOn
	case model.OffSecondHalf:
		return colorOn, colorOff
	default:
		return colorOn, colorOn
	}
}

func hex(c color.RGBA) string {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0F]
	}
	return string(b)
}
