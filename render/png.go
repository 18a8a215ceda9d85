package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kilianp07/svitlo/core/model"
)

// PNG draws the grid as a raster image. Half hour states are split
// vertically inside their slot.
type PNG struct {
	Cell   int
	Margin int
	Label  int
}

// NewPNG returns a renderer with the default geometry.
func NewPNG() *PNG { return &PNG{Cell: 28, Margin: 12, Label: 90} }

func (*PNG) Format() string { return "png" }

// Size returns the image bounds for a view with rows grid lines.
func (p *PNG) Size(rows int) image.Point {
	w := 2*p.Margin + p.Label + model.SlotsPerDay*p.Cell
	h := 2*p.Margin + 2*p.Cell + rows*p.Cell
	return image.Pt(w, h)
}

func (p *PNG) Render(w io.Writer, v View) error {
	size := p.Size(len(v.Rows))
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBack), image.Point{}, draw.Src)

	p.text(img, p.Margin, p.Margin+13, v.Title)
	top := p.Margin + p.Cell
	left := p.Margin + p.Label
	for slot := 1; slot <= model.SlotsPerDay; slot++ {
		x := left + (slot-1)*p.Cell
		fill(img, image.Rect(x, top, x+p.Cell, top+p.Cell), colorHeader)
		p.text(img, x+p.Cell/2-7, top+p.Cell-9, pad2(slot-1))
	}
	for i, row := range v.Rows {
		y := top + (i+1)*p.Cell
		p.text(img, p.Margin, y+p.Cell-9, row.Label)
		for slot := 1; slot <= model.SlotsPerDay; slot++ {
			x := left + (slot-1)*p.Cell
			first, second := halves(row.Grid.Slot(slot))
			mid := x + p.Cell/2
			fill(img, image.Rect(x, y, mid, y+p.Cell), first)
			fill(img, image.Rect(mid, y, x+p.Cell, y+p.Cell), second)
		}
	}
	p.lines(img, left, top, len(v.Rows)+1)
	return png.Encode(w, img)
}

func (p *PNG) lines(img *image.RGBA, left, top, rows int) {
	right := left + model.SlotsPerDay*p.Cell
	bottom := top + rows*p.Cell
	for slot := 0; slot <= model.SlotsPerDay; slot++ {
		x := left + slot*p.Cell
		fill(img, image.Rect(x, top, x+1, bottom), colorGrid)
	}
	for r := 0; r <= rows; r++ {
		y := top + r*p.Cell
		fill(img, image.Rect(left, y, right, y+1), colorGrid)
	}
}

func (p *PNG) text(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func pad2(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h)
	}
	return strconv.Itoa(h)
}
