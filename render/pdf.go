package render

import (
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/kilianp07/svitlo/core/model"
)

// PDF lays the grid out as a table on a landscape A4 page. The core fonts
// cover Latin-1 only, so labels use display ids and dates.
type PDF struct {
	CellW  float64
	CellH  float64
	LabelW float64
}

// NewPDF returns a renderer sized for 24 slots on landscape A4.
func NewPDF() *PDF { return &PDF{CellW: 10, CellH: 8, LabelW: 28} }

func (*PDF) Format() string { return "pdf" }

func (p *PDF) Render(w io.Writer, v View) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()
	pdf.Cell(0, 10, v.Title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 8)
	setFill(pdf, colorHeader)
	pdf.CellFormat(p.LabelW, p.CellH, "", "1", 0, "C", true, 0, "")
	for slot := 1; slot <= model.SlotsPerDay; slot++ {
		pdf.CellFormat(p.CellW, p.CellH, pad2(slot-1), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range v.Rows {
		setFill(pdf, colorBack)
		pdf.CellFormat(p.LabelW, p.CellH, row.Label, "1", 0, "L", true, 0, "")
		for slot := 1; slot <= model.SlotsPerDay; slot++ {
			first, second := halves(row.Grid.Slot(slot))
			setFill(pdf, first)
			pdf.CellFormat(p.CellW/2, p.CellH, "", "LTB", 0, "C", true, 0, "")
			setFill(pdf, second)
			pdf.CellFormat(p.CellW/2, p.CellH, "", "RTB", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	legend := []struct {
		label string
		c     color.RGBA
	}{{"power on", colorOn}, {"power off", colorOff}}
	for _, l := range legend {
		setFill(pdf, l.c)
		pdf.CellFormat(p.CellW, p.CellH/2, "", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, p.CellH/2, " "+l.label, "", 0, "L", false, 0, "")
	}
	return pdf.Output(w)
}

func setFill(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
