package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/svitlo/core/model"
)

// stateFill is the cell color of each state in the spreadsheet.
var stateFill = map[model.SlotState]string{
	model.On:            "FFFFFF",
	model.Off:           "E74C3C",
	model.OffFirstHalf:  "F5B7B1",
	model.OffSecondHalf: "F5B7B1",
}

// WriteXLSX writes one sheet per day with queues as rows and slots as
// columns. Each cell holds the state wire name on a state colored fill.
func WriteXLSX(w io.Writer, ft model.FactTable, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles := make(map[model.SlotState]int, len(stateFill))
	for s, color := range stateFill {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return err
		}
		styles[s] = id
	}

	for i, day := range ft.Days() {
		sheet := day.Time(loc).Format("2006-01-02")
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		if err := writeDaySheet(f, sheet, ft, day, styles); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return f.Write(w)
}

func writeDaySheet(f *excelize.File, sheet string, ft model.FactTable, day model.DayKey, styles map[model.SlotState]int) error {
	_ = f.SetCellValue(sheet, "A1", "Черга")
	for slot := 1; slot <= model.SlotsPerDay; slot++ {
		_ = f.SetCellValue(sheet, cell(slot+1, 1), SlotHours(slot))
	}
	_ = f.SetCellValue(sheet, cell(model.SlotsPerDay+2, 1), "Годин без світла")
	for r, q := range model.Queues {
		row := r + 2
		g := ft.Grid(day, q)
		_ = f.SetCellValue(sheet, cell(1, row), q.DisplayID())
		for slot := 1; slot <= model.SlotsPerDay; slot++ {
			c := cell(slot+1, row)
			s := g.Slot(slot)
			_ = f.SetCellValue(sheet, c, s.String())
			if err := f.SetCellStyle(sheet, c, c, styles[s]); err != nil {
				return err
			}
		}
		_ = f.SetCellValue(sheet, cell(model.SlotsPerDay+2, row), g.OffHours())
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
