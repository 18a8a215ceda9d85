package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/svitlo/core/model"
)

// WriteCSV writes one row per (day, queue, slot) with a header line.
func WriteCSV(w io.Writer, ft model.FactTable, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "queue", "slot", "hour", "state"}); err != nil {
		return err
	}
	for _, day := range ft.Days() {
		date := day.Time(loc).Format("2006-01-02")
		for _, q := range model.Queues {
			g := ft.Grid(day, q)
			for slot := 1; slot <= model.SlotsPerDay; slot++ {
				rec := []string{date, q.DisplayID(), strconv.Itoa(slot), SlotHours(slot), g.Slot(slot).String()}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// SlotHours renders the hour span of a 1-based slot, e.g. "13-14".
func SlotHours(slot int) string {
	return pad(slot-1) + "-" + pad(slot)
}

func pad(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h)
	}
	return strconv.Itoa(h)
}
