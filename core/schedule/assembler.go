package schedule

import (
	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
)

// Assembler folds slot edits into day grids.
type Assembler struct {
	mapper Mapper
	log    logger.Logger
}

// NewAssembler returns an Assembler using mapper.
func NewAssembler(mapper Mapper, log logger.Logger) *Assembler {
	return &Assembler{mapper: mapper, log: logger.OrNop(log)}
}

// Grid builds the grid of one queue on one day. Slots start On and the last
// edit written to a slot wins, so overlapping intervals are not merged.
func (a *Assembler) Grid(intervals []model.RawInterval) model.DayGrid {
	var g model.DayGrid
	for _, iv := range intervals {
		edits := a.mapper.Edits(iv)
		if len(edits) == 0 {
			a.log.Debugf("interval %s produced no slots", iv)
			continue
		}
		for _, e := range edits {
			g.Set(e.Slot, e.State)
		}
	}
	return g
}

// Build assembles a complete FactTable from a day selection. Queues without
// intervals get a full On grid.
func (a *Assembler) Build(sel Selection) model.FactTable {
	ft := model.NewFactTable(sel.Today)
	for _, day := range ft.Days() {
		for _, q := range model.Queues {
			ft.Grids[day][q] = a.Grid(sel.Intervals(day, q))
		}
	}
	ft.MustValidate()
	return ft
}
