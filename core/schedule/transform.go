package schedule

import (
	"time"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
)

// Transformer runs day selection and grid assembly in one call.
type Transformer struct {
	selector  *DaySelector
	assembler *Assembler
}

// NewTransformer wires a selector and an assembler for loc and rule.
func NewTransformer(loc *time.Location, rule BoundaryRule, log logger.Logger) *Transformer {
	return &Transformer{
		selector:  NewDaySelector(loc, log),
		assembler: NewAssembler(NewMapper(rule), log),
	}
}

// Location returns the fixed zone used for day selection.
func (t *Transformer) Location() *time.Location { return t.selector.Location() }

// Transform builds the FactTable for the day containing now. A queue missing
// from results is treated like a queue with no intervals.
func (t *Transformer) Transform(now time.Time, results map[model.QueueKey][]model.RawInterval) (model.FactTable, Selection) {
	sel := t.selector.Select(now, results)
	return t.assembler.Build(sel), sel
}
