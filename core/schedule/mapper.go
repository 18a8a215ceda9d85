package schedule

import (
	"fmt"

	"github.com/kilianp07/svitlo/core/model"
)

// BoundaryRule selects how fractional interval boundaries are refined.
type BoundaryRule string

const (
	// RuleSymmetric applies the <30 / >=30 minute test to the start and the
	// <=30 / >30 test to the end.
	RuleSymmetric BoundaryRule = "symmetric"
	// RuleLegacy marks any fractional start as second half and any fractional
	// end as first half.
	RuleLegacy BoundaryRule = "legacy"
)

// ParseBoundaryRule accepts the configured rule name. Empty means symmetric.
func ParseBoundaryRule(s string) (BoundaryRule, error) {
	switch BoundaryRule(s) {
	case "", RuleSymmetric:
		return RuleSymmetric, nil
	case RuleLegacy:
		return RuleLegacy, nil
	default:
		return "", fmt.Errorf("unknown boundary rule %q", s)
	}
}

// HourToSlot maps a clock hour to its 1-based slot. Hour 24 maps to 25 and is
// only meaningful as an exclusive range end.
func HourToSlot(h int) int {
	return h + 1
}

// RoundEndMinute rounds an end minute down to the half-hour boundary.
func RoundEndMinute(m int) int {
	if m >= 30 {
		return 30
	}
	return 0
}

// Edit proposes a state for one slot.
type Edit struct {
	Slot  int
	State model.SlotState
}

// Mapper converts intervals into slot edits.
type Mapper struct {
	Rule BoundaryRule
}

// NewMapper returns a Mapper for rule.
func NewMapper(rule BoundaryRule) Mapper {
	return Mapper{Rule: rule}
}

// Edits returns one edit per affected slot in slot order. The coarse range is
// [start slot, end slot) filled with Off, boundary slots are then refined to a
// half state. An end falling on a later calendar date than the start is read
// as 24:00. Inverted, empty and out of day intervals produce no edits.
func (m Mapper) Edits(iv model.RawInterval) []Edit {
	if !iv.End.After(iv.Start) {
		return nil
	}
	startMin := iv.Start.Minute()
	startSlot := HourToSlot(iv.Start.Hour())

	endHour, endMin := iv.End.Hour(), iv.End.Minute()
	if model.DayKeyOf(iv.End) > model.DayKeyOf(iv.Start) {
		endHour, endMin = 24, 0
	}
	effEnd := endHour
	if RoundEndMinute(endMin) == 30 {
		effEnd++
	}
	endSlot := HourToSlot(effEnd)
	if startSlot >= endSlot {
		return nil
	}
	sentinel := endHour == 23 && endMin == 59

	var edits []Edit
	for slot := max(startSlot, 1); slot < endSlot && slot <= model.SlotsPerDay; slot++ {
		state := model.Off
		if slot == startSlot && startMin != 0 {
			state = m.startState(startMin)
		}
		if slot == endSlot-1 && endMin != 0 && !sentinel {
			state = m.endState(endMin)
		}
		edits = append(edits, Edit{Slot: slot, State: state})
	}
	return edits
}

func (m Mapper) startState(minute int) model.SlotState {
	if m.Rule == RuleLegacy || minute >= 30 {
		return model.OffSecondHalf
	}
	return model.OffFirstHalf
}

func (m Mapper) endState(minute int) model.SlotState {
	if m.Rule == RuleLegacy || minute <= 30 {
		return model.OffFirstHalf
	}
	return model.OffSecondHalf
}
