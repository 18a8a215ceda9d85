package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/svitlo/core/model"
)

var zone = FixedZone(2)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 1, day, hour, minute, 0, 0, zone)
}

func interval(q model.QueueKey, start, end time.Time) model.RawInterval {
	return model.RawInterval{Queue: q, Start: start, End: end}
}

func TestHourToSlot(t *testing.T) {
	assert.Equal(t, 1, HourToSlot(0))
	for h := 0; h <= 23; h++ {
		s := HourToSlot(h)
		assert.Equal(t, h+1, s)
		assert.GreaterOrEqual(t, s, 1)
		assert.LessOrEqual(t, s, 24)
	}
}

func TestRoundEndMinute(t *testing.T) {
	assert.Equal(t, 0, RoundEndMinute(0))
	assert.Equal(t, 0, RoundEndMinute(29))
	assert.Equal(t, 30, RoundEndMinute(30))
	assert.Equal(t, 30, RoundEndMinute(59))
}

func TestMapperEdits(t *testing.T) {
	tests := []struct {
		name  string
		rule  BoundaryRule
		start time.Time
		end   time.Time
		want  []Edit
	}{
		{
			name:  "fractional both ends",
			start: at(10, 7, 15), end: at(10, 9, 10),
			want: []Edit{{8, model.OffFirstHalf}, {9, model.OffFirstHalf}},
		},
		{
			name:  "whole hours",
			start: at(10, 14, 0), end: at(10, 16, 0),
			want: []Edit{{15, model.Off}, {16, model.Off}},
		},
		{
			name:  "end of day sentinel",
			start: at(10, 23, 40), end: at(10, 23, 59),
			want: []Edit{{24, model.OffSecondHalf}},
		},
		{
			name:  "midnight start",
			start: at(10, 0, 0), end: at(10, 1, 0),
			want: []Edit{{1, model.Off}},
		},
		{
			name:  "end on half hour",
			start: at(10, 10, 0), end: at(10, 11, 30),
			want: []Edit{{11, model.Off}, {12, model.OffFirstHalf}},
		},
		{
			name:  "late end rounds into next hour",
			start: at(10, 10, 0), end: at(10, 11, 31),
			want: []Edit{{11, model.Off}, {12, model.OffSecondHalf}},
		},
		{
			name:  "end refinement replaces start refinement",
			start: at(10, 7, 10), end: at(10, 7, 45),
			want: []Edit{{8, model.OffSecondHalf}},
		},
		{
			name:  "end on next date is read as midnight",
			start: at(10, 22, 30), end: at(11, 2, 0),
			want: []Edit{{23, model.OffSecondHalf}, {24, model.Off}},
		},
		{
			name:  "legacy start is always second half",
			rule:  RuleLegacy,
			start: at(10, 7, 15), end: at(10, 9, 10),
			want: []Edit{{8, model.OffSecondHalf}, {9, model.OffFirstHalf}},
		},
		{
			name:  "legacy end is always first half",
			rule:  RuleLegacy,
			start: at(10, 10, 0), end: at(10, 11, 45),
			want: []Edit{{11, model.Off}, {12, model.OffFirstHalf}},
		},
		{name: "empty after rounding", start: at(10, 7, 15), end: at(10, 7, 20)},
		{name: "zero length", start: at(10, 7, 0), end: at(10, 7, 0)},
		{name: "inverted", start: at(10, 12, 0), end: at(10, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			if rule == "" {
				rule = RuleSymmetric
			}
			got := NewMapper(rule).Edits(interval("1.1", tt.start, tt.end))
			assert.Equal(t, tt.want, got)
			for _, e := range got {
				assert.True(t, e.Slot >= 1 && e.Slot <= 24, "slot %d out of range", e.Slot)
			}
		})
	}
}

func TestParseBoundaryRule(t *testing.T) {
	r, err := ParseBoundaryRule("")
	require.NoError(t, err)
	assert.Equal(t, RuleSymmetric, r)
	r, err = ParseBoundaryRule("legacy")
	require.NoError(t, err)
	assert.Equal(t, RuleLegacy, r)
	_, err = ParseBoundaryRule("union")
	assert.Error(t, err)
}
