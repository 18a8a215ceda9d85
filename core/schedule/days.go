package schedule

import (
	"fmt"
	"time"

	"github.com/kilianp07/svitlo/core/logger"
	"github.com/kilianp07/svitlo/core/model"
)

// FixedZone returns a static UTC offset location. No daylight saving rules are
// applied, the region runs on a fixed civil offset.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Selection holds the intervals kept for today and tomorrow, grouped by day and
// queue in the order they were reported.
type Selection struct {
	Today   model.DayKey
	ByDay   map[model.DayKey]map[model.QueueKey][]model.RawInterval
	Kept    int
	Dropped int
}

// Intervals returns the kept intervals of one queue on one day.
func (s Selection) Intervals(day model.DayKey, q model.QueueKey) []model.RawInterval {
	return s.ByDay[day][q]
}

// DaySelector classifies intervals by the calendar day of their start in a
// fixed zone.
type DaySelector struct {
	loc *time.Location
	log logger.Logger
}

// NewDaySelector returns a selector working in loc.
func NewDaySelector(loc *time.Location, log logger.Logger) *DaySelector {
	if loc == nil {
		loc = time.UTC
	}
	return &DaySelector{loc: loc, log: logger.OrNop(log)}
}

// Location returns the zone the selector works in.
func (d *DaySelector) Location() *time.Location { return d.loc }

// Days returns the midnight keys of today and tomorrow for the instant now.
func (d *DaySelector) Days(now time.Time) (today, tomorrow model.DayKey) {
	today = model.DayKeyOf(now.In(d.loc))
	return today, today.Next()
}

// Select keeps the intervals whose start falls on today or tomorrow. Each
// result queue is visited in catalog order. Intervals of unknown queues or
// other days are dropped and logged.
func (d *DaySelector) Select(now time.Time, results map[model.QueueKey][]model.RawInterval) Selection {
	today, tomorrow := d.Days(now)
	sel := Selection{
		Today: today,
		ByDay: map[model.DayKey]map[model.QueueKey][]model.RawInterval{
			today:    {},
			tomorrow: {},
		},
	}
	for q, intervals := range results {
		if !q.Known() && len(intervals) > 0 {
			d.log.Warnf("dropping %d intervals of unknown queue %s", len(intervals), q)
			sel.Dropped += len(intervals)
		}
	}
	for _, q := range model.Queues {
		for _, iv := range results[q] {
			iv.Queue = q
			iv.Start = iv.Start.In(d.loc)
			iv.End = iv.End.In(d.loc)
			day := model.DayKeyOf(iv.Start)
			if day != today && day != tomorrow {
				d.log.Debugw("interval outside target days", map[string]any{
					"queue":    q.DisplayID(),
					"interval": iv.String(),
				})
				sel.Dropped++
				continue
			}
			sel.ByDay[day][q] = append(sel.ByDay[day][q], iv)
			sel.Kept++
		}
	}
	return sel
}
