package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// SecondsPerDay separates the two day keys of a FactTable.
const SecondsPerDay = 86400

// ErrIncompleteTable marks a FactTable missing a day or a queue.
var ErrIncompleteTable = errors.New("incomplete fact table")

// DayKey identifies a calendar day by the Unix timestamp of its local midnight.
type DayKey int64

// DayKeyOf returns the key of the calendar day t falls on, in t's location.
func DayKeyOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey(time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Unix())
}

// Next returns the key of the following day.
func (k DayKey) Next() DayKey { return k + SecondsPerDay }

// Time returns the midnight instant in loc.
func (k DayKey) Time(loc *time.Location) time.Time {
	return time.Unix(int64(k), 0).In(loc)
}

// FactTable maps (day, queue) to a DayGrid for exactly today and tomorrow.
type FactTable struct {
	Today DayKey
	Grids map[DayKey]map[QueueKey]DayGrid
}

// NewFactTable returns a complete table with every grid On.
func NewFactTable(today DayKey) FactTable {
	ft := FactTable{Today: today, Grids: make(map[DayKey]map[QueueKey]DayGrid, 2)}
	for _, day := range []DayKey{today, today.Next()} {
		queues := make(map[QueueKey]DayGrid, len(Queues))
		for _, q := range Queues {
			queues[q] = DayGrid{}
		}
		ft.Grids[day] = queues
	}
	return ft
}

// Tomorrow returns the second day key.
func (ft FactTable) Tomorrow() DayKey { return ft.Today.Next() }

// Days returns both day keys in order.
func (ft FactTable) Days() []DayKey { return []DayKey{ft.Today, ft.Tomorrow()} }

// Grid returns the grid for one day and queue. Absent entries read as all On.
func (ft FactTable) Grid(day DayKey, q QueueKey) DayGrid {
	return ft.Grids[day][q]
}

// Validate checks that the table holds exactly two days with all twelve queues
// each, and that every slot state is defined.
func (ft FactTable) Validate() error {
	if len(ft.Grids) != 2 {
		return fmt.Errorf("%w: %d day keys", ErrIncompleteTable, len(ft.Grids))
	}
	for _, day := range ft.Days() {
		queues, ok := ft.Grids[day]
		if !ok {
			return fmt.Errorf("%w: missing day %d", ErrIncompleteTable, day)
		}
		if len(queues) != len(Queues) {
			return fmt.Errorf("%w: day %d has %d queues", ErrIncompleteTable, day, len(queues))
		}
		for _, q := range Queues {
			g, ok := queues[q]
			if !ok {
				return fmt.Errorf("%w: day %d missing queue %s", ErrIncompleteTable, day, q)
			}
			if !g.Valid() {
				return fmt.Errorf("%w: day %d queue %s has an undefined state", ErrIncompleteTable, day, q)
			}
		}
	}
	return nil
}

// MustValidate panics when the table breaks its shape. A broken table is a
// programming error, downstream consumers rely on it being complete.
func (ft FactTable) MustValidate() {
	if err := ft.Validate(); err != nil {
		panic(err)
	}
}

// Data returns the table in its serialized layout: stringified day key to
// queue display id to grid.
func (ft FactTable) Data() map[string]map[string]DayGrid {
	out := make(map[string]map[string]DayGrid, len(ft.Grids))
	for day, queues := range ft.Grids {
		m := make(map[string]DayGrid, len(queues))
		for q, g := range queues {
			m[q.DisplayID()] = g
		}
		out[strconv.FormatInt(int64(day), 10)] = m
	}
	return out
}

// FactTableFromData rebuilds a table from its serialized layout. Days other than
// today and tomorrow are ignored and missing queues read as all On.
func FactTableFromData(today DayKey, data map[string]map[string]DayGrid) (FactTable, error) {
	ft := NewFactTable(today)
	for dayStr, queues := range data {
		n, err := strconv.ParseInt(dayStr, 10, 64)
		if err != nil {
			return FactTable{}, fmt.Errorf("invalid day key %q", dayStr)
		}
		day := DayKey(n)
		if day != ft.Today && day != ft.Tomorrow() {
			continue
		}
		for id, g := range queues {
			q, err := ParseQueue(id)
			if err != nil {
				return FactTable{}, err
			}
			ft.Grids[day][q] = g
		}
	}
	return ft, ft.Validate()
}
