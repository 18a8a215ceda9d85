package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SlotsPerDay is the number of one-hour slots in a grid.
const SlotsPerDay = 24

// DayGrid holds the state of every slot of one day for one queue. Index 0 is
// slot 1 (00:00-01:00); the 1-based numbering only appears at the
// serialization boundary. The zero value is a full On grid.
type DayGrid [SlotsPerDay]SlotState

// Slot returns the state of the 1-based slot n.
func (g DayGrid) Slot(n int) SlotState {
	return g[n-1]
}

// Set writes state s into the 1-based slot n. Out of range slots are ignored.
func (g *DayGrid) Set(n int, s SlotState) {
	if n < 1 || n > SlotsPerDay {
		return
	}
	g[n-1] = s
}

// Valid reports whether every slot holds a defined state.
func (g DayGrid) Valid() bool {
	for _, s := range g {
		if !s.Valid() {
			return false
		}
	}
	return true
}

// OffHours sums the hours without power over the day.
func (g DayGrid) OffHours() float64 {
	total := 0.0
	for _, s := range g {
		total += s.OffHours()
	}
	return total
}

// MarshalJSON encodes the grid as {"1": "yes", ..., "24": "no"} with keys in
// slot order.
func (g DayGrid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range g {
		if !s.Valid() {
			return nil, fmt.Errorf("slot %d: invalid state %d", i+1, int(s))
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString(`":"`)
		buf.WriteString(s.String())
		buf.WriteByte('"')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the slot map form. Missing slots stay On.
func (g *DayGrid) UnmarshalJSON(b []byte) error {
	var raw map[string]SlotState
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out DayGrid
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > SlotsPerDay {
			return fmt.Errorf("invalid slot key %q", k)
		}
		out[n-1] = v
	}
	*g = out
	return nil
}
