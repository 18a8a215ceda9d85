// Package schedule turns reported outage intervals into per-day slot grids.
// It holds the slot mapping rules, the day selection for today and tomorrow
// in the region's fixed zone, and the assembly of a complete FactTable.
package schedule
