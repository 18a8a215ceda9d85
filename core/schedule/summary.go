package schedule

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/svitlo/core/model"
)

// QueueSummary is the outage volume of one queue on one day.
type QueueSummary struct {
	Queue    model.QueueKey `json:"queue"`
	OffHours float64        `json:"off_hours"`
}

// DaySummary aggregates outage hours across the queues of one day.
type DaySummary struct {
	Day            model.DayKey   `json:"day"`
	TotalOffHours  float64        `json:"total_off_hours"`
	MeanOffHours   float64        `json:"mean_off_hours"`
	MaxOffHours    float64        `json:"max_off_hours"`
	QueuesAffected int            `json:"queues_affected"`
	Queues         []QueueSummary `json:"queues"`
}

// Summarize computes one DaySummary per day of ft, today first.
func Summarize(ft model.FactTable) []DaySummary {
	out := make([]DaySummary, 0, 2)
	for _, day := range ft.Days() {
		hours := make([]float64, len(model.Queues))
		ds := DaySummary{Day: day, Queues: make([]QueueSummary, len(model.Queues))}
		for i, q := range model.Queues {
			h := ft.Grid(day, q).OffHours()
			hours[i] = h
			ds.Queues[i] = QueueSummary{Queue: q, OffHours: h}
			if h > 0 {
				ds.QueuesAffected++
			}
		}
		ds.TotalOffHours = floats.Sum(hours)
		ds.MeanOffHours = stat.Mean(hours, nil)
		ds.MaxOffHours = floats.Max(hours)
		out = append(out, ds)
	}
	return out
}
