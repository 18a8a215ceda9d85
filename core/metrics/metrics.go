package metrics

import (
	"time"
)

// RunEvent summarizes one pipeline run.
type RunEvent struct {
	RunID            string
	Time             time.Time
	Duration         time.Duration
	ContentChanged   bool
	FetchedQueues    int
	FailedQueues     int
	KeptIntervals    int
	DroppedIntervals int
	Checked          int
	Skipped          int
	Generated        int
	Err              string
}

// MetricsSink records pipeline runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// FetchEvent is the outcome of fetching one queue from upstream.
type FetchEvent struct {
	Source    string
	Queue     string
	OK        bool
	Intervals int
	Latency   time.Duration
	Time      time.Time
}

// FetchRecorder records per-queue upstream fetches.
type FetchRecorder interface {
	RecordFetch(ev FetchEvent) error
}

// ArtifactEvent is one change-detection decision.
type ArtifactEvent struct {
	Artifact string
	Format   string
	Decision string
	Reason   string
	Time     time.Time
}

// ArtifactRecorder records skip or regenerate decisions.
type ArtifactRecorder interface {
	RecordArtifact(ev ArtifactEvent) error
}

// OutageEvent carries the off hours of one queue on one day.
type OutageEvent struct {
	Day      time.Time
	Queue    string
	OffHours float64
	Time     time.Time
}

// OutageRecorder records outage volumes.
type OutageRecorder interface {
	RecordOutage(ev OutageEvent) error
}

// DaySummaryEvent aggregates outage hours over all queues of one day.
type DaySummaryEvent struct {
	Day            time.Time
	TotalOffHours  float64
	MeanOffHours   float64
	MaxOffHours    float64
	QueuesAffected int
	Time           time.Time
}

// DaySummaryRecorder records day-level outage totals.
type DaySummaryRecorder interface {
	RecordDaySummary(ev DaySummaryEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error           { return nil }
func (NopSink) RecordFetch(FetchEvent) error       { return nil }
func (NopSink) RecordArtifact(ArtifactEvent) error { return nil }
func (NopSink) RecordOutage(OutageEvent) error     { return nil }

func (NopSink) RecordDaySummary(DaySummaryEvent) error { return nil }
