package metrics

// Package metrics defines the sink interfaces used to observe pipeline runs.
// Sinks record run summaries, per-queue fetch outcomes, artifact decisions and
// outage volumes. Optional recorders are detected with type assertions, and
// NewMetricsSink returns a MultiSink when several sinks are configured.
