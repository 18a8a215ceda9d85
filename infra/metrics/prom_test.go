package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/svitlo/core/metrics"
)

func newTestPromSink(t *testing.T, reg prometheus.Registerer) *PromSink {
	t.Helper()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	sink, ok := sinkIf.(*PromSink)
	require.True(t, ok, "expected PromSink")
	return sink
}

func TestPromSink_RecordRun(t *testing.T) {
	sink := newTestPromSink(t, prometheus.NewRegistry())
	now := time.Unix(1751328000, 0)
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{
		RunID: "r1", Time: now, Duration: 2 * time.Second,
		ContentChanged: true, KeptIntervals: 5, DroppedIntervals: 2,
	}))
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{RunID: "r2", Time: now, Err: "boom"}))

	expected := `
# HELP svitlo_runs_total Pipeline runs by outcome and whether the schedule content changed
# TYPE svitlo_runs_total counter
svitlo_runs_total{changed="false",ok="false"} 1
svitlo_runs_total{changed="true",ok="true"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)))
	assert.Equal(t, 5.0, testutil.ToFloat64(sink.intervals.WithLabelValues("kept")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.intervals.WithLabelValues("dropped")))
	assert.Equal(t, float64(now.Unix()), testutil.ToFloat64(sink.lastRun))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_FetchArtifactOutage(t *testing.T) {
	sink := newTestPromSink(t, prometheus.NewRegistry())
	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{Source: "esvitlo", Queue: "1.1", OK: true, Latency: 300 * time.Millisecond}))
	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{Source: "esvitlo", Queue: "1.2", OK: false}))
	require.NoError(t, sink.RecordArtifact(coremetrics.ArtifactEvent{Artifact: "gpv-1-1-emergency", Format: "png", Decision: "skip", Reason: "unchanged"}))
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordOutage(coremetrics.OutageEvent{Day: day, Queue: "1.1", OffHours: 4.5}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.fetches.WithLabelValues("esvitlo", "1.1", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.fetches.WithLabelValues("esvitlo", "1.2", "false")))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.latency))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.artifacts.WithLabelValues("png", "skip", "unchanged")))
	assert.Equal(t, 4.5, testutil.ToFloat64(sink.offHours.WithLabelValues("1.1", "2025-07-01")))
}

func TestPromSink_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := newTestPromSink(t, reg)
	second := newTestPromSink(t, reg)
	require.NoError(t, first.RecordArtifact(coremetrics.ArtifactEvent{Format: "pdf", Decision: "regenerate", Reason: "artifact missing"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.artifacts.WithLabelValues("pdf", "regenerate", "artifact missing")))
}

func TestPromSink_RecordDaySummary(t *testing.T) {
	sink := newTestPromSink(t, prometheus.NewRegistry())
	day := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordDaySummary(coremetrics.DaySummaryEvent{
		Day: day, TotalOffHours: 6, MeanOffHours: 0.5, MaxOffHours: 4.5, QueuesAffected: 2,
	}))

	assert.Equal(t, 6.0, testutil.ToFloat64(sink.dayHours.WithLabelValues("2025-07-02", "total")))
	assert.Equal(t, 0.5, testutil.ToFloat64(sink.dayHours.WithLabelValues("2025-07-02", "mean")))
	assert.Equal(t, 4.5, testutil.ToFloat64(sink.dayHours.WithLabelValues("2025-07-02", "max")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.affected.WithLabelValues("2025-07-02")))
}
