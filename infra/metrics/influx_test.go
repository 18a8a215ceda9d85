package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/svitlo/core/metrics"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func line(p *write.Point) string {
	p.SortTags()
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordOutage(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	day := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordOutage(coremetrics.OutageEvent{Day: day, Queue: "3.2", OffHours: 5.5, Time: now}))

	p := write.NewPointWithMeasurement("outage_hours").
		AddTag("queue", "3.2").
		AddTag("day", "2025-07-02").
		AddField("off_hours", 5.5).
		SetTime(now)
	assert.Equal(t, []string{line(p)}, c.bodies)
}

func TestInfluxSink_RecordFetch(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{
		Source: "esvitlo", Queue: "1.1", OK: true, Intervals: 3, Latency: 1500 * time.Microsecond, Time: now,
	}))
	p := write.NewPointWithMeasurement("queue_fetch").
		AddTag("source", "esvitlo").
		AddTag("queue", "1.1").
		AddTag("ok", "true").
		AddField("intervals", 3).
		AddField("latency_ms", 1.5).
		SetTime(now)
	assert.Equal(t, []string{line(p)}, c.bodies)
}

func TestInfluxSink_RecordRunAndArtifact(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{RunID: "r1", Time: now, Err: "write failed"}))
	require.NoError(t, sink.RecordArtifact(coremetrics.ArtifactEvent{
		Artifact: "gpv-all-tomorrow", Format: "png", Decision: "regenerate", Reason: "fingerprint changed", Time: now,
	}))
	require.Len(t, c.bodies, 2)
	assert.Contains(t, c.bodies[0], "pipeline_run,changed=false,ok=false,run_id=r1")
	assert.Contains(t, c.bodies[0], `error="write failed"`)
	assert.Contains(t, c.bodies[1], "artifact_decision,artifact=gpv-all-tomorrow,decision=regenerate,format=png")
}

func TestInfluxSink_TagsSortedByKey(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	require.NoError(t, sink.RecordFetch(coremetrics.FetchEvent{Source: "htmlpage", Queue: "6.2", OK: false, Time: now}))
	require.NoError(t, sink.RecordOutage(coremetrics.OutageEvent{Day: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Queue: "3.2", Time: now}))
	require.Len(t, c.bodies, 2)
	assert.True(t, strings.HasPrefix(c.bodies[0], "queue_fetch,ok=false,queue=6.2,source=htmlpage "), c.bodies[0])
	assert.True(t, strings.HasPrefix(c.bodies[1], "outage_hours,day=2025-07-02,queue=3.2 "), c.bodies[1])
}

func TestInfluxSink_RecordDaySummary(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	require.NoError(t, sink.RecordDaySummary(coremetrics.DaySummaryEvent{
		Day: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), TotalOffHours: 6, MeanOffHours: 0.5, MaxOffHours: 4.5, QueuesAffected: 2, Time: now,
	}))
	require.Len(t, c.bodies, 1)
	assert.True(t, strings.HasPrefix(c.bodies[0], "outage_day,day=2025-07-02 "), c.bodies[0])
	for _, f := range []string{"total_off_hours=6", "mean_off_hours=0.5", "max_off_hours=4.5", "queues_affected=2i"} {
		assert.Contains(t, c.bodies[0], f)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}
