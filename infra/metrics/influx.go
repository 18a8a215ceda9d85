package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/svitlo/core/metrics"
	"github.com/kilianp07/svitlo/infra/logger"
)

// InfluxSink writes pipeline events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// write sends p with its tags sorted by key.
func (s *InfluxSink) write(p *write.Point) error {
	p.SortTags()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRun writes one pipeline_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	p := write.NewPointWithMeasurement("pipeline_run").
		AddTag("run_id", ev.RunID).
		AddTag("ok", strconv.FormatBool(ev.Err == "")).
		AddTag("changed", strconv.FormatBool(ev.ContentChanged)).
		AddField("duration_ms", round3(float64(ev.Duration.Microseconds())/1000)).
		AddField("fetched_queues", ev.FetchedQueues).
		AddField("failed_queues", ev.FailedQueues).
		AddField("kept_intervals", ev.KeptIntervals).
		AddField("dropped_intervals", ev.DroppedIntervals).
		AddField("checked", ev.Checked).
		AddField("skipped", ev.Skipped).
		AddField("generated", ev.Generated)
	if ev.Err != "" {
		p = p.AddField("error", ev.Err)
	}
	return s.write(p.SetTime(ev.Time))
}

// RecordFetch writes one queue_fetch point.
func (s *InfluxSink) RecordFetch(ev coremetrics.FetchEvent) error {
	p := write.NewPointWithMeasurement("queue_fetch").
		AddTag("source", ev.Source).
		AddTag("queue", ev.Queue).
		AddTag("ok", strconv.FormatBool(ev.OK)).
		AddField("intervals", ev.Intervals).
		AddField("latency_ms", round3(float64(ev.Latency.Microseconds())/1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordArtifact writes one artifact_decision point.
func (s *InfluxSink) RecordArtifact(ev coremetrics.ArtifactEvent) error {
	p := write.NewPointWithMeasurement("artifact_decision").
		AddTag("artifact", ev.Artifact).
		AddTag("format", ev.Format).
		AddTag("decision", ev.Decision).
		AddField("reason", ev.Reason).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordOutage writes the off hours of a queue for one day.
func (s *InfluxSink) RecordOutage(ev coremetrics.OutageEvent) error {
	p := write.NewPointWithMeasurement("outage_hours").
		AddTag("queue", ev.Queue).
		AddTag("day", ev.Day.Format("2006-01-02")).
		AddField("off_hours", round3(ev.OffHours)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordDaySummary writes the outage totals of one day across all queues.
func (s *InfluxSink) RecordDaySummary(ev coremetrics.DaySummaryEvent) error {
	p := write.NewPointWithMeasurement("outage_day").
		AddTag("day", ev.Day.Format("2006-01-02")).
		AddField("total_off_hours", round3(ev.TotalOffHours)).
		AddField("mean_off_hours", round3(ev.MeanOffHours)).
		AddField("max_off_hours", round3(ev.MaxOffHours)).
		AddField("queues_affected", ev.QueuesAffected).
		SetTime(ev.Time)
	return s.write(p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
