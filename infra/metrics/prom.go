package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/svitlo/core/metrics"
)

// PromSink records pipeline activity in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
	lastRun   prometheus.Gauge
	intervals *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	artifacts *prometheus.CounterVec
	offHours  *prometheus.GaugeVec
	dayHours  *prometheus.GaugeVec
	affected  *prometheus.GaugeVec
}

// NewPromSink registers pipeline metrics on the default Prometheus registerer.
// The /metrics endpoint is served by Handler.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an already registered collector of the same
// description so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	_ = cfg
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlo_runs_total",
		Help: "Pipeline runs by outcome and whether the schedule content changed",
	}, []string{"ok", "changed"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "svitlo_run_duration_seconds",
		Help:    "Wall time of one pipeline run",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if s.lastRun, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "svitlo_last_run_timestamp_seconds",
		Help: "Unix time of the last finished run",
	})); err != nil {
		return nil, err
	}
	if s.intervals, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlo_intervals_total",
		Help: "Outage intervals seen by the day selector",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if s.fetches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlo_queue_fetch_total",
		Help: "Upstream queue fetches by result",
	}, []string{"source", "queue", "ok"})); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "svitlo_queue_fetch_seconds",
		Help:    "Latency of one upstream queue fetch",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})); err != nil {
		return nil, err
	}
	if s.artifacts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "svitlo_artifact_decisions_total",
		Help: "Change-detection decisions per artifact format",
	}, []string{"format", "decision", "reason"})); err != nil {
		return nil, err
	}
	if s.offHours, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "svitlo_outage_hours",
		Help: "Scheduled hours without power per queue and day",
	}, []string{"queue", "day"})); err != nil {
		return nil, err
	}
	if s.dayHours, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "svitlo_day_outage_hours",
		Help: "Outage hours of one day across all queues, by statistic (total, mean, max)",
	}, []string{"day", "stat"})); err != nil {
		return nil, err
	}
	if s.affected, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "svitlo_queues_affected",
		Help: "Queues with at least one outage slot on a day",
	}, []string{"day"})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordRun counts the run and its interval totals.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(strconv.FormatBool(ev.Err == ""), strconv.FormatBool(ev.ContentChanged)).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	s.lastRun.Set(float64(ev.Time.Unix()))
	s.intervals.WithLabelValues("kept").Add(float64(ev.KeptIntervals))
	s.intervals.WithLabelValues("dropped").Add(float64(ev.DroppedIntervals))
	return nil
}

// RecordFetch counts one queue fetch.
func (s *PromSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.fetches.WithLabelValues(ev.Source, ev.Queue, strconv.FormatBool(ev.OK)).Inc()
	if ev.Latency > 0 {
		s.latency.WithLabelValues(ev.Source).Observe(ev.Latency.Seconds())
	}
	return nil
}

// RecordArtifact counts one gate decision.
func (s *PromSink) RecordArtifact(ev coremetrics.ArtifactEvent) error {
	s.artifacts.WithLabelValues(ev.Format, ev.Decision, ev.Reason).Inc()
	return nil
}

// RecordOutage sets the off hours gauge. Days are labelled by calendar date.
func (s *PromSink) RecordOutage(ev coremetrics.OutageEvent) error {
	s.offHours.WithLabelValues(ev.Queue, ev.Day.Format("2006-01-02")).Set(ev.OffHours)
	return nil
}

// RecordDaySummary sets the day gauges.
func (s *PromSink) RecordDaySummary(ev coremetrics.DaySummaryEvent) error {
	day := ev.Day.Format("2006-01-02")
	s.dayHours.WithLabelValues(day, "total").Set(ev.TotalOffHours)
	s.dayHours.WithLabelValues(day, "mean").Set(ev.MeanOffHours)
	s.dayHours.WithLabelValues(day, "max").Set(ev.MaxOffHours)
	s.affected.WithLabelValues(day).Set(float64(ev.QueuesAffected))
	return nil
}
