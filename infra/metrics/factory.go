package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/svitlo/core/factory"
	coremetrics "github.com/kilianp07/svitlo/core/metrics"
)

// Sink type names accepted in metrics.sinks.
const (
	SinkNop        = "nop"
	SinkPrometheus = "prometheus"
	SinkInflux     = "influx"
)

// InfluxConfig holds the conf block of an influx sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

func decodeInflux(conf map[string]any) (InfluxConfig, error) {
	c := InfluxConfig{Bucket: "svitlo"}
	if err := factory.Decode(conf, &c); err != nil {
		return c, err
	}
	if c.URL == "" {
		return c, errors.New("influx sink: url is required")
	}
	return c, nil
}

func init() {
	coremetrics.MustRegisterMetricsSink(SinkNop, func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})
	// All prometheus sinks share the default registerer so /metrics sees them.
	coremetrics.MustRegisterMetricsSink(SinkPrometheus, func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(coremetrics.Config{}, prometheus.DefaultRegisterer)
	})
	coremetrics.MustRegisterMetricsSink(SinkInflux, func(conf map[string]any) (coremetrics.MetricsSink, error) {
		c, err := decodeInflux(conf)
		if err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
