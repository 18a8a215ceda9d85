package metrics

import (
	"fmt"

	"github.com/kilianp07/svitlo/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// MustRegisterMetricsSink is RegisterMetricsSink for init functions.
func MustRegisterMetricsSink(name string, f factory.Factory[MetricsSink]) {
	sinkRegistry.MustRegister(name, f)
}

// SinkNames lists the registered sink types.
func SinkNames() []string {
	return sinkRegistry.Names()
}

// NewMetricsSink builds the sinks named in cfgs. Nop entries are dropped
// when other sinks are configured; a single remaining sink is returned as is.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	sinks := make([]MetricsSink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("metrics sink %d: %w", i, err)
		}
		if _, nop := s.(NopSink); nop {
			continue
		}
		sinks = append(sinks, s)
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
