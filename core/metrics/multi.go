package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFetch forwards fetch events to sinks that record them.
func (m *MultiSink) RecordFetch(ev FetchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FetchRecorder); ok {
			if err := rec.RecordFetch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordArtifact forwards artifact decisions.
func (m *MultiSink) RecordArtifact(ev ArtifactEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ArtifactRecorder); ok {
			if err := rec.RecordArtifact(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordOutage forwards outage volumes.
func (m *MultiSink) RecordOutage(ev OutageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(OutageRecorder); ok {
			if err := rec.RecordOutage(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDaySummary forwards day totals.
func (m *MultiSink) RecordDaySummary(ev DaySummaryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DaySummaryRecorder); ok {
			if err := rec.RecordDaySummary(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
