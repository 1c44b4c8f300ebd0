package metrics

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(res RunResult) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordRun(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordPlacement forwards to sinks implementing PlacementRecorder.
func (m *MultiSink) RecordPlacement(ev PlacementEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(PlacementRecorder); ok {
			if err := r.RecordPlacement(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// RecordRelocation forwards to sinks implementing RelocationRecorder.
func (m *MultiSink) RecordRelocation(ev RelocationEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(RelocationRecorder); ok {
			if err := r.RecordRelocation(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// RecordOverflow forwards to sinks implementing OverflowRecorder.
func (m *MultiSink) RecordOverflow(ev OverflowEvent) error {
	var first error
	for _, s := range m.Sinks {
		if r, ok := s.(OverflowRecorder); ok {
			if err := r.RecordOverflow(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
