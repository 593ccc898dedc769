package metrics

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignments forwards the events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignments(events []AssignmentEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordRunSummary forwards the summary to sinks implementing RunRecorder.
func (m *MultiSink) RecordRunSummary(sum RunSummary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RunRecorder); ok {
			if err := rec.RecordRunSummary(sum); err != nil {
				return err
			}
		}
	}
	return nil
}
