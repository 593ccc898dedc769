package metrics

import "time"

// AssignmentEvent represents one per-project allocation outcome to be
// recorded.
type AssignmentEvent struct {
	Supervisor string
	Assessor   string // Unallocated sentinel when no candidate existed
	Allocated  bool
	Composite  float64
	Similarity float64
	Time       time.Time
}

// RunSummary aggregates a whole allocation run.
type RunSummary struct {
	Projects    int
	Allocated   int
	Unallocated int
	Assessors   int
	Duration    time.Duration
}

// Sink records allocation outcomes for observability purposes.
type Sink interface {
	RecordAssignments(events []AssignmentEvent) error
}

// RunRecorder records run-level summaries. Sinks that care implement it in
// addition to Sink.
type RunRecorder interface {
	RecordRunSummary(s RunSummary) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentEvent) error { return nil }
func (NopSink) RecordRunSummary(RunSummary) error         { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
