package metrics

import (
	"strconv"

	coremetrics "github.com/acadops/secondmark/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records allocation outcomes in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	composite   prometheus.Histogram
	unallocated prometheus.Gauge
	duration    prometheus.Gauge
}

// NewPromSink registers allocation metrics on the default Prometheus
// registerer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_assignments_total",
		Help: "Total number of project allocation outcomes",
	}, []string{"allocated"})
	composite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_composite_score",
		Help:    "Composite score of committed assignments",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
	unallocated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "allocation_unallocated_projects",
		Help: "Number of projects left unallocated in the last run",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "allocation_run_duration_seconds",
		Help: "Wall time of the last allocation run",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(composite); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			composite = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unallocated); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unallocated = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		assignments: assignments,
		composite:   composite,
		unallocated: unallocated,
		duration:    duration,
	}, nil
}

// RecordAssignments increments the outcome counter for each event and
// observes composite scores of committed assignments.
func (s *PromSink) RecordAssignments(events []coremetrics.AssignmentEvent) error {
	for _, ev := range events {
		s.assignments.WithLabelValues(strconv.FormatBool(ev.Allocated)).Inc()
		if ev.Allocated {
			s.composite.Observe(ev.Composite)
		}
	}
	return nil
}

// RecordRunSummary sets the run-level gauges.
func (s *PromSink) RecordRunSummary(sum coremetrics.RunSummary) error {
	s.unallocated.Set(float64(sum.Unallocated))
	s.duration.Set(sum.Duration.Seconds())
	return nil
}
