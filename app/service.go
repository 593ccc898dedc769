package app

import (
	"context"
	"fmt"
	"os"

	"github.com/acadops/secondmark/config"
	"github.com/acadops/secondmark/core/allocation"
	coremetrics "github.com/acadops/secondmark/core/metrics"
	"github.com/acadops/secondmark/core/model"
	"github.com/acadops/secondmark/core/textsim"
	"github.com/acadops/secondmark/infra/logger"
	"github.com/acadops/secondmark/infra/metrics"
	"github.com/acadops/secondmark/infra/runlog"
	"github.com/acadops/secondmark/ingest"
	"github.com/acadops/secondmark/pkg/export"
)

// Service wires the full allocation pipeline: ingestion, similarity
// scoring, the greedy allocation pass, exports and run persistence.
type Service struct {
	cfg   *config.Config
	log   logger.Logger
	sink  coremetrics.Sink
	store runlog.Store
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var store runlog.Store
	if cfg.RunLog.Enabled {
		var err error
		switch cfg.RunLog.Backend {
		case "sqlite":
			store, err = runlog.NewSQLiteStore(cfg.RunLog.Path)
		default:
			store, err = runlog.NewJSONLStore(cfg.RunLog.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("runlog store: %w", err)
		}
	}

	return &Service{cfg: cfg, log: logg, sink: sink, store: store}, nil
}

// Run executes one allocation pass end to end and writes the outputs.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			addr := ":" + s.cfg.Metrics.PrometheusPort
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	s.log.Infof("loading %s, %s, %s", s.cfg.Input.Projects, s.cfg.Input.SupervisorSet, s.cfg.Input.Capacity)
	projects, err := ingest.LoadProjectsFile(s.cfg.Input.Projects)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	set, err := ingest.LoadSupervisorSetFile(s.cfg.Input.SupervisorSet)
	if err != nil {
		return fmt.Errorf("load supervisor set: %w", err)
	}
	capacities, err := ingest.LoadCapacitiesFile(s.cfg.Input.Capacity)
	if err != nil {
		return fmt.Errorf("load capacities: %w", err)
	}
	assessors := ingest.BuildAssessorTable(set, capacities)

	s.log.Infof("scoring %d projects against %d assessors", len(projects), len(assessors))
	sim := textsim.Matrix(profileTexts(projects), assessorTexts(assessors))

	engine := allocation.NewEngine(s.log, s.sink)
	res := engine.Allocate(projects, assessors, sim)

	if err := s.writeOutputs(res); err != nil {
		return err
	}

	if s.store != nil {
		rec := runlog.NewRunRecord(res.Assignments, res.Loads)
		if err := s.store.Append(ctx, rec); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
		s.log.Infof("run %s persisted", rec.RunID)
	}

	allocated := 0
	for _, a := range res.Assignments {
		if a.Allocated() {
			allocated++
		}
	}
	s.log.Infof("allocated %d/%d projects", allocated, len(res.Assignments))
	return nil
}

func (s *Service) writeOutputs(res allocation.Result) error {
	if err := writeFile(s.cfg.Output.Assignments, func(f *os.File) error {
		if s.cfg.Output.Format == "json" {
			return export.WriteAssignmentsJSON(f, res.Assignments)
		}
		return export.WriteAssignmentsCSV(f, res.Assignments)
	}); err != nil {
		return fmt.Errorf("write assignments: %w", err)
	}
	if err := writeFile(s.cfg.Output.Capacity, func(f *os.File) error {
		if s.cfg.Output.Format == "json" {
			return export.WriteLoadsJSON(f, res.Loads)
		}
		return export.WriteLoadsCSV(f, res.Loads)
	}); err != nil {
		return fmt.Errorf("write capacity report: %w", err)
	}
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close releases the run store if one is configured.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func profileTexts(projects []model.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ProfileText()
	}
	return out
}

func assessorTexts(assessors []model.Assessor) []string {
	out := make([]string, len(assessors))
	for i, a := range assessors {
		out[i] = a.ProfileText()
	}
	return out
}
