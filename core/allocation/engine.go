// Package allocation assigns a second assessor to each project with a
// single sequential greedy pass. Candidates are ranked by a composite of
// workload fairness and topical similarity; capacity and pairing
// constraints are enforced before scoring, so infeasibility surfaces as
// the Unallocated sentinel rather than an error.
package allocation

import (
	"time"

	"github.com/acadops/secondmark/core/logger"
	"github.com/acadops/secondmark/core/metrics"
	"github.com/acadops/secondmark/core/model"
	"gonum.org/v1/gonum/mat"
)

// Fairness dominates topical match so load spreads across the pool
// instead of concentrating on the top matches.
const (
	fairnessWeight = 0.55
	matchWeight    = 0.45
)

// Engine runs the greedy allocation pass. Logger and sink are optional.
type Engine struct {
	logger  logger.Logger
	metrics metrics.Sink
}

// NewEngine creates an Engine. Either argument may be nil.
func NewEngine(log logger.Logger, sink metrics.Sink) *Engine {
	return &Engine{logger: log, metrics: sink}
}

// Result is the outcome of one allocation run.
type Result struct {
	Assignments []model.Assignment   // one per project, input order
	Loads       []model.AssessorLoad // per assessor, table order
}

// Allocate processes projects strictly in slice order against the assessor
// table and the project×assessor similarity matrix. Row i of sim scores
// project i; column j scores assessors[j]. The assessor table order is the
// tie-break order: on equal composite scores the earlier assessor wins.
func (e *Engine) Allocate(projects []model.Project, assessors []model.Assessor, sim *mat.Dense) Result {
	start := time.Now()
	ledger := NewLedger(assessors)

	// Assessors already marking one of this supervisor's projects.
	paired := make(map[string]map[string]struct{}, len(projects))

	assignments := make([]model.Assignment, 0, len(projects))
	events := make([]metrics.AssignmentEvent, 0, len(projects))
	unallocated := 0

	for i, p := range projects {
		chosen, composite, similarity := e.pickAssessor(i, p, assessors, sim, ledger, paired[p.Supervisor])

		if chosen == nil {
			unallocated++
			assignments = append(assignments, model.Assignment{
				Project:  p,
				Assessor: model.Unallocated,
			})
			events = append(events, metrics.AssignmentEvent{
				Supervisor: p.Supervisor,
				Assessor:   model.Unallocated,
				Time:       time.Now(),
			})
			if e.logger != nil {
				e.logger.Warnf("no eligible assessor for project %d (supervisor %s)", i, p.Supervisor)
			}
			continue
		}

		if err := ledger.Commit(chosen.Username); err != nil {
			// Unreachable: pickAssessor only returns eligible
			// candidates. Keep the row consistent anyway.
			if e.logger != nil {
				e.logger.Errorf("commit %s: %v", chosen.Username, err)
			}
			assignments = append(assignments, model.Assignment{Project: p, Assessor: model.Unallocated})
			continue
		}
		if paired[p.Supervisor] == nil {
			paired[p.Supervisor] = make(map[string]struct{})
		}
		paired[p.Supervisor][chosen.Username] = struct{}{}

		assignments = append(assignments, model.Assignment{
			Project:          p,
			Assessor:         chosen.Username,
			AssessorKeywords: chosen.MergedKeywords,
			AssessorTypes:    chosen.MergedTypes,
			Composite:        composite,
			Similarity:       similarity,
		})
		events = append(events, metrics.AssignmentEvent{
			Supervisor: p.Supervisor,
			Assessor:   chosen.Username,
			Allocated:  true,
			Composite:  composite,
			Similarity: similarity,
			Time:       time.Now(),
		})
		if e.logger != nil {
			e.logger.Debugw("assigned", map[string]any{
				"supervisor": p.Supervisor,
				"assessor":   chosen.Username,
				"composite":  composite,
				"similarity": similarity,
				"remaining":  ledger.Remaining(chosen.Username),
			})
		}
	}

	e.record(events, metrics.RunSummary{
		Projects:    len(projects),
		Allocated:   len(projects) - unallocated,
		Unallocated: unallocated,
		Assessors:   len(assessors),
		Duration:    time.Since(start),
	})

	return Result{Assignments: assignments, Loads: ledger.Loads(assessors)}
}

// pickAssessor scans the assessor table in order and returns the first
// candidate achieving the strictly highest composite score, or nil when no
// candidate is eligible.
func (e *Engine) pickAssessor(row int, p model.Project, assessors []model.Assessor, sim *mat.Dense, ledger *Ledger, excluded map[string]struct{}) (*model.Assessor, float64, float64) {
	var (
		best     *model.Assessor
		bestComp float64
		bestSim  float64
	)
	for j := range assessors {
		a := &assessors[j]
		if a.Username == p.Supervisor {
			continue
		}
		if _, taken := excluded[a.Username]; taken {
			continue
		}
		if !ledger.Eligible(a.Username) {
			continue
		}
		simScore := sim.At(row, j)
		fairness := 1 - ledger.LoadRatio(a.Username)
		composite := fairnessWeight*fairness + matchWeight*simScore
		if best == nil || composite > bestComp {
			best = a
			bestComp = composite
			bestSim = simScore
		}
	}
	return best, bestComp, bestSim
}

func (e *Engine) record(events []metrics.AssignmentEvent, sum metrics.RunSummary) {
	if e.metrics == nil {
		return
	}
	if err := e.metrics.RecordAssignments(events); err != nil && e.logger != nil {
		e.logger.Errorf("record assignments: %v", err)
	}
	if rec, ok := e.metrics.(metrics.RunRecorder); ok {
		if err := rec.RecordRunSummary(sum); err != nil && e.logger != nil {
			e.logger.Errorf("record run summary: %v", err)
		}
	}
}
