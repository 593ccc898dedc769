package allocation

import (
	"testing"

	"github.com/acadops/secondmark/core/metrics"
	"github.com/acadops/secondmark/core/model"
	"gonum.org/v1/gonum/mat"
)

func simMatrix(rows, cols int, vals ...float64) *mat.Dense {
	return mat.NewDense(rows, cols, vals)
}

func TestEngine_PreservesProjectOrder(t *testing.T) {
	projects := []model.Project{
		{Supervisor: "s1", Keywords: "nlp"},
		{Supervisor: "s2", Keywords: "vision"},
		{Supervisor: "s3", Keywords: "security"},
	}
	assessors := []model.Assessor{
		{Username: "a1", Capacity: 3},
		{Username: "a2", Capacity: 3},
	}
	sim := simMatrix(3, 2,
		0.9, 0.1,
		0.1, 0.9,
		0.5, 0.5,
	)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	if len(res.Assignments) != len(projects) {
		t.Fatalf("expected %d assignments, got %d", len(projects), len(res.Assignments))
	}
	for i, a := range res.Assignments {
		if a.Project.Supervisor != projects[i].Supervisor {
			t.Fatalf("row %d out of order: %s", i, a.Project.Supervisor)
		}
	}
}

func TestEngine_NeverAssignsOwnSupervisor(t *testing.T) {
	projects := []model.Project{{Supervisor: "alice", Keywords: "nlp"}}
	assessors := []model.Assessor{
		{Username: "alice", MergedKeywords: "nlp", Capacity: 5},
		{Username: "bob", MergedKeywords: "databases", Capacity: 5},
	}
	// alice is the perfect topical match but owns the project.
	sim := simMatrix(1, 2, 1.0, 0.0)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	if got := res.Assignments[0].Assessor; got != "bob" {
		t.Fatalf("expected bob, got %s", got)
	}
}

func TestEngine_ZeroCapacityAssessorNeverChosen(t *testing.T) {
	projects := []model.Project{
		{Supervisor: "s1"}, {Supervisor: "s2"}, {Supervisor: "s3"},
	}
	assessors := []model.Assessor{
		{Username: "x", Capacity: 0}, // perfect match everywhere, no capacity
		{Username: "y", Capacity: 10},
	}
	sim := simMatrix(3, 2,
		1.0, 0.0,
		1.0, 0.0,
		1.0, 0.0,
	)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	for i, a := range res.Assignments {
		if a.Assessor == "x" {
			t.Fatalf("row %d assigned zero-capacity assessor", i)
		}
	}
	if res.Loads[0].Load != 0 {
		t.Fatalf("zero-capacity assessor reports load %d", res.Loads[0].Load)
	}
}

func TestEngine_CapacityExhaustionExcludes(t *testing.T) {
	// Y is top choice for three different-supervisor projects but has
	// capacity 2: the third project must go elsewhere.
	projects := []model.Project{
		{Supervisor: "s1"}, {Supervisor: "s2"}, {Supervisor: "s3"},
	}
	assessors := []model.Assessor{
		{Username: "y", Capacity: 2},
		{Username: "z", Capacity: 5},
	}
	sim := simMatrix(3, 2,
		1.0, 0.0,
		1.0, 0.0,
		1.0, 0.0,
	)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	if res.Assignments[0].Assessor != "y" || res.Assignments[1].Assessor != "y" {
		t.Fatalf("expected y for first two projects, got %s / %s",
			res.Assignments[0].Assessor, res.Assignments[1].Assessor)
	}
	if res.Assignments[2].Assessor != "z" {
		t.Fatalf("expected z once y is exhausted, got %s", res.Assignments[2].Assessor)
	}
	if res.Loads[0].Load != 2 || res.Loads[0].Remaining != 0 {
		t.Fatalf("y load report wrong: %+v", res.Loads[0])
	}
}

func TestEngine_OneAssessorPerSupervisorPair(t *testing.T) {
	// Same supervisor owns both projects: the second must get a
	// different assessor even though the first winner still has
	// capacity.
	projects := []model.Project{
		{Supervisor: "alice"}, {Supervisor: "alice"},
	}
	assessors := []model.Assessor{
		{Username: "bob", Capacity: 10},
		{Username: "carol", Capacity: 10},
	}
	sim := simMatrix(2, 2,
		1.0, 0.9,
		1.0, 0.9,
	)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	first, second := res.Assignments[0].Assessor, res.Assignments[1].Assessor
	if first == second {
		t.Fatalf("assessor %s assigned twice for the same supervisor", first)
	}
}

func TestEngine_TieBreakIsFirstInTableOrder(t *testing.T) {
	projects := []model.Project{{Supervisor: "s"}}
	assessors := []model.Assessor{
		{Username: "early", Capacity: 1},
		{Username: "late", Capacity: 1},
	}
	// Equal capacity, equal similarity: exact composite tie.
	sim := simMatrix(1, 2, 0.5, 0.5)
	for run := 0; run < 10; run++ {
		res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
		if got := res.Assignments[0].Assessor; got != "early" {
			t.Fatalf("run %d: tie broken to %s", run, got)
		}
	}
}

func TestEngine_UnallocatedWhenPoolIsOwnSupervisor(t *testing.T) {
	projects := []model.Project{{Supervisor: "solo", Keywords: "nlp"}}
	assessors := []model.Assessor{{Username: "solo", MergedKeywords: "nlp", Capacity: 5}}
	sim := simMatrix(1, 1, 1.0)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	a := res.Assignments[0]
	if a.Assessor != model.Unallocated {
		t.Fatalf("expected %s, got %s", model.Unallocated, a.Assessor)
	}
	if a.AssessorKeywords != "" || a.AssessorTypes != "" {
		t.Fatalf("unallocated row must have empty derived fields: %+v", a)
	}
	if a.Allocated() {
		t.Fatalf("Allocated() true for sentinel")
	}
}

func TestEngine_FairnessSpreadsLoad(t *testing.T) {
	// b is the better topical match for every project, but once b has
	// taken one, the fairness term must push the next same-similarity
	// project to the idle assessor.
	projects := []model.Project{
		{Supervisor: "s1"}, {Supervisor: "s2"},
	}
	assessors := []model.Assessor{
		{Username: "b", Capacity: 2},
		{Username: "c", Capacity: 2},
	}
	sim := simMatrix(2, 2,
		0.6, 0.5,
		0.6, 0.5,
	)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	if res.Assignments[0].Assessor != "b" {
		t.Fatalf("first project should go to the better match, got %s", res.Assignments[0].Assessor)
	}
	// b consumed: composite(b) = 0.55*0.5 + 0.45*0.6 = 0.545,
	// composite(c) = 0.55*1.0 + 0.45*0.5 = 0.775.
	if res.Assignments[1].Assessor != "c" {
		t.Fatalf("fairness should divert the second project to c, got %s", res.Assignments[1].Assessor)
	}
}

func TestEngine_FractionalCapacityAdmitsFinalAssignment(t *testing.T) {
	projects := []model.Project{
		{Supervisor: "s1"}, {Supervisor: "s2"}, {Supervisor: "s3"},
	}
	// 1.5 capacity: remaining goes 1.5 -> 0.5 -> -0.5, so exactly two
	// assignments fit.
	assessors := []model.Assessor{{Username: "f", Capacity: 1.5}}
	sim := simMatrix(3, 1, 0.9, 0.9, 0.9)
	res := NewEngine(nil, nil).Allocate(projects, assessors, sim)
	if res.Assignments[0].Assessor != "f" || res.Assignments[1].Assessor != "f" {
		t.Fatalf("expected f twice, got %s / %s",
			res.Assignments[0].Assessor, res.Assignments[1].Assessor)
	}
	if res.Assignments[2].Assessor != model.Unallocated {
		t.Fatalf("expected sentinel once fractional capacity ran out, got %s", res.Assignments[2].Assessor)
	}
	if res.Loads[0].Load != 2 || res.Loads[0].Remaining != -0.5 {
		t.Fatalf("load report wrong: %+v", res.Loads[0])
	}
}

func TestEngine_LoadNeverExceedsCapacity(t *testing.T) {
	projects := make([]model.Project, 20)
	for i := range projects {
		projects[i] = model.Project{Supervisor: "s" + string(rune('a'+i))}
	}
	assessors := []model.Assessor{
		{Username: "a1", Capacity: 3},
		{Username: "a2", Capacity: 2},
		{Username: "a3", Capacity: 0},
	}
	vals := make([]float64, len(projects)*len(assessors))
	for i := range vals {
		vals[i] = 0.5
	}
	res := NewEngine(nil, nil).Allocate(projects, assessors, simMatrix(len(projects), len(assessors), vals...))
	for _, l := range res.Loads {
		if float64(l.Load) > l.Capacity {
			t.Fatalf("assessor %s over capacity: %+v", l.Username, l)
		}
	}
}

func TestEngine_RecordsMetrics(t *testing.T) {
	sink := &recordingSink{}
	projects := []model.Project{{Supervisor: "s1"}, {Supervisor: "solo"}}
	assessors := []model.Assessor{{Username: "solo", Capacity: 1}}
	sim := simMatrix(2, 1, 0.4, 0.9)
	NewEngine(nil, sink).Allocate(projects, assessors, sim)
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	if !sink.events[0].Allocated || sink.events[1].Allocated {
		t.Fatalf("event outcomes wrong: %+v", sink.events)
	}
	if len(sink.summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(sink.summaries))
	}
	s := sink.summaries[0]
	if s.Projects != 2 || s.Allocated != 1 || s.Unallocated != 1 {
		t.Fatalf("summary wrong: %+v", s)
	}
}

type recordingSink struct {
	events    []metrics.AssignmentEvent
	summaries []metrics.RunSummary
}

func (r *recordingSink) RecordAssignments(ev []metrics.AssignmentEvent) error {
	r.events = append(r.events, ev...)
	return nil
}

func (r *recordingSink) RecordRunSummary(s metrics.RunSummary) error {
	r.summaries = append(r.summaries, s)
	return nil
}
