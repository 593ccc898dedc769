// Package export writes allocation results as CSV or JSON tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/acadops/secondmark/core/model"
	"github.com/acadops/secondmark/core/profile"
)

// WriteAssignmentsJSON writes the augmented project table to w as JSON.
func WriteAssignmentsJSON(w io.Writer, assignments []model.Assignment) error {
	enc := json.NewEncoder(w)
	return enc.Encode(assignments)
}

// WriteAssignmentsCSV writes one row per project, in allocation order, with
// the assigned assessor and both sides' profile tags.
func WriteAssignmentsCSV(w io.Writer, assignments []model.Assignment) error {
	cw := csv.NewWriter(w)
	head := []string{
		"username", "keywords_project", "types_project",
		"second_supervisor", "second_supervisor_keywords", "second_supervisor_types",
		"project_keywords", "project_types",
	}
	if err := cw.Write(head); err != nil {
		return err
	}
	for _, a := range assignments {
		rec := []string{
			a.Project.Supervisor,
			a.Project.Keywords,
			a.Project.Types,
			a.Assessor,
			a.AssessorKeywords,
			a.AssessorTypes,
			a.Project.Keywords,
			a.Project.Types,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLoadsJSON writes the per-assessor load report to w as JSON.
func WriteLoadsJSON(w io.Writer, loads []model.AssessorLoad) error {
	enc := json.NewEncoder(w)
	return enc.Encode(loads)
}

// WriteLoadsCSV writes the per-assessor load report: initial capacity, how
// many second markings the run committed, and what remains.
func WriteLoadsCSV(w io.Writer, loads []model.AssessorLoad) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"username", "max_second_mark", "second_marking_load", "remaining_capacity"}); err != nil {
		return err
	}
	for _, l := range loads {
		rec := []string{
			l.Username,
			strconv.FormatFloat(l.Capacity, 'f', -1, 64),
			strconv.Itoa(l.Load),
			strconv.FormatFloat(l.Remaining, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSupervisorSetCSV writes the aggregated supervisor profile table
// produced by the profile builder.
func WriteSupervisorSetCSV(w io.Writer, profiles []profile.SupervisorProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"username", "n_projects", "merged_keywords", "merged_types"}); err != nil {
		return err
	}
	for _, p := range profiles {
		rec := []string{
			p.Username,
			strconv.Itoa(p.Projects),
			p.MergedKeywords,
			p.MergedTypes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
