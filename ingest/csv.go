// Package ingest loads the tabular inputs of an allocation run: the
// project list, the merged supervisor profiles and the capacity sheet.
// Usernames are normalized (trimmed, lowercased) here so every later
// comparison and lookup can assume canonical form.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/acadops/secondmark/core/model"
	"github.com/acadops/secondmark/core/profile"
)

// Column names, matched case-insensitively against trimmed headers.
const (
	colUsername       = "username"
	colKeywords       = "keywords_project"
	colTypes          = "types_project"
	colMergedKeywords = "merged_keywords"
	colMergedTypes    = "merged_types"
	colTotProjects    = "tot.projects"
	colDifference     = "difference (can be used for extra 2nd marking)"
	colRawSupervisor  = "primary_supervisor"
	colRawKeywords    = "keywords"
	colRawType        = "type"
)

type header map[string]int

func indexHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

// cell returns the trimmed-header column value, or "" when the column is
// absent or the row is short.
func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (h header) require(names ...string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("missing required column %q", n)
		}
	}
	return nil
}

// parseNumber parses a float, treating the empty string as 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", s, err)
	}
	return v, nil
}

func readAll(r io.Reader) (header, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty table")
	}
	return indexHeader(rows[0]), rows[1:], nil
}

// LoadProjects reads the project table. Keyword and type tags may be
// missing; they load as empty strings.
func LoadProjects(r io.Reader) ([]model.Project, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	if err := h.require(colUsername); err != nil {
		return nil, fmt.Errorf("projects: %w", err)
	}
	out := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Project{
			Supervisor: model.NormalizeUsername(h.cell(row, colUsername)),
			Keywords:   h.cell(row, colKeywords),
			Types:      h.cell(row, colTypes),
		})
	}
	return out, nil
}

// SupervisorRecord is one row of the merged supervisor profile table.
type SupervisorRecord struct {
	Username       string
	MergedKeywords string
	MergedTypes    string
}

// LoadSupervisorSet reads the merged per-supervisor profile table.
func LoadSupervisorSet(r io.Reader) ([]SupervisorRecord, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("supervisor set: %w", err)
	}
	if err := h.require(colUsername); err != nil {
		return nil, fmt.Errorf("supervisor set: %w", err)
	}
	out := make([]SupervisorRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, SupervisorRecord{
			Username:       model.NormalizeUsername(h.cell(row, colUsername)),
			MergedKeywords: h.cell(row, colMergedKeywords),
			MergedTypes:    h.cell(row, colMergedTypes),
		})
	}
	return out, nil
}

// LoadCapacities reads the capacity sheet and derives the maximum
// second-marking load per username: project count plus the signed
// adjustment, missing values as 0.
func LoadCapacities(r io.Reader) (map[string]float64, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("capacity: %w", err)
	}
	if err := h.require(colUsername); err != nil {
		return nil, fmt.Errorf("capacity: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		tot, err := parseNumber(h.cell(row, colTotProjects))
		if err != nil {
			return nil, fmt.Errorf("capacity: %w", err)
		}
		diff, err := parseNumber(h.cell(row, colDifference))
		if err != nil {
			return nil, fmt.Errorf("capacity: %w", err)
		}
		out[model.NormalizeUsername(h.cell(row, colUsername))] = tot + diff
	}
	return out, nil
}

// BuildAssessorTable joins supervisor profiles with derived capacities.
// Supervisors absent from the capacity sheet get capacity 0 and are thus
// permanently ineligible; negative derived capacities floor at 0.
func BuildAssessorTable(profiles []SupervisorRecord, capacities map[string]float64) []model.Assessor {
	out := make([]model.Assessor, 0, len(profiles))
	for _, p := range profiles {
		cap := capacities[p.Username]
		if cap < 0 {
			cap = 0
		}
		out = append(out, model.Assessor{
			Username:       p.Username,
			MergedKeywords: p.MergedKeywords,
			MergedTypes:    p.MergedTypes,
			Capacity:       cap,
		})
	}
	return out
}

// LoadRawProjects reads the unaggregated project table consumed by the
// profile builder.
func LoadRawProjects(r io.Reader) ([]profile.RawProject, error) {
	h, rows, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("raw projects: %w", err)
	}
	if err := h.require(colRawSupervisor); err != nil {
		return nil, fmt.Errorf("raw projects: %w", err)
	}
	out := make([]profile.RawProject, 0, len(rows))
	for _, row := range rows {
		out = append(out, profile.RawProject{
			Supervisor: h.cell(row, colRawSupervisor),
			Keywords:   h.cell(row, colRawKeywords),
			Type:       h.cell(row, colRawType),
		})
	}
	return out, nil
}

// LoadProjectsFile, LoadSupervisorSetFile and LoadCapacitiesFile are
// path-based conveniences over the reader variants.
func LoadProjectsFile(path string) ([]model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadProjects(f)
}

func LoadSupervisorSetFile(path string) ([]SupervisorRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadSupervisorSet(f)
}

func LoadCapacitiesFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadCapacities(f)
}

func LoadRawProjectsFile(path string) ([]profile.RawProject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadRawProjects(f)
}
