package model

import "fmt"

// Assessor is a candidate second marker drawn from the supervisor pool.
type Assessor struct {
	Username       string  // normalized username
	MergedKeywords string  // de-duplicated, sorted keyword tags across the assessor's own projects
	MergedTypes    string  // de-duplicated, sorted type tags across the assessor's own projects
	Capacity       float64 // maximum second-marking load, may be fractional
}

// ProfileText returns the text used to vectorize the assessor.
func (a Assessor) ProfileText() string {
	return a.MergedKeywords + " " + a.MergedTypes
}

// Validate checks that the assessor record is sound. Capacity zero is legal
// and means the assessor is permanently ineligible.
func (a Assessor) Validate() error {
	if a.Username == "" {
		return fmt.Errorf("assessor username is required")
	}
	if a.Capacity < 0 {
		return fmt.Errorf("assessor %s has negative capacity %v", a.Username, a.Capacity)
	}
	return nil
}

// AssessorLoad is one row of the post-run load report: how much of each
// assessor's capacity the run consumed.
type AssessorLoad struct {
	Username  string  `json:"username"`
	Capacity  float64 `json:"capacity"`  // initial capacity
	Load      int     `json:"load"`      // committed assignments this run
	Remaining float64 `json:"remaining"` // Capacity - Load
}
