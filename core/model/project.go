package model

import "strings"

// Unallocated is the sentinel assessor username emitted when no eligible
// candidate exists for a project. It is a valid terminal outcome, not an
// error.
const Unallocated = "UNALLOCATED"

// Project represents one student project awaiting a second assessor. The
// supervisor username is not unique across projects: a supervisor may own
// several of them.
type Project struct {
	Supervisor string `json:"supervisor"` // primary supervisor username, normalized
	Keywords   string `json:"keywords"`   // free-text keyword tags, possibly empty
	Types      string `json:"types"`      // free-text project-type tags, possibly empty
}

// ProfileText returns the text used to vectorize the project: keywords and
// types joined by a single space. Empty fields contribute nothing but the
// separator, which the tokenizer discards.
func (p Project) ProfileText() string {
	return p.Keywords + " " + p.Types
}

// Assignment is the allocation outcome for a single project. Assessor holds
// either a normalized assessor username or the Unallocated sentinel, in
// which case the derived profile fields are empty.
type Assignment struct {
	Project          Project `json:"project"`
	Assessor         string  `json:"assessor"`
	AssessorKeywords string  `json:"assessor_keywords"`
	AssessorTypes    string  `json:"assessor_types"`
	Composite        float64 `json:"composite"`  // winning composite score, 0 when unallocated
	Similarity       float64 `json:"similarity"` // winning similarity score, 0 when unallocated
}

// Allocated reports whether the project received a second assessor.
func (a Assignment) Allocated() bool {
	return a.Assessor != Unallocated
}

// NormalizeUsername trims surrounding whitespace and lowercases a username.
// All username comparison and lookup assumes inputs went through this at
// ingestion.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
