// Package profile aggregates per-project tag strings into one merged
// profile per supervisor. The merged profiles double as assessor profiles
// when the supervisor pool is used for second marking.
package profile

import (
	"sort"
	"strings"

	"github.com/acadops/secondmark/core/model"
)

// MergeUnique takes comma-separated tag lists and returns a single
// comma-joined string of the unique tokens, sorted for determinism. Tokens
// are trimmed; empty tokens are dropped.
func MergeUnique(values []string) string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			tok := strings.TrimSpace(part)
			if tok == "" {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ", ")
}

// RawProject is one row of the raw project table before aggregation.
type RawProject struct {
	Supervisor string
	Keywords   string
	Type       string
}

// SupervisorProfile is the aggregated view of one supervisor's projects.
type SupervisorProfile struct {
	Username       string
	Projects       int
	MergedKeywords string
	MergedTypes    string
}

// BuildSupervisorProfiles groups raw projects by supervisor username and
// merges their tags. Output is sorted by username.
func BuildSupervisorProfiles(rows []RawProject) []SupervisorProfile {
	byUser := make(map[string][]RawProject)
	for _, r := range rows {
		u := model.NormalizeUsername(r.Supervisor)
		if u == "" {
			continue
		}
		byUser[u] = append(byUser[u], r)
	}
	users := make([]string, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Strings(users)

	out := make([]SupervisorProfile, 0, len(users))
	for _, u := range users {
		group := byUser[u]
		keywords := make([]string, 0, len(group))
		types := make([]string, 0, len(group))
		for _, r := range group {
			keywords = append(keywords, r.Keywords)
			types = append(types, r.Type)
		}
		out = append(out, SupervisorProfile{
			Username:       u,
			Projects:       len(group),
			MergedKeywords: MergeUnique(keywords),
			MergedTypes:    MergeUnique(types),
		})
	}
	return out
}
