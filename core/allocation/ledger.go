package allocation

import (
	"fmt"

	"github.com/acadops/secondmark/core/model"
)

// Ledger tracks initial and remaining second-marking capacity per assessor
// for the duration of one allocation run. Remaining capacity only ever
// moves down, by exactly one per committed assignment, and a commit
// requires remaining > 0. Capacities may be fractional; decrements are
// always whole.
type Ledger struct {
	initial   map[string]float64
	committed map[string]int
}

// NewLedger builds a ledger from the assessor table.
func NewLedger(assessors []model.Assessor) *Ledger {
	l := &Ledger{
		initial:   make(map[string]float64, len(assessors)),
		committed: make(map[string]int, len(assessors)),
	}
	for _, a := range assessors {
		l.initial[a.Username] = a.Capacity
	}
	return l
}

// Initial returns the assessor's starting capacity, 0 for unknown
// usernames.
func (l *Ledger) Initial(username string) float64 {
	return l.initial[username]
}

// Remaining returns the assessor's unconsumed capacity. Capacity may be
// fractional, so a remainder like 0.5 still admits one more assignment.
func (l *Ledger) Remaining(username string) float64 {
	return l.initial[username] - float64(l.committed[username])
}

// Load returns the number of assignments committed to the assessor.
func (l *Ledger) Load(username string) int {
	return l.committed[username]
}

// Eligible reports whether the assessor can take one more assignment.
// Assessors with zero initial capacity are permanently ineligible.
func (l *Ledger) Eligible(username string) bool {
	return l.initial[username] > 0 && l.Remaining(username) > 0
}

// LoadRatio returns the fraction of the assessor's capacity already
// consumed. Only meaningful for assessors with non-zero initial capacity;
// Eligible filters the rest out before scoring.
func (l *Ledger) LoadRatio(username string) float64 {
	init := l.initial[username]
	if init == 0 {
		return 1
	}
	return float64(l.committed[username]) / init
}

// Commit consumes one unit of the assessor's capacity.
func (l *Ledger) Commit(username string) error {
	if l.Remaining(username) <= 0 {
		return fmt.Errorf("assessor %s has no remaining capacity", username)
	}
	l.committed[username]++
	return nil
}

// Loads derives the final per-assessor load report, one row per assessor
// in the given table order. Assessors never assigned report load 0.
func (l *Ledger) Loads(assessors []model.Assessor) []model.AssessorLoad {
	out := make([]model.AssessorLoad, len(assessors))
	for i, a := range assessors {
		out[i] = model.AssessorLoad{
			Username:  a.Username,
			Capacity:  l.initial[a.Username],
			Load:      l.committed[a.Username],
			Remaining: l.Remaining(a.Username),
		}
	}
	return out
}
