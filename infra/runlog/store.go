// Package runlog persists the outcome of allocation runs so they can be
// inspected after the fact.
package runlog

import (
	"context"
	"time"

	"github.com/acadops/secondmark/core/model"
	"github.com/google/uuid"
)

// RunRecord captures one complete allocation run.
type RunRecord struct {
	RunID       string               `json:"run_id"`
	Timestamp   time.Time            `json:"timestamp"`
	Assignments []model.Assignment   `json:"assignments"`
	Loads       []model.AssessorLoad `json:"loads"`
}

// NewRunRecord stamps a fresh record with a unique run ID.
func NewRunRecord(assignments []model.Assignment, loads []model.AssessorLoad) RunRecord {
	return RunRecord{
		RunID:       uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Assignments: assignments,
		Loads:       loads,
	}
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	Start time.Time
	End   time.Time
	RunID string
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

func (q RunQuery) matches(r RunRecord) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return true
}
