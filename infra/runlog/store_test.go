package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/acadops/secondmark/core/model"
	"github.com/stretchr/testify/require"
)

func sampleRecord(runID string, ts time.Time) RunRecord {
	return RunRecord{
		RunID:     runID,
		Timestamp: ts,
		Assignments: []model.Assignment{
			{
				Project:          model.Project{Supervisor: "alice", Keywords: "nlp"},
				Assessor:         "bob",
				AssessorKeywords: "nlp, parsing",
				Composite:        0.8,
				Similarity:       0.6,
			},
			{
				Project:  model.Project{Supervisor: "carol"},
				Assessor: model.Unallocated,
			},
		},
		Loads: []model.AssessorLoad{
			{Username: "bob", Capacity: 3, Load: 1, Remaining: 2},
		},
	}
}

func TestNewRunRecord_StampsIDAndTime(t *testing.T) {
	rec := NewRunRecord(nil, nil)
	require.NotEmpty(t, rec.RunID)
	require.WithinDuration(t, time.Now().UTC(), rec.Timestamp, time.Minute)
	other := NewRunRecord(nil, nil)
	require.NotEqual(t, rec.RunID, other.RunID)
}

func TestJSONLStore_AppendAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	store, err := NewJSONLStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Append(ctx, sampleRecord("run-1", now.Add(-time.Hour))))
	require.NoError(t, store.Append(ctx, sampleRecord("run-2", now)))

	all, err := store.Query(ctx, RunQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	recent, err := store.Query(ctx, RunQuery{Start: now.Add(-time.Minute)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "run-2", recent[0].RunID)

	byID, err := store.Query(ctx, RunQuery{RunID: "run-1"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Equal(t, "bob", byID[0].Assignments[0].Assessor)
	require.Equal(t, model.Unallocated, byID[0].Assignments[1].Assessor)
}

func TestSQLiteStore_AppendAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Append(ctx, sampleRecord("run-1", now.Add(-2*time.Hour))))
	require.NoError(t, store.Append(ctx, sampleRecord("run-2", now)))

	all, err := store.Query(ctx, RunQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "run-1", all[0].RunID) // ordered by timestamp

	windowed, err := store.Query(ctx, RunQuery{
		Start: now.Add(-3 * time.Hour),
		End:   now.Add(-time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	require.Equal(t, "run-1", windowed[0].RunID)

	byID, err := store.Query(ctx, RunQuery{RunID: "run-2"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	require.Equal(t, 1, byID[0].Loads[0].Load)
}
