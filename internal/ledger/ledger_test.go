// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/textmill/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "textmill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleOutcomes() []types.Outcome {
	return []types.Outcome{
		{Document: types.Document{Name: "a.pdf"}, TextPath: "texts/a.txt", Method: types.MethodPdftotext},
		{Document: types.Document{Name: "b.pdf"}, TextPath: "texts/b.txt", Method: types.MethodOCR},
		{Document: types.Document{Name: "c.pdf"}, TextPath: "texts/c.txt", Method: types.MethodSkipped},
		{Document: types.Document{Name: "d.pdf"}, Method: types.MethodFailed, Error: "both strategies failed"},
	}
}

func TestRecordRunAndRecentRuns(t *testing.T) {
	store := openTestStore(t)

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	finished := started.Add(10 * time.Minute)

	runID, err := store.RecordRun(started, finished, sampleOutcomes())
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, runID, r.ID)
	assert.Equal(t, started, r.StartedAt)
	assert.Equal(t, finished, r.FinishedAt)
	assert.Equal(t, 2, r.Converted)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
}

func TestOutcomes(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.RecordRun(time.Now(), time.Now(), sampleOutcomes())
	require.NoError(t, err)

	outcomes, err := store.Outcomes(runID)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	assert.Equal(t, "a.pdf", outcomes[0].Document.Name)
	assert.Equal(t, types.MethodPdftotext, outcomes[0].Method)
	assert.Equal(t, "texts/a.txt", outcomes[0].TextPath)

	assert.Equal(t, types.MethodFailed, outcomes[3].Method)
	assert.Equal(t, "both strategies failed", outcomes[3].Error)
}

func TestRecentRuns_OrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.RecordRun(time.Now(), time.Now(), sampleOutcomes()[:1])
		require.NoError(t, err)
	}

	runs, err := store.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID, "newest run first")
}

func TestRecentRuns_Empty(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.RecentRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_Reopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textmill.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.RecordRun(time.Now(), time.Now(), sampleOutcomes())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Schema bootstrap tolerates an existing database.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
