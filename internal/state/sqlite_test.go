package state

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ratefusion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"), "failed to open store")
	require.NoError(t, store.InitSchema(), "failed to init schema")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	assert.Error(t, store.InitSchema())
	_, err := store.CreateRun("default", "", 0)
	assert.Error(t, err)
	_, err = store.ListRuns(10)
	assert.Error(t, err)
	assert.Error(t, store.SaveDocument(&Document{}))
}

func TestSQLiteStore_InitSchema(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"runs", "documents"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		if assert.NoError(t, err, "table %s does not exist", table) {
			_ = rows.Close()
		}
	}

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, store.InitSchema())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		status     RunStatus
		errMsg     string
		wantStatus RunStatus
		wantError  string
	}{
		{name: "completed", status: RunStatusCompleted, wantStatus: RunStatusCompleted},
		{name: "failed", status: RunStatusFailed, errMsg: "boom", wantStatus: RunStatusFailed, wantError: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateRun("Default Logic", "Asia Ocean", 12)
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, RunStatusRunning, run.Status)

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, "Default Logic", got.Profile)
			assert.Equal(t, "Asia Ocean", got.Project)
			assert.Equal(t, 12, got.RowCount)
			assert.Nil(t, got.CompletedAt)

			require.NoError(t, store.CompleteRun(run.ID, tt.status, tt.errMsg))

			got, err = store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantError, got.Error)
			assert.NotNil(t, got.CompletedAt)
		})
	}
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun("missing")
	assert.ErrorContains(t, err, "run not found")
	assert.ErrorContains(t, store.CompleteRun("missing", RunStatusCompleted, ""), "run not found")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	for _, p := range []string{"a", "b", "c"} {
		_, err := store.CreateRun(p, "", 1)
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestSQLiteStore_Documents(t *testing.T) {
	store := setupTestStore(t)

	run, err := store.CreateRun("default", "", 2)
	require.NoError(t, err)

	for i, key := range []string{"RATE_GEO", "X_LANE"} {
		doc := &Document{RunID: run.ID, Position: i, TableKey: key, TableName: key, Content: "<otm:Transmission/>"}
		require.NoError(t, store.SaveDocument(doc))
		assert.NotEmpty(t, doc.ID)
	}

	docs, err := store.GetDocuments(run.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "RATE_GEO", docs[0].TableKey)
	assert.Equal(t, "X_LANE", docs[1].TableKey)
	assert.Equal(t, "<otm:Transmission/>", docs[1].Content)

	none, err := store.GetDocuments("other")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_DocumentRequiresRun(t *testing.T) {
	store := setupTestStore(t)

	err := store.SaveDocument(&Document{RunID: "missing", TableKey: "X", TableName: "X"})
	assert.Error(t, err, "foreign key should reject unknown run")
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())
	run, err := store.CreateRun("default", "", 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer reopened.Close()
	require.NoError(t, reopened.InitSchema())

	got, err := reopened.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}
