package state

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takeline-labs/takeline/internal/validate"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetRun(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun("office-tower")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "office-tower", got.Project)
	assert.Nil(t, got.CompletedAt)
}

func TestGetRun_NotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetRun("no-such-run")
	assert.ErrorContains(t, err, "run not found")
}

func TestCompleteRun(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun("office-tower")
	require.NoError(t, err)

	summary := validate.Summary{Total: 10, Exact: 6, Close: 2, Acceptable: 1, Miss: 1, OverallPct: 80}
	require.NoError(t, store.CompleteRun(run.ID, RunStatusCompleted, summary, ""))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, 10, got.Items)
	assert.Equal(t, 6, got.Exact)
	assert.InDelta(t, 80, got.OverallPct, 0.001)
	assert.Empty(t, got.Error)
}

func TestCompleteRun_WithError(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun("office-tower")
	require.NoError(t, err)
	require.NoError(t, store.CompleteRun(run.ID, RunStatusFailed, validate.Summary{}, "no vector data"))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "no vector data", got.Error)
}

func TestSaveAndGetRecords(t *testing.T) {
	store := openTestStore(t)

	run, err := store.CreateRun("office-tower")
	require.NoError(t, err)

	records := []validate.Record{
		{Item: "J-Hook", Expected: 230, Actual: 228, Difference: -2, AccuracyPct: 99.1, Status: validate.StatusClose},
		{Item: "Cat 6 Cable (ft)", Expected: 920, Actual: 920, AccuracyPct: 100, Status: validate.StatusExact},
	}
	require.NoError(t, store.SaveRecords(run.ID, records))

	got, err := store.GetRecords(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Sorted by item name.
	assert.Equal(t, "Cat 6 Cable (ft)", got[0].Item)
	assert.Equal(t, validate.StatusClose, got[1].Status)
	assert.InDelta(t, 99.1, got[1].AccuracyPct, 0.001)
}

func TestListRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.CreateRun("office-tower")
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestUnopenedStore(t *testing.T) {
	store := NewSQLiteStore()
	_, err := store.CreateRun("office-tower")
	assert.ErrorContains(t, err, "not opened")
	_, err = store.ListRuns(10)
	assert.ErrorContains(t, err, "not opened")
}

func TestSaveRecords_RollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := &SQLiteStore{db: db}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO run_items")
	prep.ExpectExec().
		WithArgs("run-1", "J-Hook", 230, 228, -2, 99.1, "close").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	records := []validate.Record{
		{Item: "J-Hook", Expected: 230, Actual: 228, Difference: -2, AccuracyPct: 99.1, Status: validate.StatusClose},
	}
	err = store.SaveRecords("run-1", records)
	assert.ErrorContains(t, err, "J-Hook")
	assert.NoError(t, mock.ExpectationsWereMet())
}
