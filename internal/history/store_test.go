package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shocktest/internal/testutil"
	"github.com/roach88/shocktest/pkg/shocktest"
)

// createTestStore opens a store in a temp dir with sequential run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDs("run").Next))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport() *shocktest.Report {
	return &shocktest.Report{
		Total:  3,
		Failed: 1,
		Cases: []shocktest.CaseResult{
			{Name: "adds", Outcome: shocktest.OutcomeCompleted, Passed: true, Elapsed: 2 * time.Millisecond},
			{Name: "rejects", ExpectFail: true, Outcome: shocktest.OutcomeFailure, Passed: true, Message: "bad input", Elapsed: time.Millisecond},
			{Name: "faults", Outcome: shocktest.OutcomeUnknown, Passed: false, Message: "unknown error", Elapsed: 3 * time.Millisecond},
		},
		Elapsed: 6 * time.Millisecond,
	}
}

var epoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"runs", "case_results"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	s := createTestStore(t)

	version, err := s.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)

	var index string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_runs_started_at'").Scan(&index)
	assert.NoError(t, err)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "history.db"))
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestRecord_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	report := sampleReport()

	run, err := s.Record(ctx, report, epoch)
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 1, run.Failed)
	assert.Equal(t, int64(6), run.ElapsedMS)
	assert.Equal(t, shocktest.Version, run.Version)
	assert.Len(t, run.Digest, 64)

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, *run, runs[0])

	cases, err := s.Cases(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Cases, cases)
}

func TestRecord_DigestIgnoresTiming(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, sampleReport(), epoch)
	require.NoError(t, err)

	slower := sampleReport()
	slower.Elapsed = time.Second
	slower.Cases[0].Elapsed = 900 * time.Millisecond
	second, err := s.Record(ctx, slower, epoch.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecord_DigestTracksOutcomes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, sampleReport(), epoch)
	require.NoError(t, err)

	changed := sampleReport()
	changed.Cases[2].Passed = true
	changed.Failed = 0
	second, err := s.Record(ctx, changed, epoch)
	require.NoError(t, err)

	assert.NotEqual(t, first.Digest, second.Digest)
}

func TestRecord_EmptyReport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := s.Record(ctx, &shocktest.Report{}, epoch)
	require.NoError(t, err)

	cases, err := s.Cases(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestRecord_DefaultIDsAreUUIDs(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer s.Close()

	run, err := s.Record(context.Background(), sampleReport(), epoch)
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
}

func TestRecord_NormalizesToUTC(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	local := time.Date(2026, 1, 15, 12, 0, 0, 0, time.FixedZone("CET", 2*60*60))

	_, err := s.Record(ctx, sampleReport(), local)
	require.NoError(t, err)

	runs, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].StartedAt.Equal(local))
	assert.Equal(t, time.UTC, runs[0].StartedAt.Location())
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewStepClock(epoch, 500*time.Millisecond)

	for i := 0; i < 4; i++ {
		_, err := s.Record(ctx, sampleReport(), clock.Now())
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestList_SameTimestampFallsBackToInsertOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, sampleReport(), epoch)
		require.NoError(t, err)
	}

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"run-3", "run-2", "run-1"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
}

func TestList_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestCases_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Cases(context.Background(), "run-404")
	require.ErrorIs(t, err, ErrRunNotFound)
	assert.Contains(t, err.Error(), "run-404")
}

func TestRecord_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Record(ctx, sampleReport(), epoch)
	require.Error(t, err)

	runs, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
