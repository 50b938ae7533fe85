package delta_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/draw"
	"github.com/roach88/drawsync/internal/testutil"
)

type journalStore struct {
	*testutil.MemoryStore

	mu   sync.Mutex
	runs []delta.Run
	err  error
}

func (j *journalStore) RecordRun(ctx context.Context, run delta.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.runs = append(j.runs, run)
	return nil
}

func newSync(t *testing.T, store delta.Store, src delta.PageSource, partial bool) *delta.Synchronizer {
	t.Helper()
	clock := testutil.NewDeterministicClock()
	return delta.NewSynchronizer(store, delta.NewChecker(src, delta.Options{}), delta.SyncOptions{
		PersistPartial: partial,
		Now:            clock.Now,
		RunIDs:         delta.NewFixedGenerator("run-1", "run-2", "run-3"),
	})
}

func TestSync_MergesDelta(t *testing.T) {
	store := testutil.NewMemoryStore(testutil.Records("2451", "2450")...)
	src := testutil.NewFakeSource(
		testutil.FakeEntries("2455", "2454", "2453", "2452"),
		testutil.FakeEntries("2452", "2451", "2450"),
	)

	report, err := newSync(t, store, src, true).Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, delta.Updated, report.Status.Kind)
	assert.True(t, report.Written)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, []string{"2455", "2454", "2453", "2452", "2451", "2450"}, ids(store.Records()))
	assert.True(t, report.FinishedAt.After(report.StartedAt))
}

func TestSync_EmptyStore(t *testing.T) {
	store := testutil.NewMemoryStore()
	src := testutil.NewFakeSource(testutil.FakePages(2, "3", "2", "1")...)

	report, err := newSync(t, store, src, true).Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, draw.NoData, report.Status.Local)
	assert.Equal(t, []string{"3", "2", "1"}, ids(store.Records()))
}

func TestSync_Idempotent(t *testing.T) {
	store := testutil.NewMemoryStore(testutil.Records("2451")...)
	src := testutil.NewFakeSource(testutil.FakeEntries("2453", "2452", "2451"))
	s := newSync(t, store, src, true)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	first := store.Records()

	report, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, delta.UpToDate, report.Status.Kind)
	assert.False(t, report.Written)
	assert.Equal(t, first, store.Records())
	assert.Equal(t, 1, store.Writes())
}

func TestSync_UnreachableLeavesStore(t *testing.T) {
	store := testutil.NewMemoryStore(testutil.Records("2451")...)
	src := testutil.NewFakeSource()
	src.FailPage(1, errors.New("offline"))

	report, err := newSync(t, store, src, true).Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, delta.Unreachable, report.Status.Kind)
	assert.False(t, report.Written)
	assert.Equal(t, 0, store.Writes())
	assert.Equal(t, []string{"2451"}, ids(store.Records()))
}

func TestSync_PartialFailure(t *testing.T) {
	all := testutil.DescendingIDs(100, 1)

	t.Run("persisted", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		src := testutil.NewFakeSource(testutil.FakePages(10, all...)...)
		src.FailPage(3, errors.New("reset"))

		report, err := newSync(t, store, src, true).Sync(context.Background())
		require.NoError(t, err)

		assert.Equal(t, delta.PartialFailure, report.Status.Kind)
		assert.True(t, report.Written)
		assert.Equal(t, all[:20], ids(store.Records()))
	})

	t.Run("discarded", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		src := testutil.NewFakeSource(testutil.FakePages(10, all...)...)
		src.FailPage(3, errors.New("reset"))

		report, err := newSync(t, store, src, false).Sync(context.Background())
		require.NoError(t, err)

		assert.Equal(t, delta.PartialFailure, report.Status.Kind)
		assert.False(t, report.Written)
		assert.Empty(t, store.Records())
	})
}

func TestSync_CancelledWalkKeepsFetchedPages(t *testing.T) {
	store := &journalStore{MemoryStore: testutil.NewMemoryStore(testutil.Records("10")...)}
	src := testutil.NewFakeSource(testutil.FakePages(2, "15", "14", "13", "12", "11", "10")...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src.OnCall(func(page int) {
		if page == 2 {
			cancel()
		}
	})

	report, err := newSync(t, store, src, true).Sync(ctx)
	require.NoError(t, err)

	assert.Equal(t, delta.PartialFailure, report.Status.Kind)
	assert.ErrorIs(t, report.Status.Reason, context.Canceled)
	assert.True(t, report.Written)
	assert.Equal(t, []string{"15", "14", "10"}, ids(store.Records()))

	require.Len(t, store.runs, 1)
	assert.Equal(t, delta.PartialFailure, store.runs[0].Status)
	assert.Equal(t, 2, store.runs[0].Fetched)
	assert.Equal(t, 3, store.runs[0].Total)
}

func TestSync_StoreFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.ReadErr = errors.New("locked")
		src := testutil.NewFakeSource(testutil.FakeEntries("1"))

		_, err := newSync(t, store, src, true).Sync(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ReadErr)
		assert.Empty(t, src.Calls())
	})

	t.Run("write", func(t *testing.T) {
		store := testutil.NewMemoryStore(testutil.Records("1")...)
		store.WriteErr = errors.New("disk full")
		src := testutil.NewFakeSource(testutil.FakeEntries("2", "1"))

		report, err := newSync(t, store, src, true).Sync(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, store.WriteErr)
		require.NotNil(t, report)
		assert.False(t, report.Written)
		assert.Equal(t, []string{"1"}, ids(store.Records()))
	})
}

func TestSync_RecordsRuns(t *testing.T) {
	store := &journalStore{MemoryStore: testutil.NewMemoryStore(testutil.Records("10")...)}
	src := testutil.NewFakeSource(testutil.FakeEntries("12", "11", "10"))
	s := newSync(t, store, src, true)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	_, err = s.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, store.runs, 2)
	first := store.runs[0]
	assert.Equal(t, "run-1", first.ID)
	assert.Equal(t, delta.Updated, first.Status)
	assert.Equal(t, 2, first.Fetched)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, draw.DrawID("12"), first.Remote)
	assert.Equal(t, testutil.Epoch, first.StartedAt)
	assert.Equal(t, testutil.Epoch.Add(time.Second), first.FinishedAt)

	assert.Equal(t, "run-2", store.runs[1].ID)
	assert.Equal(t, delta.UpToDate, store.runs[1].Status)
}

func TestSync_JournalFailureIsNotFatal(t *testing.T) {
	store := &journalStore{MemoryStore: testutil.NewMemoryStore(), err: errors.New("no table")}
	src := testutil.NewFakeSource(testutil.FakeEntries("1"))

	report, err := newSync(t, store, src, true).Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Written)
}
