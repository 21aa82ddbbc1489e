package staging

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/status"
	"github.com/slipstream/mediascan/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	return NewStore(tdb.Conn), tdb
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, CreateInput{
		Path:       "/media/movies/Heat (1995)/Heat.mkv",
		MediaType:  status.MediaVideo,
		Size:       1024,
		ModifiedAt: &mod,
	})
	require.NoError(t, err)
	assert.Equal(t, status.New, created.Status)
	assert.Equal(t, status.MediaVideo, created.MediaType)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Path, got.Path)
	assert.Equal(t, int64(1024), got.Size)
	require.NotNil(t, got.ModifiedAt)
	assert.True(t, mod.Equal(*got.ModifiedAt))

	byPath, err := store.GetByPath(ctx, created.Path)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPath.ID)

	_, err = store.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrStagedFileNotFound)
}

func TestStore_ClaimNextEligible_Order(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	errored := tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "ERROR")
	first := tdb.InsertStagedFile(t, "/m/b.mkv", "VIDEO", "NEW")
	tdb.InsertStagedFile(t, "/m/b.nfo", "NFO", "NEW")
	second := tdb.InsertStagedFile(t, "/m/c.mkv", "VIDEO", "UPDATED")
	tdb.InsertStagedFile(t, "/m/d.mkv", "VIDEO", "DONE")

	var claimed []int64
	for {
		id, ok, err := store.ClaimNextEligible(ctx, status.MediaVideo, status.New, status.Updated)
		require.NoError(t, err)
		if !ok {
			break
		}
		claimed = append(claimed, id)
	}

	assert.Equal(t, []int64{first, second}, claimed)

	got, err := store.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, status.Process, got.Status)

	untouched, err := store.Get(ctx, errored)
	require.NoError(t, err)
	assert.Equal(t, status.Error, untouched.Status)
}

func TestStore_ClaimNextEligible_NoStatuses(t *testing.T) {
	store, tdb := newTestStore(t)
	tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "NEW")

	_, ok, err := store.ClaimNextEligible(context.Background(), status.MediaVideo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClaimNextEligible_Concurrent(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	const total = 40
	for i := 0; i < total; i++ {
		tdb.InsertStagedFile(t, fmt.Sprintf("/m/%02d.mkv", i), "VIDEO", "NEW")
	}

	var (
		mu      sync.Mutex
		claimed []int64
		wg      sync.WaitGroup
		errs    = make(chan error, 8)
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id, ok, err := store.ClaimNextEligible(ctx, status.MediaVideo, status.New, status.Updated)
				if err != nil {
					errs <- err
					return
				}
				if !ok {
					return
				}
				mu.Lock()
				claimed = append(claimed, id)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, claimed, total)
	sort.Slice(claimed, func(i, j int) bool { return claimed[i] < claimed[j] })
	for i := 1; i < len(claimed); i++ {
		assert.NotEqual(t, claimed[i-1], claimed[i], "id %d claimed twice", claimed[i])
	}
}

func TestStore_SetStatus(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	id := tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "PROCESS")

	require.NoError(t, store.SetStatus(ctx, id, status.Done))
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.Status)

	err = store.SetStatus(ctx, id, status.Process)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = store.SetStatus(ctx, id, status.Deleted)
	assert.ErrorIs(t, err, ErrInvalidTransition, "DONE is terminal for the pass")

	assert.NoError(t, store.SetStatus(ctx, id, status.Done), "same status is a no-op")
}

func TestStore_MarkErrorAndReset(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	retryable := tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "PROCESS")
	exhausted := tdb.InsertStagedFile(t, "/m/b.mkv", "VIDEO", "PROCESS")

	require.NoError(t, store.MarkError(ctx, retryable, errors.New("parse failed")))
	for i := 0; i < 3; i++ {
		require.NoError(t, store.MarkError(ctx, exhausted, errors.New("boom")))
	}

	got, err := store.Get(ctx, retryable)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "parse failed", got.LastError)

	// Still inside the back-off window.
	store.now = func() time.Time { return base.Add(time.Minute) }
	n, err := store.ResetErrored(ctx, 3, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	store.now = func() time.Time { return base.Add(10 * time.Minute) }
	n, err = store.ResetErrored(ctx, 3, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = store.Get(ctx, retryable)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.Status)

	got, err = store.Get(ctx, exhausted)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.Status)
	assert.Equal(t, 3, got.Attempts)
}

func TestStore_FailInterrupted(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	stuck := tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "PROCESS")
	done := tdb.InsertStagedFile(t, "/m/b.mkv", "VIDEO", "DONE")

	n, err := store.FailInterrupted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.Get(ctx, stuck)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.Status)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, interruptedMessage, got.LastError)

	got, err = store.Get(ctx, done)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.Status)
}

func TestStore_MarkChangedAndTracked(t *testing.T) {
	store, tdb := newTestStore(t)
	ctx := context.Background()

	id := tdb.InsertStagedFile(t, "/m/a.mkv", "VIDEO", "ERROR")
	tdb.InsertStagedFile(t, "/m/gone.mkv", "VIDEO", "DELETED")
	require.NoError(t, store.MarkError(ctx, id, errors.New("x")))

	mod := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.MarkChanged(ctx, id, 2048, &mod))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.Status)
	assert.Equal(t, int64(2048), got.Size)
	assert.Equal(t, 0, got.Attempts)
	assert.Empty(t, got.LastError)

	tracked, err := store.ListTracked(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	assert.Equal(t, "/m/a.mkv", tracked[0].Path)

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[status.Updated])
	assert.Equal(t, int64(1), counts[status.Deleted])

	updated, err := store.ListByStatus(ctx, status.Updated)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, id, updated[0].ID)
}
