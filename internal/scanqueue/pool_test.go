package scanqueue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/library"
)

type sourceFunc func(ctx context.Context) ([]library.QueueItem, error)

func (f sourceFunc) ListEntitiesNeedingScan(ctx context.Context) ([]library.QueueItem, error) {
	return f(ctx)
}

func staticSource(items []library.QueueItem) Source {
	return sourceFunc(func(context.Context) ([]library.QueueItem, error) {
		return items, nil
	})
}

func makeItems(n int) []library.QueueItem {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]library.QueueItem, n)
	for i := range items {
		date := base.Add(time.Duration(i) * time.Minute)
		items[i] = library.QueueItem{ID: int64(i + 1), Kind: library.KindVideoData, ScheduledDate: &date}
	}
	return items
}

func testConfig(workers int) Config {
	return Config{PoolSize: workers, QueueCapacity: 4, PollInterval: 10 * time.Millisecond}
}

func TestPool_ProcessesEachItemOnce(t *testing.T) {
	var mu sync.Mutex
	seen := map[int64]int{}

	processor := ProcessorFunc(func(_ context.Context, item library.QueueItem) error {
		time.Sleep(time.Millisecond)
		mu.Lock()
		seen[item.ID]++
		mu.Unlock()
		return nil
	})

	pool := NewPool(staticSource(makeItems(12)), processor, testConfig(5), zerolog.Nop())
	stats, err := pool.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.Queued)
	assert.Equal(t, 12, stats.Processed)
	assert.Equal(t, 0, stats.Failed)
	assert.NotEmpty(t, stats.ID)
	require.Len(t, seen, 12)
	for id, n := range seen {
		assert.Equal(t, 1, n, "item %d processed %d times", id, n)
	}
}

func TestPool_WaitsForAllWorkersDespiteFailures(t *testing.T) {
	var mu sync.Mutex
	done := 0

	processor := ProcessorFunc(func(_ context.Context, item library.QueueItem) error {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		done++
		mu.Unlock()
		if item.ID%2 == 0 {
			return errors.New("source unavailable")
		}
		return nil
	})

	pool := NewPool(staticSource(makeItems(12)), processor, testConfig(3), zerolog.Nop())
	stats, err := pool.RunCycle(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 12, done, "RunCycle returned before every item finished")
	assert.Equal(t, 12, stats.Processed)
	assert.Equal(t, 6, stats.Failed)
}

func TestPool_PanicFailsOnlyThatItem(t *testing.T) {
	processor := ProcessorFunc(func(_ context.Context, item library.QueueItem) error {
		if item.ID == 3 {
			panic("corrupt entity")
		}
		return nil
	})

	pool := NewPool(staticSource(makeItems(6)), processor, testConfig(2), zerolog.Nop())
	stats, err := pool.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Processed)
	assert.Equal(t, 1, stats.Failed)
}

func TestPool_OrdersByScheduledDate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := base.Add(time.Hour)
	items := []library.QueueItem{
		{ID: 1, Kind: library.KindSeries},
		{ID: 2, Kind: library.KindVideoData, ScheduledDate: &later},
		{ID: 3, Kind: library.KindSeason, ScheduledDate: &base},
		{ID: 4, Kind: library.KindVideoData},
	}

	var order []int64
	processor := ProcessorFunc(func(_ context.Context, item library.QueueItem) error {
		order = append(order, item.ID)
		return nil
	})

	pool := NewPool(staticSource(items), processor, testConfig(1), zerolog.Nop())
	_, err := pool.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1, 4}, order)
}

func TestPool_EmptySource(t *testing.T) {
	called := false
	processor := ProcessorFunc(func(context.Context, library.QueueItem) error {
		called = true
		return nil
	})

	pool := NewPool(staticSource(nil), processor, testConfig(2), zerolog.Nop())
	stats, err := pool.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Queued)
	assert.False(t, called)
}

func TestPool_SourceError(t *testing.T) {
	source := sourceFunc(func(context.Context) ([]library.QueueItem, error) {
		return nil, errors.New("database is locked")
	})

	pool := NewPool(source, ProcessorFunc(func(context.Context, library.QueueItem) error { return nil }), testConfig(2), zerolog.Nop())
	_, err := pool.RunCycle(context.Background())
	assert.ErrorContains(t, err, "database is locked")
}

func TestPool_StopDuringCycle(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	processor := ProcessorFunc(func(context.Context, library.QueueItem) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	})

	cfg := Config{PoolSize: 1, QueueCapacity: 1, PollInterval: 10 * time.Millisecond}
	pool := NewPool(staticSource(makeItems(12)), processor, cfg, zerolog.Nop())

	result := make(chan CycleStats, 1)
	go func() {
		stats, _ := pool.RunCycle(context.Background())
		result <- stats
	}()

	<-started
	pool.Stop()
	close(release)

	select {
	case stats := <-result:
		assert.GreaterOrEqual(t, stats.Processed, 1)
		assert.Less(t, stats.Processed, 12)
	case <-time.After(5 * time.Second):
		t.Fatal("RunCycle did not return after Stop")
	}

	_, err := pool.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	processor := ProcessorFunc(func(ctx context.Context, item library.QueueItem) error {
		cancel()
		return ctx.Err()
	})

	cfg := Config{PoolSize: 1, QueueCapacity: 1, PollInterval: 10 * time.Millisecond}
	pool := NewPool(staticSource(makeItems(12)), processor, cfg, zerolog.Nop())
	stats, err := pool.RunCycle(ctx)
	require.NoError(t, err)
	assert.Less(t, stats.Processed, 12)
}
