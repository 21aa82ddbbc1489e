package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
	"github.com/slipstream/mediascan/internal/scanqueue"
	"github.com/slipstream/mediascan/internal/scheduler"
	"github.com/slipstream/mediascan/internal/status"
	"github.com/slipstream/mediascan/internal/testutil"
)

// slowMovieScanner takes a while per scan and gives up if ctx ends first.
type slowMovieScanner struct {
	started chan struct{}
	once    sync.Once
	delay   time.Duration
}

func (s *slowMovieScanner) Name() string { return "tmdb" }

func (s *slowMovieScanner) ResolveMovieID(context.Context, *library.VideoData) (string, error) {
	return "603", nil
}

func (s *slowMovieScanner) ScanMovie(ctx context.Context, _ string, v *library.VideoData) error {
	s.once.Do(func() { close(s.started) })
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
	}
	v.SetOverview("tmdb", "A hacker learns the truth about his reality.")
	return nil
}

func TestMetadataScanTask_ShutdownLetsRunningScanFinish(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	store := library.NewStore(testutil.NewTestDB(t).Conn)
	video, _, err := store.UpsertVideo(ctx, library.VideoInput{
		Path:  "/movies/The Matrix (1999)/The Matrix (1999).mkv",
		Kind:  library.VideoMovie,
		Title: "The Matrix",
		Year:  1999,
	})
	require.NoError(t, err)

	slow := &slowMovieScanner{started: make(chan struct{}), delay: 300 * time.Millisecond}
	registry := scanner.NewRegistry(log)
	registry.Register(slow)

	processor := scanqueue.NewEntityProcessor(store, registry, scanqueue.Sources{Movie: []string{"tmdb"}}, log)
	pool := scanqueue.NewPool(store, processor, scanqueue.Config{PoolSize: 1}, log)

	sched, err := scheduler.New(log)
	require.NoError(t, err)
	require.NoError(t, RegisterMetadataScanTask(sched, pool, config.ScanConfig{Delay: time.Hour}, log))
	require.NoError(t, sched.Start())

	select {
	case <-slow.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not start")
	}

	pool.Stop()
	require.NoError(t, sched.Stop())

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.ScanStatus)
	assert.Empty(t, got.ScanError)
	assert.Equal(t, "A hacker learns the truth about his reality.", got.Overview)
}
