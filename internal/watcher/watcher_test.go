package watcher

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(events []Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for _, e := range r.events {
		paths = append(paths, e.Path)
	}
	return paths
}

func newTestWatcher(t *testing.T, rec *recorder) *Watcher {
	t.Helper()
	w, err := New(Config{Debounce: 50 * time.Millisecond}, rec.handle, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_ReportsMediaFiles(t *testing.T) {
	root := t.TempDir()
	movieDir := filepath.Join(root, "Heat (1995)")
	require.NoError(t, os.MkdirAll(movieDir, 0o755))

	rec := &recorder{}
	w := newTestWatcher(t, rec)
	require.NoError(t, w.AddRoot(root))
	assert.Len(t, w.WatchedPaths(), 2)
	w.Start()

	movie := filepath.Join(movieDir, "Heat.1995.mkv")
	require.NoError(t, os.WriteFile(movie, []byte("video"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(movieDir, "Heat.sample.mkv"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(movieDir, "notes.txt"), []byte("x"), 0o600))

	assert.Eventually(t, func() bool {
		return slices.Contains(rec.paths(), movie)
	}, 3*time.Second, 20*time.Millisecond)

	for _, p := range rec.paths() {
		assert.Equal(t, movie, p, "only the media file is reported")
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	w := newTestWatcher(t, rec)
	require.NoError(t, w.AddRoot(root))
	w.Start()

	showDir := filepath.Join(root, "Lost")
	require.NoError(t, os.Mkdir(showDir, 0o755))
	assert.Eventually(t, func() bool {
		return slices.Contains(w.WatchedPaths(), showDir)
	}, 3*time.Second, 20*time.Millisecond)

	episode := filepath.Join(showDir, "Lost.S01E01.mkv")
	require.NoError(t, os.WriteFile(episode, []byte("video"), 0o600))
	assert.Eventually(t, func() bool {
		return slices.Contains(rec.paths(), episode)
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_FlushesFullBatch(t *testing.T) {
	rec := &recorder{}
	w, err := New(Config{Debounce: time.Hour, MaxBatch: 2}, rec.handle, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	w.add(Event{Path: "/m/b.mkv", Op: "create"})
	w.add(Event{Path: "/m/b.mkv", Op: "write"})
	assert.Empty(t, rec.paths(), "repeated events for one path stay pending")

	w.add(Event{Path: "/m/a.mkv", Op: "create"})
	assert.Equal(t, []string{"/m/a.mkv", "/m/b.mkv"}, rec.paths())
}
