// Package watcher reports media file changes under the library roots so a
// discovery pass can run without waiting for its next scheduled time.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/discovery"
	"github.com/slipstream/mediascan/internal/status"
)

// Event is a change to one media file.
type Event struct {
	Path string `json:"path"`
	Op   string `json:"op"` // "create", "write", "remove", "rename"
}

// Handler receives a debounced batch of events, ordered by path.
type Handler func(events []Event)

// Config holds watcher configuration.
type Config struct {
	// Debounce is how long to wait after the last event before calling the handler.
	Debounce time.Duration
	// MaxBatch flushes early once this many distinct paths are pending.
	MaxBatch int
}

// Watcher monitors directory trees for media file changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    Config
	handler   Handler
	logger    zerolog.Logger

	pathsMu sync.Mutex
	watched map[string]bool

	eventsMu sync.Mutex
	pending  map[string]Event
	timer    *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher that calls handler with batches of file events.
func New(cfg Config, handler Handler, logger zerolog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		handler:   handler,
		logger:    logger.With().Str("component", "watcher").Logger(),
		watched:   make(map[string]bool),
		pending:   make(map[string]Event),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddRoot watches root and every directory below it.
func (w *Watcher) AddRoot(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := w.addDir(absRoot); err != nil {
		return err
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == absRoot {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.addDir(path); err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch subdirectory")
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.Info().Str("root", absRoot).Msg("Watching root")
	return nil
}

func (w *Watcher) addDir(path string) error {
	w.pathsMu.Lock()
	defer w.pathsMu.Unlock()

	if w.watched[path] {
		return nil
	}
	if err := w.fsWatcher.Add(path); err != nil {
		return err
	}
	w.watched[path] = true
	return nil
}

// WatchedPaths returns the watched directories, sorted.
func (w *Watcher) WatchedPaths() []string {
	w.pathsMu.Lock()
	defer w.pathsMu.Unlock()

	paths := make([]string, 0, len(w.watched))
	for path := range w.watched {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.eventLoop()
}

// Stop stops the watcher, flushing pending events first.
func (w *Watcher) Stop() error {
	w.cancel()
	w.wg.Wait()
	return w.fsWatcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			w.flush()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn().Msg("Watcher event queue overflowed, some changes wait for the next discovery run")
				continue
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDir(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("path", event.Name).Msg("Failed to watch new directory")
			}
			return
		}
	}

	if _, ok := status.MediaTypeForPath(event.Name); !ok || discovery.IsSampleFile(name) {
		return
	}

	var op string
	switch {
	case event.Has(fsnotify.Create):
		op = "create"
	case event.Has(fsnotify.Write):
		op = "write"
	case event.Has(fsnotify.Remove):
		op = "remove"
	case event.Has(fsnotify.Rename):
		op = "rename"
	default:
		return
	}

	w.add(Event{Path: event.Name, Op: op})
}

// add records event and restarts the debounce timer. Repeated events for a
// path collapse into the latest one.
func (w *Watcher) add(event Event) {
	w.eventsMu.Lock()
	w.pending[event.Path] = event
	full := len(w.pending) >= w.config.MaxBatch
	if !full {
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timer = time.AfterFunc(w.config.Debounce, w.flush)
	}
	w.eventsMu.Unlock()

	if full {
		w.flush()
	}
}

func (w *Watcher) flush() {
	w.eventsMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	events := make([]Event, 0, len(w.pending))
	for _, event := range w.pending {
		events = append(events, event)
	}
	w.pending = make(map[string]Event)
	w.eventsMu.Unlock()

	if len(events) == 0 || w.handler == nil {
		return
	}
	slices.SortFunc(events, func(a, b Event) int { return strings.Compare(a.Path, b.Path) })

	w.logger.Debug().Int("count", len(events)).Msg("Flushed file events")
	w.handler(events)
}
