// Package scanqueue runs metadata scans for library entities on a bounded
// pool of workers.
package scanqueue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
)

// ErrPoolStopped is returned by RunCycle after Stop.
var ErrPoolStopped = errors.New("scan pool stopped")

// Source lists the entities due for a scan.
type Source interface {
	ListEntitiesNeedingScan(ctx context.Context) ([]library.QueueItem, error)
}

// Processor scans a single entity.
type Processor interface {
	Process(ctx context.Context, item library.QueueItem) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, item library.QueueItem) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, item library.QueueItem) error {
	return f(ctx, item)
}

// Config holds pool settings.
type Config struct {
	PoolSize      int
	QueueCapacity int
	PollInterval  time.Duration
}

// CycleStats summarises one RunCycle.
type CycleStats struct {
	ID        string
	Queued    int
	Processed int
	Failed    int
	Duration  time.Duration
}

// Pool feeds entities needing a scan to a fixed number of workers.
type Pool struct {
	source    Source
	processor Processor
	config    Config
	logger    zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewPool creates a pool. Out-of-range settings fall back to defaults.
func NewPool(source Source, processor Processor, cfg Config, logger zerolog.Logger) *Pool {
	if cfg.PoolSize < 1 {
		cfg.PoolSize = 5
	}
	if cfg.QueueCapacity < 1 {
		cfg.QueueCapacity = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Pool{
		source:    source,
		processor: processor,
		config:    cfg,
		logger:    logger.With().Str("component", "scan-pool").Logger(),
		stopped:   make(chan struct{}),
	}
}

// Stop stops feeding items to workers. Items already queued are still
// processed and the running cycle returns once workers drain them.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		p.logger.Info().Msg("Scan pool stopping")
	})
}

// RunCycle scans every entity currently needing a scan and blocks until all
// workers have exited.
func (p *Pool) RunCycle(ctx context.Context) (CycleStats, error) {
	stats := CycleStats{ID: uuid.NewString()}
	start := time.Now()

	if p.isStopped() {
		return stats, ErrPoolStopped
	}

	items, err := p.source.ListEntitiesNeedingScan(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list entities needing scan: %w", err)
	}
	if len(items) == 0 {
		p.logger.Debug().Msg("No entities need scanning")
		return stats, nil
	}

	items = slices.Clone(items)
	slices.SortStableFunc(items, library.CompareQueueItems)
	stats.Queued = len(items)

	log := p.logger.With().Str("cycleId", stats.ID).Logger()
	log.Info().Int("items", len(items)).Int("workers", p.config.PoolSize).Msg("Starting scan cycle")

	queue := make(chan library.QueueItem, p.config.QueueCapacity)
	var processed, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < p.config.PoolSize; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, i, queue, &processed, &failed, log)
	}

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	go p.produce(ctx, items, queue, workersDone, log)

	p.wait(workersDone, stats.Queued, &processed, log)

	stats.Processed = int(processed.Load())
	stats.Failed = int(failed.Load())
	stats.Duration = time.Since(start)

	log.Info().
		Int("queued", stats.Queued).
		Int("processed", stats.Processed).
		Int("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("Scan cycle complete")

	return stats, nil
}

// produce sends items in order and closes the queue. It gives up when the
// pool is stopped, the context ends or no worker is left to receive.
func (p *Pool) produce(ctx context.Context, items []library.QueueItem, queue chan<- library.QueueItem, workersDone <-chan struct{}, log zerolog.Logger) {
	defer close(queue)

	for i, item := range items {
		if p.isStopped() || ctx.Err() != nil {
			log.Info().Int("unsent", len(items)-i).Msg("Scan cycle interrupted, not queueing remaining items")
			return
		}

		select {
		case queue <- item:
		case <-p.stopped:
			log.Info().Int("unsent", len(items)-i).Msg("Pool stopped, not queueing remaining items")
			return
		case <-ctx.Done():
			log.Info().Int("unsent", len(items)-i).Msg("Context cancelled, not queueing remaining items")
			return
		case <-workersDone:
			log.Error().Int("unsent", len(items)-i).Msg("All workers exited, not queueing remaining items")
			return
		}
	}
}

func (p *Pool) isStopped() bool {
	select {
	case <-p.stopped:
		return true
	default:
		return false
	}
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup, n int, queue <-chan library.QueueItem, processed, failed *atomic.Int64, log zerolog.Logger) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("worker", n).Interface("panic", r).Msg("Scan worker crashed")
		}
	}()

	for item := range queue {
		if err := p.process(ctx, item); err != nil {
			failed.Add(1)
			log.Warn().Err(err).
				Int("worker", n).
				Int64("entityId", item.ID).
				Str("kind", string(item.Kind)).
				Msg("Entity scan failed")
		}
		processed.Add(1)
	}
}

func (p *Pool) process(ctx context.Context, item library.QueueItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scanning %s %d: %v", item.Kind, item.ID, r)
		}
	}()
	return p.processor.Process(ctx, item)
}

// wait blocks until workersDone is closed, logging progress every poll interval.
func (p *Pool) wait(workersDone <-chan struct{}, queued int, processed *atomic.Int64, log zerolog.Logger) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-workersDone:
			return
		case <-ticker.C:
			log.Debug().
				Int64("processed", processed.Load()).
				Int("queued", queued).
				Msg("Scan cycle in progress")
		}
	}
}
