package staging

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/status"
)

// Claimer is the persistence the dispatcher needs.
type Claimer interface {
	ClaimNextEligible(ctx context.Context, mediaType status.MediaType, statuses ...status.Status) (int64, bool, error)
	MarkError(ctx context.Context, id int64, cause error) error
}

// Importer turns a claimed staged file into library entities.
// On success it is responsible for advancing the staged file's status.
type Importer interface {
	Import(ctx context.Context, stagedFileID int64) error
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(ctx context.Context, stagedFileID int64) error

// Import calls f.
func (f ImporterFunc) Import(ctx context.Context, stagedFileID int64) error {
	return f(ctx, stagedFileID)
}

// Stats summarises one dispatcher run.
type Stats struct {
	Claimed   int
	Succeeded int
	Failed    int
}

// Dispatcher drains eligible VIDEO staged files into the importer.
type Dispatcher struct {
	store    Claimer
	importer Importer
	logger   zerolog.Logger

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(store Claimer, importer Importer, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		importer: importer,
		logger:   logger.With().Str("component", "staging-dispatcher").Logger(),
		stopped:  make(chan struct{}),
	}
}

// Stop makes Run return after the import in progress, without claiming
// further files.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopped)
		d.logger.Info().Msg("Staging dispatcher stopping")
	})
}

func (d *Dispatcher) isStopped() bool {
	select {
	case <-d.stopped:
		return true
	default:
		return false
	}
}

// Run claims and imports eligible files until none remain.
//
// A failing import marks only that file ERROR; the loop keeps going. Run
// returns early when the claim itself fails or ctx is cancelled, and stops
// claiming once Stop has been called.
func (d *Dispatcher) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if d.isStopped() {
			break
		}

		id, ok, err := d.store.ClaimNextEligible(ctx, status.MediaVideo, status.New, status.Updated)
		if err != nil {
			return stats, err
		}
		if !ok {
			break
		}
		stats.Claimed++

		if err := d.process(ctx, id); err != nil {
			stats.Failed++
			d.logger.Error().Err(err).Int64("stagedFileId", id).Msg("Failed to import staged file")
			d.recordFailure(ctx, id, err)
			continue
		}
		stats.Succeeded++
	}

	if stats.Claimed == 0 {
		d.logger.Debug().Msg("No staged files eligible for import")
	} else {
		d.logger.Info().
			Int("claimed", stats.Claimed).
			Int("succeeded", stats.Succeeded).
			Int("failed", stats.Failed).
			Dur("duration", time.Since(start)).
			Msg("Staging dispatch completed")
	}
	return stats, nil
}

func (d *Dispatcher) process(ctx context.Context, id int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Str("stack", string(debug.Stack())).Int64("stagedFileId", id).Msg("Import panicked")
			err = fmt.Errorf("import panicked: %v", r)
		}
	}()
	return d.importer.Import(ctx, id)
}

// recordFailure marks the file ERROR. A failure here is logged and dropped.
func (d *Dispatcher) recordFailure(ctx context.Context, id int64, cause error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Int64("stagedFileId", id).Interface("panic", r).Msg("Recording import failure panicked")
		}
	}()

	if err := d.store.MarkError(context.WithoutCancel(ctx), id, cause); err != nil {
		d.logger.Warn().Err(err).Int64("stagedFileId", id).Msg("Failed to record import failure")
	}
}
