package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scheduler"
)

// LibraryRescanTaskID identifies the task that flags stale entities for a rescan.
const LibraryRescanTaskID = "library-rescan"

// StaleEntityFlagger schedules rescans for entities with old metadata.
type StaleEntityFlagger interface {
	FlagStaleForRescan(ctx context.Context, olderThan time.Duration) (int64, error)
}

type libraryRescanTask struct {
	library   StaleEntityFlagger
	olderThan time.Duration
	logger    zerolog.Logger
}

func (t *libraryRescanTask) run(ctx context.Context) error {
	n, err := t.library.FlagStaleForRescan(ctx, t.olderThan)
	if err != nil {
		t.logger.Error().Err(err).Msg("Failed to flag stale entities")
		return err
	}
	if n > 0 {
		t.logger.Info().Int64("count", n).Dur("olderThan", t.olderThan).Msg("Flagged stale entities for rescan")
	}
	return nil
}

// RegisterLibraryRescanTask registers the cron task that refreshes metadata
// last scanned longer ago than RescanAfter. Nothing is registered when
// either setting is empty.
func RegisterLibraryRescanTask(sched *scheduler.Scheduler, library StaleEntityFlagger, cfg config.ScanConfig, logger zerolog.Logger) error {
	if cfg.RescanCron == "" || cfg.RescanAfter <= 0 {
		return nil
	}

	task := &libraryRescanTask{
		library:   library,
		olderThan: cfg.RescanAfter,
		logger:    logger.With().Str("task", LibraryRescanTaskID).Logger(),
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          LibraryRescanTaskID,
		Name:        "Library Rescan",
		Description: "Schedules a metadata refresh for entities with stale metadata",
		Cron:        cfg.RescanCron,
		Func:        task.run,
	})
}
