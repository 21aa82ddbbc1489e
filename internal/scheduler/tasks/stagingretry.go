package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scheduler"
)

// StagingRetryTaskID identifies the task that retries staged files in ERROR.
const StagingRetryTaskID = "staging-retry"

// ErroredFileResetter returns failed staged files to the import queue.
type ErroredFileResetter interface {
	ResetErrored(ctx context.Context, maxAttempts int, backoff time.Duration) (int64, error)
}

type stagingRetryTask struct {
	store       ErroredFileResetter
	maxAttempts int
	backoff     time.Duration
	logger      zerolog.Logger
}

func (t *stagingRetryTask) run(ctx context.Context) error {
	n, err := t.store.ResetErrored(ctx, t.maxAttempts, t.backoff)
	if err != nil {
		t.logger.Error().Err(err).Msg("Failed to reset errored staged files")
		return err
	}
	if n > 0 {
		t.logger.Info().Int64("count", n).Msg("Requeued errored staged files")
	}
	return nil
}

// RegisterStagingRetryTask registers the cron task that requeues staged
// files whose import failed, up to the configured number of attempts.
func RegisterStagingRetryTask(sched *scheduler.Scheduler, store ErroredFileResetter, cfg config.StagingConfig, logger zerolog.Logger) error {
	if cfg.RetryCron == "" {
		return nil
	}

	task := &stagingRetryTask{
		store:       store,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoff,
		logger:      logger.With().Str("task", StagingRetryTaskID).Logger(),
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          StagingRetryTaskID,
		Name:        "Staging Retry",
		Description: "Requeues staged files that failed to import",
		Cron:        cfg.RetryCron,
		Func:        task.run,
	})
}
