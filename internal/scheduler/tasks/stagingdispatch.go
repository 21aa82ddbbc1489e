// Package tasks registers the pipeline's periodic jobs with the scheduler.
package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scheduler"
	"github.com/slipstream/mediascan/internal/staging"
)

// StagingDispatchTaskID identifies the task that imports staged video files.
const StagingDispatchTaskID = "staging-dispatch"

// StagingDispatcher imports every eligible staged file.
type StagingDispatcher interface {
	Run(ctx context.Context) (staging.Stats, error)
}

type stagingDispatchTask struct {
	dispatcher StagingDispatcher
	logger     zerolog.Logger
}

func (t *stagingDispatchTask) run(ctx context.Context) error {
	stats, err := t.dispatcher.Run(ctx)
	if err != nil {
		t.logger.Error().Err(err).Int("claimed", stats.Claimed).Msg("Staging dispatch aborted")
		return err
	}
	return nil
}

// RegisterStagingDispatchTask registers the fixed-delay task that drains the
// staged file queue.
func RegisterStagingDispatchTask(sched *scheduler.Scheduler, dispatcher StagingDispatcher, cfg config.StagingConfig, logger zerolog.Logger) error {
	task := &stagingDispatchTask{
		dispatcher: dispatcher,
		logger:     logger.With().Str("task", StagingDispatchTaskID).Logger(),
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:           StagingDispatchTaskID,
		Name:         "Staging Dispatch",
		Description:  "Imports new and updated staged files into the library",
		InitialDelay: cfg.InitialDelay,
		Delay:        cfg.Delay,
		Func:         task.run,
	})
}
