package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/discovery"
	"github.com/slipstream/mediascan/internal/scheduler"
)

// StagingDiscoveryTaskID identifies the task that walks the library roots.
const StagingDiscoveryTaskID = "staging-discovery"

// DiscoveryScanner stages the media files found under the library roots.
type DiscoveryScanner interface {
	Scan(ctx context.Context) (discovery.Result, error)
}

type stagingDiscoveryTask struct {
	scanner DiscoveryScanner
	logger  zerolog.Logger
}

func (t *stagingDiscoveryTask) run(ctx context.Context) error {
	if _, err := t.scanner.Scan(ctx); err != nil {
		t.logger.Error().Err(err).Msg("Discovery scan failed")
		return err
	}
	return nil
}

// RegisterStagingDiscoveryTask registers the fixed-delay task that walks the
// configured roots. Nothing is registered without roots.
func RegisterStagingDiscoveryTask(sched *scheduler.Scheduler, scanner DiscoveryScanner, cfg config.DiscoveryConfig, logger zerolog.Logger) error {
	if len(cfg.Roots) == 0 {
		return nil
	}

	task := &stagingDiscoveryTask{
		scanner: scanner,
		logger:  logger.With().Str("task", StagingDiscoveryTaskID).Logger(),
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:           StagingDiscoveryTaskID,
		Name:         "Staging Discovery",
		Description:  "Stages new, changed and removed files under the library roots",
		InitialDelay: cfg.InitialDelay,
		Delay:        cfg.Delay,
		Func:         task.run,
	})
}
