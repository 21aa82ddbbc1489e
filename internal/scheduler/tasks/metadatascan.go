package tasks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanqueue"
	"github.com/slipstream/mediascan/internal/scheduler"
)

// MetadataScanTaskID identifies the task that runs the metadata scan pool.
const MetadataScanTaskID = "metadata-scan"

// ScanCycleRunner runs one pass of the metadata scan queue.
type ScanCycleRunner interface {
	RunCycle(ctx context.Context) (scanqueue.CycleStats, error)
}

type metadataScanTask struct {
	pool   ScanCycleRunner
	logger zerolog.Logger
}

func (t *metadataScanTask) run(ctx context.Context) error {
	_, err := t.pool.RunCycle(ctx)
	if errors.Is(err, scanqueue.ErrPoolStopped) {
		t.logger.Debug().Msg("Scan pool stopped, skipping cycle")
		return nil
	}
	if err != nil {
		t.logger.Error().Err(err).Msg("Metadata scan cycle failed")
		return err
	}
	return nil
}

// RegisterMetadataScanTask registers the fixed-delay task that scans every
// library entity waiting for metadata.
func RegisterMetadataScanTask(sched *scheduler.Scheduler, pool ScanCycleRunner, cfg config.ScanConfig, logger zerolog.Logger) error {
	task := &metadataScanTask{
		pool:   pool,
		logger: logger.With().Str("task", MetadataScanTaskID).Logger(),
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:           MetadataScanTaskID,
		Name:         "Metadata Scan",
		Description:  "Fetches metadata for new and updated library entities",
		InitialDelay: cfg.InitialDelay,
		Delay:        cfg.Delay,
		Func:         task.run,
	})
}
