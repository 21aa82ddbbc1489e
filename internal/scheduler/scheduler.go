// Package scheduler runs the background tasks of the pipeline on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// TaskFunc is the function signature for scheduled tasks.
type TaskFunc func(ctx context.Context) error

// TaskConfig contains configuration for a scheduled task.
//
// A task with a positive Delay runs with a fixed delay between the end of one
// run and the start of the next, first starting InitialDelay after Start.
// Otherwise it runs on the Cron expression.
type TaskConfig struct {
	ID           string
	Name         string
	Description  string
	Cron         string // Cron expression: "0 3 * * *" for 3am daily
	InitialDelay time.Duration
	Delay        time.Duration
	Func         TaskFunc
}

// TaskInfo describes a registered task.
type TaskInfo struct {
	ID          string        `json:"id"`
	JobID       string        `json:"jobId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Cron        string        `json:"cron,omitempty"`
	Delay       time.Duration `json:"delay,omitempty"`
	LastRun     *time.Time    `json:"lastRun,omitempty"`
	LastError   string        `json:"lastError,omitempty"`
	NextRun     *time.Time    `json:"nextRun,omitempty"`
	Running     bool          `json:"running"`
	Runs        int           `json:"runs"`
}

// taskEntry holds internal task state.
type taskEntry struct {
	config  TaskConfig
	job     gocron.Job
	lastRun *time.Time
	lastErr error
	running bool
	runs    int
}

// DefaultStopTimeout bounds how long Stop waits for running tasks before
// cancelling their context.
const DefaultStopTimeout = 30 * time.Second

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	stopTimeout time.Duration
}

// WithStopTimeout sets how long Stop waits for running tasks.
func WithStopTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.stopTimeout = d
		}
	}
}

// Scheduler manages background scheduled tasks.
type Scheduler struct {
	gocron gocron.Scheduler
	logger zerolog.Logger
	tasks  map[string]*taskEntry
	mu     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
}

// New creates a new scheduler.
func New(logger zerolog.Logger, opts ...Option) (*Scheduler, error) {
	o := options{stopTimeout: DefaultStopTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	gs, err := gocron.NewScheduler(gocron.WithStopTimeout(o.stopTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: gs,
		logger: logger.With().Str("component", "scheduler").Logger(),
		tasks:  make(map[string]*taskEntry),
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}, nil
}

// RegisterTask registers a new scheduled task.
func (s *Scheduler) RegisterTask(config TaskConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[config.ID]; exists {
		return fmt.Errorf("task with ID %q already registered", config.ID)
	}
	if config.Func == nil {
		return fmt.Errorf("task %q has no function", config.ID)
	}

	definition, err := s.jobDefinition(config)
	if err != nil {
		return fmt.Errorf("failed to create job for task %q: %w", config.ID, err)
	}

	options := []gocron.JobOption{
		gocron.WithName(config.Name),
		gocron.WithTags(config.ID),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if config.Delay > 0 {
		options = append(options, gocron.WithIntervalFromCompletion())
		if config.InitialDelay > 0 {
			options = append(options, gocron.WithStartAt(gocron.WithStartDateTime(s.now().Add(config.InitialDelay))))
		} else {
			options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
		}
	}

	taskID := config.ID
	job, err := s.gocron.NewJob(definition, gocron.NewTask(func() {
		s.executeTask(taskID)
	}), options...)
	if err != nil {
		return fmt.Errorf("failed to create job for task %q: %w", config.ID, err)
	}

	s.tasks[config.ID] = &taskEntry{
		config: config,
		job:    job,
	}

	event := s.logger.Info().
		Str("id", config.ID).
		Str("name", config.Name).
		Str("jobId", job.ID().String())
	if config.Delay > 0 {
		event = event.Dur("initialDelay", config.InitialDelay).Dur("delay", config.Delay)
	} else {
		event = event.Str("cron", config.Cron)
	}
	event.Msg("Registered task")

	return nil
}

func (s *Scheduler) jobDefinition(config TaskConfig) (gocron.JobDefinition, error) {
	if config.Delay > 0 {
		return gocron.DurationJob(config.Delay), nil
	}
	if strings.TrimSpace(config.Cron) == "" {
		return nil, fmt.Errorf("either a delay or a cron expression is required")
	}
	return gocron.CronJob(config.Cron, false), nil
}

// executeTask runs a task and updates its state.
func (s *Scheduler) executeTask(taskID string) {
	s.mu.Lock()
	entry, exists := s.tasks[taskID]
	if !exists || entry.running {
		s.mu.Unlock()
		return
	}
	entry.running = true
	s.mu.Unlock()

	startTime := s.now()
	s.logger.Debug().
		Str("id", taskID).
		Str("name", entry.config.Name).
		Msg("Starting task")

	err := s.run(entry)

	s.mu.Lock()
	entry.running = false
	entry.lastRun = &startTime
	entry.lastErr = err
	entry.runs++
	s.mu.Unlock()

	duration := time.Since(startTime)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("id", taskID).
			Str("name", entry.config.Name).
			Dur("duration", duration).
			Msg("Task failed")
	} else {
		s.logger.Debug().
			Str("id", taskID).
			Str("name", entry.config.Name).
			Dur("duration", duration).
			Msg("Task completed")
	}
}

func (s *Scheduler) run(entry *taskEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return entry.config.Func(s.ctx)
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.RLock()
	count := len(s.tasks)
	s.mu.RUnlock()

	s.logger.Info().Int("tasks", count).Msg("Starting scheduler")
	s.gocron.Start()
	return nil
}

// Stop stops scheduling new runs and waits for running tasks to return.
// The context passed to tasks is cancelled only once they have returned or
// the stop timeout has passed.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	defer s.cancel()

	err := s.gocron.Shutdown()
	if errors.Is(err, gocron.ErrStopJobsTimedOut) {
		s.logger.Warn().Msg("Running tasks did not finish in time, cancelling them")
	}
	return err
}

// RunNow triggers a task outside its schedule. A run already in progress is
// not duplicated.
func (s *Scheduler) RunNow(taskID string) error {
	s.mu.RLock()
	entry, exists := s.tasks[taskID]
	var running bool
	if exists {
		running = entry.running
	}
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("task %q not found", taskID)
	}
	if running {
		return fmt.Errorf("task %q is already running", taskID)
	}

	return entry.job.RunNow()
}

// ListTasks returns information about all registered tasks, sorted by ID.
func (s *Scheduler) ListTasks() []TaskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]TaskInfo, 0, len(s.tasks))
	for _, entry := range s.tasks {
		tasks = append(tasks, entry.info())
	}
	slices.SortFunc(tasks, func(a, b TaskInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return tasks
}

// GetTask returns information about a specific task.
func (s *Scheduler) GetTask(taskID string) (*TaskInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task %q not found", taskID)
	}

	info := entry.info()
	return &info, nil
}

// info must be called with the scheduler lock held.
func (e *taskEntry) info() TaskInfo {
	info := TaskInfo{
		ID:          e.config.ID,
		JobID:       e.job.ID().String(),
		Name:        e.config.Name,
		Description: e.config.Description,
		Cron:        e.config.Cron,
		Delay:       e.config.Delay,
		LastRun:     e.lastRun,
		Running:     e.running,
		Runs:        e.runs,
	}
	if e.lastErr != nil {
		info.LastError = e.lastErr.Error()
	}
	if nextRun, err := e.job.NextRun(); err == nil && !nextRun.IsZero() {
		info.NextRun = &nextRun
	}
	return info
}
