package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for periodic full resyncs independent of filesystem
// events. A resync repairs a destination that drifted while the watcher was
// not running (the staging copy is an idempotent merge).
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

// ScheduleResync registers a periodic resync task.
// Returns the job ID for later management.
func (s *Scheduler) ScheduleResync(interval time.Duration, task func()) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("resync interval must be positive")
	}
	if task == nil {
		return "", fmt.Errorf("resync task is required")
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("asset-resync"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create resync job: %w", err)
	}

	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting resync scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping resync scheduler")
	return s.scheduler.Shutdown()
}
