package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for periodic rebuilds.
type Scheduler struct {
	scheduler gocron.Scheduler
	daemon    *Daemon
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(daemon *Daemon) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, daemon: daemon}, nil
}

// SchedulePeriodicRun schedules a rebuild at the given interval.
func (s *Scheduler) SchedulePeriodicRun(ctx context.Context, interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.daemon.ExecuteRun(ctx, TriggerSchedule) }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
