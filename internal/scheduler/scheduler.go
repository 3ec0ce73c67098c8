package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher is the part of the coordinator the scheduler drives.
type Refresher interface {
	Refresh() bool
}

// Scheduler periodically refreshes the selected location's weather.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, target Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("refresh interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("refresh scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) run() {
	if s.target.Refresh() {
		s.logger.Debug("refresh started")
		return
	}
	s.logger.Debug("refresh skipped")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
