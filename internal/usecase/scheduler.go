package usecase

import (
	"context"
	"log/slog"
	"time"

	"DailyKnowledge/internal/domain"
	"DailyKnowledge/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	spec     string
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring job.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, spec string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, spec: spec, logger: log}
}

// RunOnce executes the pipeline and logs a failure as a single line.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) {
	if s.pipeline == nil {
		return
	}
	if _, err := s.pipeline.Run(ctx, trigger); err != nil {
		s.logger.Error("run failed", "kind", domain.KindOf(err).String(), "error", err)
	}
}

// Start registers the pipeline with the driver and starts it.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	}

	if err := s.driver.Schedule(s.spec, job); err != nil {
		return err
	}

	return s.driver.Start(ctx)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
