package usecase

import (
	"context"
	"time"

	"cfptracker/internal/ports"
)

// Scheduler wires the interval driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	opts     RunOptions
	onResult func(RunResult, error)
}

// NewScheduler returns a helper to start/stop recurring runs. onResult, when
// non-nil, receives the outcome of every run.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, opts RunOptions, onResult func(RunResult, error)) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, opts: opts, onResult: onResult}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(time.Time) {
		res, err := s.pipeline.Run(ctx, s.opts)
		if s.onResult != nil {
			s.onResult(res, err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
