// Feedrank - Personalized Feed Ranking and View Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultTaskBuffer bounds the tasks waiting for the runner.
const DefaultTaskBuffer = 1024

// Task is background work run with the runner's context.
type Task func(ctx context.Context)

// TaskRunner runs submitted tasks sequentially under supervision. Tasks
// outlive the request that submitted them but not the service.
type TaskRunner struct {
	tasks  chan Task
	logger zerolog.Logger
	name   string
}

// NewTaskRunner creates a runner with the given queue size.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTaskRunner(buffer int, logger zerolog.Logger) *TaskRunner {
	if buffer <= 0 {
		buffer = DefaultTaskBuffer
	}
	return &TaskRunner{
		tasks:  make(chan Task, buffer),
		logger: logger.With().Str("service", "task-runner").Logger(),
		name:   "task-runner",
	}
}

// Submit queues task without blocking. It reports false when the queue is
// full and the task was not accepted.
func (r *TaskRunner) Submit(task Task) bool {
	select {
	case r.tasks <- task:
		return true
	default:
		r.logger.Warn().Int("pending", len(r.tasks)).Msg("task queue full, dropping task")
		return false
	}
}

// Pending returns the number of queued tasks.
func (r *TaskRunner) Pending() int {
	return len(r.tasks)
}

// Serve implements suture.Service. A panicking task is logged and returned
// as an error so the supervisor restarts the runner; queued tasks survive.
func (r *TaskRunner) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-r.tasks:
			if err := r.run(ctx, task); err != nil {
				return err
			}
		}
	}
}

func (r *TaskRunner) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Msg("background task panicked")
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	task(ctx)
	return nil
}

func (r *TaskRunner) String() string {
	return r.name
}
