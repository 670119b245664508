// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package scheduler provides execution contexts for the stream.SubscribeOn and
// stream.PublishOn operators.
package scheduler

import (
	"errors"

	"github.com/joamaki/reactivelab/stream"
)

// ErrDisposed is returned when scheduling on a disposed scheduler.
var ErrDisposed = errors.New("scheduler disposed")

// Scheduler is a named stream.Scheduler with an explicit lifetime.
type Scheduler interface {
	stream.Scheduler

	// Name identifies the scheduler in metrics and logs.
	Name() string

	// Stats returns a snapshot of the task counters.
	Stats() Stats

	// Dispose stops accepting new tasks, waits for the accepted ones to
	// finish and stops the workers. Calling Dispose more than once is a no-op.
	Dispose() error
}

// Stats is a snapshot of the counters of a scheduler.
type Stats struct {
	Submitted int64
	Completed int64
	Workers   int
}

type immediate struct {
	name    string
	metrics *Metrics
	counts  counters
}

// Immediate returns a scheduler that runs each task on the goroutine that
// schedules it.
func Immediate(opts ...Option) Scheduler {
	o := newOptions(opts)
	return &immediate{name: "immediate", metrics: o.metrics}
}

func (s *immediate) Name() string { return s.name }

func (s *immediate) Schedule(task func()) error {
	s.counts.submitted(s.metrics, s.name)
	task()
	s.counts.completed(s.metrics, s.name)
	return nil
}

func (s *immediate) Stats() Stats {
	return s.counts.stats()
}

func (s *immediate) Dispose() error { return nil }
