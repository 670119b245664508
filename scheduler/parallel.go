// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package scheduler

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultQueueSize is the number of tasks a parallel scheduler buffers
// before Schedule blocks.
const DefaultQueueSize = 256

type parallel struct {
	name    string
	metrics *Metrics
	counts  counters

	mu       sync.RWMutex
	disposed bool
	tasks    chan func()
	group    errgroup.Group
}

// NewParallel creates a scheduler with 'workers' long-lived worker goroutines
// taking tasks from a shared queue. Meant for short, CPU-bound tasks.
func NewParallel(name string, workers int, opts ...Option) Scheduler {
	if workers < 1 {
		workers = 1
	}
	o := newOptions(opts)
	s := &parallel{
		name:    name,
		metrics: o.metrics,
		tasks:   make(chan func(), DefaultQueueSize),
	}
	for i := 0; i < workers; i++ {
		s.counts.workerStarted(s.metrics, s.name)
		s.group.Go(s.work)
	}
	return s
}

// NewSingle creates a scheduler with a single worker goroutine. Tasks run one at a
// time in the order they were scheduled.
func NewSingle(name string, opts ...Option) Scheduler {
	return NewParallel(name, 1, opts...)
}

func (s *parallel) work() error {
	defer s.counts.workerStopped(s.metrics, s.name)
	for task := range s.tasks {
		task()
		s.counts.completed(s.metrics, s.name)
	}
	return nil
}

func (s *parallel) Name() string { return s.name }

func (s *parallel) Schedule(task func()) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disposed {
		return ErrDisposed
	}
	s.counts.submitted(s.metrics, s.name)
	s.tasks <- task
	return nil
}

func (s *parallel) Stats() Stats {
	return s.counts.stats()
}

func (s *parallel) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	close(s.tasks)
	s.mu.Unlock()
	return s.group.Wait()
}
