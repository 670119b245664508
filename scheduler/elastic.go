// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package scheduler

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// DefaultIdleTTL is how long an idle elastic worker waits for work before exiting.
const DefaultIdleTTL = 60 * time.Second

type boundedElastic struct {
	name       string
	metrics    *Metrics
	counts     counters
	maxWorkers int
	idleTTL    time.Duration

	mu       sync.Mutex
	disposed bool
	backlog  *queue.Queue
	idle     []chan struct{}
	live     int
	wg       sync.WaitGroup
}

// NewBoundedElastic creates a scheduler that starts workers on demand, up to
// 'maxWorkers' of them. Tasks scheduled while all workers are busy wait in an
// unbounded FIFO backlog. Workers that have been idle for 'idleTTL' exit.
// Meant for blocking, long-running tasks such as whole subscriptions.
func NewBoundedElastic(name string, maxWorkers int, idleTTL time.Duration, opts ...Option) Scheduler {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	o := newOptions(opts)
	return &boundedElastic{
		name:       name,
		metrics:    o.metrics,
		maxWorkers: maxWorkers,
		idleTTL:    idleTTL,
		backlog:    queue.New(),
	}
}

func (s *boundedElastic) Name() string { return s.name }

func (s *boundedElastic) Schedule(task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrDisposed
	}
	s.counts.submitted(s.metrics, s.name)
	s.backlog.Add(task)

	switch {
	case len(s.idle) > 0:
		// Hand the task to the most recently idled worker.
		last := len(s.idle) - 1
		wake := s.idle[last]
		s.idle = s.idle[:last]
		wake <- struct{}{}
	case s.live < s.maxWorkers:
		s.live++
		s.counts.workerStarted(s.metrics, s.name)
		s.wg.Add(1)
		go s.work()
	}
	return nil
}

func (s *boundedElastic) work() {
	defer s.wg.Done()

	wake := make(chan struct{}, 1)
	timer := time.NewTimer(s.idleTTL)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.backlog.Length() > 0 {
			task := s.backlog.Remove().(func())
			s.mu.Unlock()

			task()
			s.counts.completed(s.metrics, s.name)
			continue
		}
		if s.disposed {
			s.exitLocked()
			s.mu.Unlock()
			return
		}
		s.idle = append(s.idle, wake)
		s.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.idleTTL)

		select {
		case <-wake:
		case <-timer.C:
			s.mu.Lock()
			if s.removeIdleLocked(wake) {
				s.exitLocked()
				s.mu.Unlock()
				return
			}
			// Raced with Schedule or Dispose which already took us off the
			// idle list and will wake us up.
			s.mu.Unlock()
			<-wake
		}
	}
}

func (s *boundedElastic) removeIdleLocked(wake chan struct{}) bool {
	for i, w := range s.idle {
		if w == wake {
			s.idle = append(s.idle[:i], s.idle[i+1:]...)
			return true
		}
	}
	return false
}

func (s *boundedElastic) exitLocked() {
	s.live--
	s.counts.workerStopped(s.metrics, s.name)
}

func (s *boundedElastic) Stats() Stats {
	return s.counts.stats()
}

func (s *boundedElastic) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	for _, wake := range s.idle {
		wake <- struct{}{}
	}
	s.idle = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
