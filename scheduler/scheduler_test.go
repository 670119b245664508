// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joamaki/reactivelab/stream"
)

func runTasks(t *testing.T, s Scheduler, n int) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, s.Schedule(wg.Done))
	}
	wg.Wait()
}

func TestSchedulers(t *testing.T) {
	cases := map[string]func() Scheduler{
		"immediate": func() Scheduler { return Immediate() },
		"single":    func() Scheduler { return NewSingle("single") },
		"parallel":  func() Scheduler { return NewParallel("parallel", 4) },
		"elastic":   func() Scheduler { return NewBoundedElastic("elastic", 4, time.Second) },
	}

	for name, newScheduler := range cases {
		t.Run(name, func(t *testing.T) {
			s := newScheduler()
			runTasks(t, s, 20)
			require.NoError(t, s.Dispose())

			stats := s.Stats()
			assert.EqualValues(t, 20, stats.Submitted)
			assert.EqualValues(t, 20, stats.Completed)
			assert.Equal(t, 0, stats.Workers)

			if name != "immediate" {
				assert.ErrorIs(t, s.Schedule(func() {}), ErrDisposed)
			}
			assert.NoError(t, s.Dispose(), "second Dispose")
		})
	}
}

func TestSingleKeepsOrder(t *testing.T) {
	s := NewSingle("single")
	defer s.Dispose()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(10)
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, s.Schedule(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestBoundedElasticLimitsWorkers(t *testing.T) {
	const maxWorkers = 3
	s := NewBoundedElastic("elastic", maxWorkers, time.Second)

	var (
		running    atomic.Int32
		maxRunning atomic.Int32
		release    = make(chan struct{})
		wg         sync.WaitGroup
	)
	wg.Add(10)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Schedule(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			<-release
			running.Add(-1)
		}))
		assert.LessOrEqual(t, s.Stats().Workers, maxWorkers)
	}

	require.Eventually(t, func() bool { return running.Load() == maxWorkers }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, maxWorkers, maxRunning.Load())
	require.NoError(t, s.Dispose())
	assert.EqualValues(t, 10, s.Stats().Completed)
}

func TestBoundedElasticIdleWorkersExit(t *testing.T) {
	s := NewBoundedElastic("elastic", 2, 10*time.Millisecond)
	defer s.Dispose()

	runTasks(t, s, 4)
	require.Eventually(t, func() bool { return s.Stats().Workers == 0 }, time.Second, time.Millisecond)

	// New workers are started after the old ones have exited.
	runTasks(t, s, 4)
	require.Eventually(t, func() bool { return s.Stats().Completed == 8 }, time.Second, time.Millisecond)
}

func TestDisposeRunsBacklog(t *testing.T) {
	s := NewBoundedElastic("elastic", 1, time.Second)

	var done atomic.Int32
	block := make(chan struct{})
	require.NoError(t, s.Schedule(func() { <-block; done.Add(1) }))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Schedule(func() { done.Add(1) }))
	}

	go close(block)
	require.NoError(t, s.Dispose())
	assert.EqualValues(t, 6, done.Load())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	// Registering again reuses the collectors.
	m2, err := NewMetrics(reg)
	require.NoError(t, err)

	p := NewParallel("p", 2, WithMetrics(m))
	e := NewBoundedElastic("e", 2, time.Second, WithMetrics(m2))
	runTasks(t, p, 5)
	runTasks(t, e, 3)
	require.NoError(t, p.Dispose())
	require.NoError(t, e.Dispose())

	assert.Equal(t, 5.0, testutil.ToFloat64(m.submitted.WithLabelValues("p")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.completed.WithLabelValues("p")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.completed.WithLabelValues("e")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.workers.WithLabelValues("p")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestSubscribeOnPublishOnTasks(t *testing.T) {
	ctx := context.Background()
	double := func(x int) int { return x * 2 }

	elastic := NewBoundedElastic("elastic", 2, time.Second)
	defer elastic.Dispose()
	par := NewParallel("parallel", 2)
	defer par.Dispose()

	subscribed, err := stream.ToSlice(ctx, stream.SubscribeOn(stream.Map(stream.RangeN(1, 10), double), elastic))
	require.NoError(t, err)
	published, err := stream.ToSlice(ctx, stream.Map(stream.PublishOn(stream.RangeN(1, 10), par), double))
	require.NoError(t, err)

	assert.Equal(t, subscribed, published)

	// The counters are bumped after the task returns, which may be after the
	// stream has already completed.
	require.Eventually(t, func() bool { return elastic.Stats().Completed == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return par.Stats().Completed == 10 }, time.Second, time.Millisecond)
	assert.EqualValues(t, 1, elastic.Stats().Submitted)
	assert.EqualValues(t, 10, par.Stats().Submitted)
}
