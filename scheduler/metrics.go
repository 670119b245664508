// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package scheduler

import (
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reactivelab"

// Metrics are the prometheus collectors shared by the schedulers.
type Metrics struct {
	submitted *prometheus.CounterVec
	completed *prometheus.CounterVec
	workers   *prometheus.GaugeVec
}

// NewMetrics creates the scheduler metrics and registers them to 'reg'.
// Metrics already registered by an earlier call are reused, so schedulers
// created with separate calls can share a registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tasks_submitted_total",
			Help:      "Number of tasks accepted by the scheduler.",
		}, []string{"scheduler"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tasks_completed_total",
			Help:      "Number of tasks the scheduler has finished running.",
		}, []string{"scheduler"}),
		workers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "workers",
			Help:      "Number of live worker goroutines.",
		}, []string{"scheduler"}),
	}

	var err error
	m.submitted, err = register(reg, m.submitted)
	if err != nil {
		return nil, err
	}
	m.completed, err = register(reg, m.completed)
	if err != nil {
		return nil, err
	}
	m.workers, err = register(reg, m.workers)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// counters keeps the numbers reported by Stats and mirrors them into the
// prometheus metrics when those are enabled.
type counters struct {
	nSubmitted atomic.Int64
	nCompleted atomic.Int64
	nWorkers   atomic.Int64
}

func (c *counters) submitted(m *Metrics, name string) {
	c.nSubmitted.Add(1)
	if m != nil {
		m.submitted.WithLabelValues(name).Inc()
	}
}

func (c *counters) completed(m *Metrics, name string) {
	c.nCompleted.Add(1)
	if m != nil {
		m.completed.WithLabelValues(name).Inc()
	}
}

func (c *counters) workerStarted(m *Metrics, name string) {
	c.nWorkers.Add(1)
	if m != nil {
		m.workers.WithLabelValues(name).Inc()
	}
}

func (c *counters) workerStopped(m *Metrics, name string) {
	c.nWorkers.Add(-1)
	if m != nil {
		m.workers.WithLabelValues(name).Dec()
	}
}

func (c *counters) stats() Stats {
	return Stats{
		Submitted: c.nSubmitted.Load(),
		Completed: c.nCompleted.Load(),
		Workers:   int(c.nWorkers.Load()),
	}
}

// Option configures a scheduler.
type Option func(*options)

type options struct {
	metrics *Metrics
}

// WithMetrics reports the scheduler's counters through 'm'.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
