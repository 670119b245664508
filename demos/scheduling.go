// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package demos

import (
	"go.uber.org/zap"

	"github.com/joamaki/reactivelab/stream"
)

// Scheduling holds the demos that move work onto other execution contexts.
// Neither hint changes the emitted values, only where the work runs.
type Scheduling struct {
	log         *zap.Logger
	subscribeOn stream.Scheduler
	publishOn   stream.Scheduler
}

// NewScheduling returns the scheduling demos. 'subscribeOn' runs the upstream of
// FluxMapWithSubscribeOn, 'publishOn' runs the downstream of FluxMapWithPublishOn.
func NewScheduling(log *zap.Logger, subscribeOn, publishOn stream.Scheduler) *Scheduling {
	return &Scheduling{log: log, subscribeOn: subscribeOn, publishOn: publishOn}
}

// FluxMapWithSubscribeOn doubles 1 through 10 with the range and the doubling
// running on the subscribe-on scheduler.
func (s *Scheduling) FluxMapWithSubscribeOn() stream.Observable[int] {
	return stream.SubscribeOn(
		stream.Log(stream.Map(stream.RangeN(1, 10), double), s.log, "fluxMapWithSubscribeOn"),
		s.subscribeOn)
}

// FluxMapWithPublishOn doubles 1 through 10 with the range running on the
// observing goroutine and the doubling on the publish-on scheduler.
func (s *Scheduling) FluxMapWithPublishOn() stream.Observable[int] {
	return stream.Log(
		stream.Map(stream.PublishOn(stream.RangeN(1, 10), s.publishOn), double),
		s.log, "fluxMapWithPublishOn")
}
