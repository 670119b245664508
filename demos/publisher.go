// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package demos

import (
	"errors"

	"go.uber.org/zap"

	"github.com/joamaki/reactivelab/stream"
)

var (
	// ErrHelloWorld is the failure emitted by Publisher.StartMono3.
	ErrHelloWorld = errors.New("hello world")

	// ErrNotExist is the failure Operators.SwitchIfEmpty2 switches to.
	ErrNotExist = errors.New("Not exist value...")
)

// Publisher holds the source demos: finite sequences, a single value,
// an empty stream and an immediate failure.
type Publisher struct {
	log *zap.Logger
}

// NewPublisher returns a Publisher that logs the signals of its logged demos to
// 'log'. A nil logger disables logging.
func NewPublisher(log *zap.Logger) *Publisher {
	return &Publisher{log: log}
}

// StartFlux emits 1 through 10.
func (p *Publisher) StartFlux() stream.Observable[int] {
	return stream.Log(stream.RangeN(1, 10), p.log, "startFlux")
}

// StartFlux2 emits the letters a, b and c.
func (p *Publisher) StartFlux2() stream.Observable[string] {
	return stream.FromSlice([]string{"a", "b", "c"})
}

// StartMono emits the single value 1.
func (p *Publisher) StartMono() stream.Observable[int] {
	return stream.Log(stream.Just(1), p.log, "startMono")
}

// StartMono2 completes without emitting anything.
func (p *Publisher) StartMono2() stream.Observable[int] {
	return stream.Empty[int]()
}

// StartMono3 fails with ErrHelloWorld before emitting anything.
func (p *Publisher) StartMono3() stream.Observable[int] {
	return stream.Log(stream.Error[int](ErrHelloWorld), p.log, "startMono3")
}
