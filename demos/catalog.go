// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package demos

import (
	"context"
	"sort"
	"strings"

	"github.com/joamaki/reactivelab/stream"
)

// Demo groups.
const (
	GroupPublisher  = "publisher"
	GroupOperator   = "operator"
	GroupScheduling = "scheduling"
)

// Demo is a runnable entry of the catalog.
type Demo struct {
	Group       string
	Name        string
	Description string

	// Run subscribes to the demo's stream. 'onNext' gets every item and exactly
	// one of 'onError' and 'onComplete' is called at the end. Any of them may
	// be nil. The returned error is the one passed to 'onError'.
	Run func(ctx context.Context, onNext func(any), onError func(error), onComplete func()) error
}

func demo[T any](group, name, description string, src stream.Observable[T]) Demo {
	return Demo{
		Group:       group,
		Name:        name,
		Description: description,
		Run: func(ctx context.Context, onNext func(any), onError func(error), onComplete func()) error {
			var next func(T)
			if onNext != nil {
				next = func(item T) { onNext(item) }
			}
			return stream.Subscribe(ctx, src, next, onError, onComplete)
		},
	}
}

// MainSequence names the demos run when no demo is asked for.
var MainSequence = []string{"startFlux", "startMono", "startMono2"}

// Catalog is the registry of all demos by name.
type Catalog struct {
	demos  []Demo
	byName map[string]Demo
}

// NewCatalog registers every demo of 'p', 'o' and 's'.
func NewCatalog(p *Publisher, o *Operators, s *Scheduling) *Catalog {
	demos := []Demo{
		demo(GroupPublisher, "startFlux", "range of 1..10", p.StartFlux()),
		demo(GroupPublisher, "startFlux2", "letters a, b, c", p.StartFlux2()),
		demo(GroupPublisher, "startMono", "single value 1", p.StartMono()),
		demo(GroupPublisher, "startMono2", "empty", p.StartMono2()),
		demo(GroupPublisher, "startMono3", "immediate failure", p.StartMono3()),

		demo(GroupOperator, "fluxMap", "1..10 doubled", o.FluxMap()),
		demo(GroupOperator, "fluxFilter", "even numbers of 1..10", o.FluxFilter()),
		demo(GroupOperator, "fluxTake", "first three of 1..10", o.FluxTake()),
		demo(GroupOperator, "fluxSkip", "1..10 without the first seven", o.FluxSkip()),
		demo(GroupOperator, "fluxReduce", "sum of 1..10", o.FluxReduce()),
		demo(GroupOperator, "fluxThrottle", "1..5 rate limited", o.FluxThrottle()),
		demo(GroupOperator, "fluxTakeWhile", "1..10 while below 5", o.FluxTakeWhile()),
		demo(GroupOperator, "fluxScan", "running sum of 1..10", o.FluxScan()),
		demo(GroupOperator, "fluxInterval", "first five ticks of a counter", o.FluxInterval()),
		demo(GroupOperator, "monoDelay", "single value after a delay", o.MonoDelay()),
		demo(GroupOperator, "fluxConcatMap", "ordered flattening of 10x10", o.FluxConcatMap()),
		demo(GroupOperator, "fluxFlatMap", "unordered flattening of 10x10", o.FluxFlatMap()),
		demo(GroupOperator, "monoFlatMapMany", "single value expanded to 1..10", o.MonoFlatMapMany()),
		demo(GroupOperator, "defaultIfEmpty1", "filtered out, default value", o.DefaultIfEmpty1()),
		demo(GroupOperator, "switchIfEmpty1", "filtered out, fallback sequence", o.SwitchIfEmpty1()),
		demo(GroupOperator, "switchIfEmpty2", "filtered out, fallback failure", o.SwitchIfEmpty2()),
		demo(GroupOperator, "errorResume", "failure replaced by a fallback sequence", o.ErrorResume()),
		demo(GroupOperator, "errorReturn", "failure replaced by a fallback value", o.ErrorReturn()),
		demo(GroupOperator, "fluxRetry", "failing attempts resubscribed with backoff", o.FluxRetry()),
		demo(GroupOperator, "fluxConcat", "1,2,3 followed by 4", o.FluxConcat()),
		demo(GroupOperator, "fluxMerge", "merge of 1,2,3 and 4", o.FluxMerge()),
		demo(GroupOperator, "monoMerge", "merge of three single values", o.MonoMerge()),
		demo(GroupOperator, "fluxZip", "index-aligned pairs joined", o.FluxZip()),
		demo(GroupOperator, "fluxZipTuples", "index-aligned pairs", o.FluxZipTuples()),
		demo(GroupOperator, "monoZip", "sum of three zipped values", o.MonoZip()),

		demo(GroupScheduling, "fluxMapWithSubscribeOn", "upstream on the subscribe-on scheduler", s.FluxMapWithSubscribeOn()),
		demo(GroupScheduling, "fluxMapWithPublishOn", "downstream on the publish-on scheduler", s.FluxMapWithPublishOn()),
	}

	c := &Catalog{demos: demos, byName: make(map[string]Demo, len(demos))}
	for _, d := range demos {
		c.byName[strings.ToLower(d.Name)] = d
	}
	return c
}

// All returns the demos ordered by group and registration order.
func (c *Catalog) All() []Demo {
	out := append([]Demo(nil), c.demos...)
	order := map[string]int{GroupPublisher: 0, GroupOperator: 1, GroupScheduling: 2}
	sort.SliceStable(out, func(i, j int) bool { return order[out[i].Group] < order[out[j].Group] })
	return out
}

// Lookup finds a demo by name, ignoring case.
func (c *Catalog) Lookup(name string) (Demo, bool) {
	d, ok := c.byName[strings.ToLower(name)]
	return d, ok
}
