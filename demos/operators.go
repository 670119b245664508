// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package demos

import (
	"time"

	"go.uber.org/zap"

	"github.com/joamaki/reactivelab/stream"
)

// Options tune the timing of the operator demos.
type Options struct {
	// ConcatMapDelay delays every inner item of FluxConcatMap.
	ConcatMapDelay time.Duration

	// FlatMapDelay delays every inner item of FluxFlatMap.
	FlatMapDelay time.Duration

	// ThrottleRate is the number of items per second FluxThrottle lets through.
	ThrottleRate float64

	// Tick is the period of FluxInterval, the delay of MonoDelay and the
	// first backoff of FluxRetry.
	Tick time.Duration
}

// DefaultOptions are the timings used when none are configured.
var DefaultOptions = Options{
	ConcatMapDelay: 100 * time.Millisecond,
	FlatMapDelay:   10 * time.Millisecond,
	ThrottleRate:   20,
	Tick:           100 * time.Millisecond,
}

// Operators holds the demos that chain transformation and combination operators.
type Operators struct {
	log  *zap.Logger
	opts Options
}

// NewOperators returns the operator demos. A nil logger disables logging.
func NewOperators(log *zap.Logger, opts Options) *Operators {
	if log == nil {
		log = zap.NewNop()
	}
	return &Operators{log: log, opts: opts}
}

func double(x int) int { return x * 2 }

func greaterThan100(x int) bool { return x > 100 }

//
// Basic transformations
//

// FluxMap doubles 1 through 10.
func (o *Operators) FluxMap() stream.Observable[int] {
	return stream.Log(stream.Map(stream.RangeN(1, 10), double), o.log, "fluxMap")
}

// FluxFilter keeps the even numbers of 1 through 10.
func (o *Operators) FluxFilter() stream.Observable[int] {
	return stream.Log(
		stream.Filter(stream.RangeN(1, 10), func(x int) bool { return x%2 == 0 }),
		o.log, "fluxFilter")
}

// FluxTake takes the first three of 1 through 10.
func (o *Operators) FluxTake() stream.Observable[int] {
	return stream.Log(stream.Take(3, stream.RangeN(1, 10)), o.log, "fluxTake")
}

// FluxSkip skips the first seven of 1 through 10.
func (o *Operators) FluxSkip() stream.Observable[int] {
	return stream.Log(stream.Skip(7, stream.RangeN(1, 10)), o.log, "fluxSkip")
}

// FluxReduce sums 1 through 10.
func (o *Operators) FluxReduce() stream.Observable[int] {
	sum := func(acc, x int) int { return acc + x }
	return stream.Log(stream.Reduce(stream.RangeN(1, 10), 0, sum), o.log, "fluxReduce")
}

// FluxThrottle emits 1 through 5 no faster than the configured rate.
func (o *Operators) FluxThrottle() stream.Observable[int] {
	return stream.Log(stream.Throttle(stream.RangeN(1, 5), o.opts.ThrottleRate, 1), o.log, "fluxThrottle")
}

// FluxTakeWhile takes from 1 through 10 while the numbers stay below 5.
func (o *Operators) FluxTakeWhile() stream.Observable[int] {
	return stream.Log(
		stream.TakeWhile(func(x int) bool { return x < 5 }, stream.RangeN(1, 10)),
		o.log, "fluxTakeWhile")
}

// FluxScan emits the running sum of 1 through 10.
func (o *Operators) FluxScan() stream.Observable[int] {
	sum := func(acc, x int) int { return acc + x }
	return stream.Log(stream.Scan(stream.RangeN(1, 10), 0, sum), o.log, "fluxScan")
}

//
// Timing
//

// FluxInterval takes the first five ticks of a counter ticking every Tick.
func (o *Operators) FluxInterval() stream.Observable[int] {
	return stream.Log(stream.Take(5, stream.Interval(o.opts.Tick)), o.log, "fluxInterval")
}

// MonoDelay emits 1 after waiting for one Tick.
func (o *Operators) MonoDelay() stream.Observable[int] {
	return stream.Log(stream.Delay(stream.Just(1), o.opts.Tick), o.log, "monoDelay")
}

//
// Flattening
//

func tens(i int) stream.Observable[int] {
	return stream.RangeN(i*10, 10)
}

// FluxConcatMap expands each of 1 through 10 into ten numbers starting from i*10
// and emits them strictly in source order: 10..19, 20..29 up to 100..109.
func (o *Operators) FluxConcatMap() stream.Observable[int] {
	return stream.Log(
		stream.ConcatMap(stream.RangeN(1, 10), func(i int) stream.Observable[int] {
			return stream.DelayElements(tens(i), o.opts.ConcatMapDelay)
		}),
		o.log, "fluxConcatMap")
}

// FluxFlatMap expands like FluxConcatMap, but observes the expansions concurrently
// and emits the numbers interleaved in arrival order.
func (o *Operators) FluxFlatMap() stream.Observable[int] {
	return stream.Log(
		stream.FlatMap(stream.RangeN(1, 10), func(i int) stream.Observable[int] {
			return stream.DelayElements(tens(i), o.opts.FlatMapDelay)
		}),
		o.log, "fluxFlatMap")
}

// MonoFlatMapMany expands the single value 10 into 1 through 10.
func (o *Operators) MonoFlatMapMany() stream.Observable[int] {
	return stream.Log(
		stream.ConcatMap(stream.Just(10), func(i int) stream.Observable[int] {
			return stream.RangeN(1, i)
		}),
		o.log, "monoFlatMapMany")
}

//
// Empty and error fallbacks
//

// DefaultIfEmpty1 filters out 100 and falls back to 30.
func (o *Operators) DefaultIfEmpty1() stream.Observable[int] {
	return stream.Log(
		stream.DefaultIfEmpty(stream.Filter(stream.Just(100), greaterThan100), 30),
		o.log, "defaultIfEmpty1")
}

// SwitchIfEmpty1 filters out 100 and switches to 30 doubled.
func (o *Operators) SwitchIfEmpty1() stream.Observable[int] {
	return stream.Log(
		stream.SwitchIfEmpty(
			stream.Filter(stream.Just(100), greaterThan100),
			stream.Map(stream.Just(30), double)),
		o.log, "switchIfEmpty1")
}

// SwitchIfEmpty2 filters out 100 and switches to a failure with ErrNotExist.
func (o *Operators) SwitchIfEmpty2() stream.Observable[int] {
	return stream.Log(
		stream.SwitchIfEmpty(
			stream.Filter(stream.Just(100), greaterThan100),
			stream.Error[int](ErrNotExist)),
		o.log, "switchIfEmpty2")
}

// ErrorResume replaces the immediate ErrHelloWorld failure with -1 and -2.
func (o *Operators) ErrorResume() stream.Observable[int] {
	return stream.Log(
		stream.OnErrorResume(stream.Error[int](ErrHelloWorld), func(err error) stream.Observable[int] {
			o.log.Warn("resuming after failure", zap.Error(err))
			return stream.FromSlice([]int{-1, -2})
		}),
		o.log, "errorResume")
}

// ErrorReturn replaces the immediate ErrHelloWorld failure with -1.
func (o *Operators) ErrorReturn() stream.Observable[int] {
	return stream.Log(stream.OnErrorReturn(stream.Error[int](ErrHelloWorld), -1), o.log, "errorReturn")
}

// FluxRetry subscribes to a source that emits its attempt number and fails
// with ErrHelloWorld on the first two attempts. The failures are retried up
// to three times with a backoff starting from Tick, so the demo emits 1, 2, 3
// and completes. Every subscription starts from the first attempt.
func (o *Operators) FluxRetry() stream.Observable[int] {
	return stream.Defer(func() stream.Observable[int] {
		attempt := 0
		flaky := stream.Defer(func() stream.Observable[int] {
			attempt++
			if attempt < 3 {
				return stream.Concat(stream.Just(attempt), stream.Error[int](ErrHelloWorld))
			}
			return stream.Just(attempt)
		})

		retry := stream.LimitRetries(
			stream.BackoffRetry(stream.AlwaysRetry, o.opts.Tick, 4*o.opts.Tick), 3)
		logged := func(err error) bool {
			ok := retry(err)
			o.log.Warn("retrying after failure", zap.Int("attempt", attempt), zap.Bool("retry", ok), zap.Error(err))
			return ok
		}
		return stream.Log(stream.Retry(flaky, logged), o.log, "fluxRetry")
	})
}

//
// Combining
//

// FluxConcat appends "4" after "1", "2" and "3". Unlike FluxMerge the order
// is always the same.
func (o *Operators) FluxConcat() stream.Observable[string] {
	return stream.Log(
		stream.Concat(stream.FromSlice([]string{"1", "2", "3"}), stream.Just("4")),
		o.log, "fluxConcat")
}

// FluxMerge merges "1", "2", "3" with "4". The order across the two sources
// is not defined.
func (o *Operators) FluxMerge() stream.Observable[string] {
	return stream.Log(
		stream.Merge(stream.FromSlice([]string{"1", "2", "3"}), stream.Just("4")),
		o.log, "fluxMerge")
}

// MonoMerge merges the single values "1", "2" and "3".
func (o *Operators) MonoMerge() stream.Observable[string] {
	return stream.Log(
		stream.MergeWith(stream.MergeWith(stream.Just("1"), stream.Just("2")), stream.Just("3")),
		o.log, "monoMerge")
}

// FluxZip pairs a, b, c with d, e, f into "a d", "b e" and "c f".
func (o *Operators) FluxZip() stream.Observable[string] {
	return stream.Log(
		stream.Map(
			stream.Zip2(
				stream.FromSlice([]string{"a", "b", "c"}),
				stream.FromSlice([]string{"d", "e", "f"})),
			func(t stream.Tuple2[string, string]) string { return t.V1 + " " + t.V2 }),
		o.log, "fluxZip")
}

// MonoZip zips the single values 1, 2 and 3 and sums them.
func (o *Operators) MonoZip() stream.Observable[int] {
	return stream.Log(
		stream.Map(
			stream.Zip3(stream.Just(1), stream.Just(2), stream.Just(3)),
			func(t stream.Tuple3[int, int, int]) int { return t.V1 + t.V2 + t.V3 }),
		o.log, "monoZip")
}

// FluxZipTuples zips a, b, c with 1, 2, 3, 4 and emits the raw pairs. The
// fourth number has no partner and is dropped.
func (o *Operators) FluxZipTuples() stream.Observable[stream.Tuple2[string, int]] {
	return stream.Log(
		stream.Zip2(stream.FromSlice([]string{"a", "b", "c"}), stream.RangeN(1, 4)),
		o.log, "fluxZipTuples")
}
