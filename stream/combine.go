// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"sync"
)

//
// Combining multiple observables
//

// Concat takes one or more observable of the same type and emits the items from each of
// them in order.
func Concat[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			for _, src := range srcs {
				err := src.Observe(
					ctx,
					next)
				if err != nil {
					return err
				}
			}
			return nil
		})
}

type mergeNext[T any] struct {
	item T
	errs chan error
}

// Merge multiple observables into one. Error from any one of the sources will
// cancel and complete the stream. Error from downstream is propagated to the
// upstream that emitted the item.
//
// Items from one source keep their relative order, but there is no ordering
// guarantee across sources.
//
// Beware: the observables are observed from goroutines spawned by Merge()
// and thus run concurrently, e.g. functions doFoo and doBar are called from
// different goroutines than Observe():
//
//	Merge(Map(foo, doFoo), Map(bar, doBar)).Observe(...)
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			if len(srcs) == 0 {
				return ctx.Err()
			}

			mergeCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			items := make(chan mergeNext[T], len(srcs))
			errs := make(chan error, len(srcs))

			// Use a wait group to wait for the forked goroutines to
			// exit before we return.
			var wg sync.WaitGroup
			wg.Add(len(srcs))

			// Fork goroutines to observe each source. We feed
			// the items to the 'items' channel in order to maintain
			// the invariant of calling 'next' from the goroutine calling
			// Observe().
			for _, src := range srcs {
				go func(src Observable[T]) {
					defer wg.Done()

					nextErrs := make(chan error, 1)
					errs <- src.Observe(
						mergeCtx,
						func(item T) error {
							select {
							case items <- mergeNext[T]{item, nextErrs}:
							case <-mergeCtx.Done():
								return mergeCtx.Err()
							}
							return <-nextErrs
						})
				}(src)
			}

			// Fork a goroutine to handle errors.
			var finalError error
			go func() {
				for srcsRunning := len(srcs); srcsRunning > 0; srcsRunning-- {
					if err := <-errs; err != nil && finalError == nil {
						// Remember the error and cancel the context
						// to stop other upstreams.
						finalError = err
						cancel()
					}
				}
				wg.Wait()
				close(items)
			}()

			// Feed downstream until all sources are done. Once downstream
			// has failed the remaining requests are answered with the same
			// error without calling 'next' again.
			var nextErr error
			for req := range items {
				if nextErr == nil {
					nextErr = next(req.item)
				}
				req.errs <- nextErr
			}

			return finalError
		})
}

// MergeWith merges 'others' into 'src'. Equal to Merge(src, others...).
func MergeWith[T any](src Observable[T], others ...Observable[T]) Observable[T] {
	return Merge(append([]Observable[T]{src}, others...)...)
}

// Zip2 takes two observables and merges them into an observable of pairs.
// The stream completes when either of the sources completes.
func Zip2[V1, V2 any](src1 Observable[V1], src2 Observable[V2]) Observable[Tuple2[V1, V2]] {
	return FuncObservable[Tuple2[V1, V2]](
		func(ctx context.Context, next func(Tuple2[V1, V2]) error) error {
			subCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			errs := make(chan error, 2)

			v1s := toChannel(subCtx, errs, src1)
			v2s := toChannel(subCtx, errs, src2)

			var errOut error
			for {
				v1, ok := <-v1s
				if !ok {
					break
				}
				v2, ok := <-v2s
				if !ok {
					break
				}

				if err := next(Tuple2[V1, V2]{V1: v1, V2: v2}); err != nil {
					errOut = err
					break
				}
			}

			cancel()

			// Drain
			for range v1s {
			}
			for range v2s {
			}

			for i := 0; i < 2; i++ {
				err := <-errs
				if err == nil {
					continue
				}
				// Prefer a real failure over the cancellation it caused.
				if errOut == nil || (errors.Is(errOut, context.Canceled) && !errors.Is(err, context.Canceled)) {
					errOut = err
				}
			}

			// Only care about canceled if parent was canceled.
			if errors.Is(errOut, context.Canceled) {
				return ctx.Err()
			}

			return errOut
		})
}

// Zip3 takes three observables and combines same-index items into triples.
// The stream completes when any of the sources completes.
func Zip3[V1, V2, V3 any](src1 Observable[V1], src2 Observable[V2], src3 Observable[V3]) Observable[Tuple3[V1, V2, V3]] {
	return Map(
		Zip2(Zip2(src1, src2), src3),
		func(t Tuple2[Tuple2[V1, V2], V3]) Tuple3[V1, V2, V3] {
			return Tuple3[V1, V2, V3]{V1: t.V1.V1, V2: t.V1.V2, V3: t.V2}
		})
}
