// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"sync"
)

// Map applies a function onto an observable.
func Map[A, B any](src Observable[A], apply func(A) B) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, next func(B) error) error {
			return src.Observe(
				ctx,
				func(a A) error { return next(apply(a)) })
		})
}

// ConcatMap applies a function that returns an observable of Bs to the source observable of As.
// Each inner observable is observed to completion before the next item from the
// source is processed, so the output preserves source order.
func ConcatMap[A, B any](src Observable[A], apply func(A) Observable[B]) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, next func(B) error) error {
			return src.Observe(
				ctx,
				func(a A) error {
					return apply(a).Observe(
						ctx,
						next)
				})
		})
}

// FlatMap applies a function that returns an observable of Bs to each item of the
// source and observes the returned observables concurrently. Items are emitted as
// they arrive and there are no ordering guarantees across the inner observables.
//
// An error from the source or any of the inner observables cancels the rest and is
// returned. Error from downstream cancels everything.
func FlatMap[A, B any](src Observable[A], apply func(A) Observable[B]) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, next func(B) error) error {
			flatCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			var (
				mu       sync.Mutex
				firstErr error
			)
			setErr := func(err error) {
				if err == nil {
					return
				}
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
			}

			items := make(chan B)
			send := func(b B) error {
				select {
				case items <- b:
					return nil
				case <-flatCtx.Done():
					return flatCtx.Err()
				}
			}

			// The wait group is held by the source observer until the source
			// completes, so inner observers can be added to it safely.
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				setErr(src.Observe(
					flatCtx,
					func(a A) error {
						inner := apply(a)
						wg.Add(1)
						go func() {
							defer wg.Done()
							setErr(inner.Observe(flatCtx, send))
						}()
						return nil
					}))
			}()

			go func() {
				wg.Wait()
				close(items)
			}()

			for item := range items {
				if err := next(item); err != nil {
					setErr(err)
					break
				}
			}

			// Drain to unblock the inner observers until they notice the
			// cancellation.
			for range items {
			}

			mu.Lock()
			defer mu.Unlock()
			return firstErr
		})
}

// Filter keeps only the elements for which the filter function returns true.
func Filter[T any](src Observable[T], filter func(T) bool) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return src.Observe(
				ctx,
				func(x T) error {
					if filter(x) {
						return next(x)
					}
					return nil
				})
		})
}

// Reduce takes an initial state, and a function 'reduce' that is called on each element
// along with a state and returns an observable with a single result state produced
// by the last call to 'reduce'.
func Reduce[T, Result any](src Observable[T], init Result, reduce func(Result, T) Result) Observable[Result] {
	return FuncObservable[Result](
		func(ctx context.Context, next func(Result) error) error {
			result := init
			err := src.Observe(
				ctx,
				func(x T) error {
					result = reduce(result, x)
					return nil
				})
			if err != nil {
				return err
			}
			return next(result)
		})
}

// Scan takes an initial state and a step function that is called on each element with the
// previous state and returns an observable of the states returned by the step function.
// E.g. Scan is like Reduce that emits the intermediate states.
func Scan[In, Out any](src Observable[In], init Out, step func(Out, In) Out) Observable[Out] {
	return FuncObservable[Out](
		func(ctx context.Context, next func(Out) error) error {
			prev := init
			return src.Observe(
				ctx,
				func(x In) error {
					prev = step(prev, x)
					return next(prev)
				})
		})
}

// Take emits the first 'n' items of 'src' and completes. The source is
// cancelled once the n'th item has been emitted.
func Take[T any](n int, src Observable[T]) Observable[T] {
	if n <= 0 {
		return Empty[T]()
	}
	return takeUntil(src, func() func(T) (bool, bool) {
		taken := 0
		return func(T) (emit, stop bool) {
			taken++
			return true, taken == n
		}
	})
}

// TakeWhile emits items from the source as long as 'pred' holds and completes
// on the first item for which it does not. That item is not emitted.
func TakeWhile[T any](pred func(T) bool, src Observable[T]) Observable[T] {
	return takeUntil(src, func() func(T) (bool, bool) {
		return func(item T) (emit, stop bool) {
			ok := pred(item)
			return ok, !ok
		}
	})
}

// takeUntil observes 'src' until the step function asks to stop, then cancels
// the source and completes. A fresh step function is made for each
// subscription.
func takeUntil[T any](src Observable[T], newStep func() func(T) (emit, stop bool)) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			step := newStep()
			stopped := false
			err := src.Observe(ctx,
				func(item T) error {
					if stopped {
						// Source keeps emitting after cancellation.
						return context.Canceled
					}
					emit, stop := step(item)
					if emit {
						if err := next(item); err != nil {
							return err
						}
					}
					if stop {
						stopped = true
						cancel()
					}
					return nil
				})
			if stopped && errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
}

// Skip skips the first 'n' items from the source.
func Skip[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			skip := n
			return src.Observe(ctx,
				func(item T) error {
					if skip > 0 {
						skip--
						return nil
					}
					return next(item)
				})
		})
}
