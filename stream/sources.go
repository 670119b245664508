// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"time"
)

//
// Sources, e.g. operators that create new observables.
//

// generate emits at(0) through at(n-1). It stops early when the context is
// cancelled or downstream returns an error.
func generate[T any](n int, at func(i int) T) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			for i := 0; i < n; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := next(at(i)); err != nil {
					return err
				}
			}
			return nil
		})
}

// Just creates an observable with a single item.
func Just[T any](item T) Observable[T] {
	return generate(1, func(int) T { return item })
}

// Error creates an observable that fails immediately with given error.
func Error[T any](err error) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return err
		})
}

// Empty creates an empty observable that completes immediately.
func Empty[T any]() Observable[T] {
	return Error[T](nil)
}

// FromSlice converts a slice into an Observable.
func FromSlice[T any](items []T) Observable[T] {
	return generate(len(items), func(i int) T { return items[i] })
}

// Range creates an observable that emits integers in range from...to-1.
func Range(from, to int) Observable[int] {
	return RangeN(from, to-from)
}

// RangeN emits 'count' increasing integers starting from 'start'.
// RangeN(1, 10) emits 1 through 10. A non-positive count completes immediately.
func RangeN(start, count int) Observable[int] {
	return generate(count, func(i int) int { return start + i })
}

// Defer calls 'factory' on each subscription and observes the observable it
// returns. State created by the factory is private to that subscription.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return factory().Observe(ctx, next)
		})
}

// Interval emits 0, 1, 2 and so on, one value every 'period'. The first value
// comes after one period. It never completes on its own.
func Interval(period time.Duration) Observable[int] {
	return FuncObservable[int](
		func(ctx context.Context, next func(int) error) error {
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			for i := 0; ; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
				}
				if err := next(i); err != nil {
					return err
				}
			}
		})
}
