// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits the rate at which items are emitted.
func Throttle[T any](src Observable[T], ratePerSecond float64, burst int) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)
			return src.Observe(
				ctx,
				func(item T) error {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
					return next(item)
				})
		})
}

// Delay shifts the items emitted from source by the given duration.
func Delay[T any](src Observable[T], duration time.Duration) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			first := true
			return src.Observe(
				ctx,
				func(item T) error {
					if first {
						first = false
						if err := sleep(ctx, duration); err != nil {
							return err
						}
					}
					return next(item)
				})
		})
}

// DelayElements delays each item emitted from the source by the given duration.
func DelayElements[T any](src Observable[T], duration time.Duration) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			return src.Observe(
				ctx,
				func(item T) error {
					if err := sleep(ctx, duration); err != nil {
						return err
					}
					return next(item)
				})
		})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
