// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"time"
)

//
// Fallbacks for empty or failed streams
//

// DefaultIfEmpty emits 'value' if the source completes without emitting anything.
// Errors from the source are passed through as is.
func DefaultIfEmpty[T any](src Observable[T], value T) Observable[T] {
	return SwitchIfEmpty(src, Just(value))
}

// SwitchIfEmpty switches to observing 'alt' if the source completes without
// emitting anything.
func SwitchIfEmpty[T any](src Observable[T], alt Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			empty := true
			err := src.Observe(
				ctx,
				func(item T) error {
					empty = false
					return next(item)
				})
			if err != nil || !empty {
				return err
			}
			return alt.Observe(ctx, next)
		})
}

// OnErrorReturn completes with 'value' instead of failing when the source fails.
// Cancellation of 'ctx' and errors from downstream are not replaced.
func OnErrorReturn[T any](src Observable[T], value T) Observable[T] {
	return OnErrorResume(src, func(error) Observable[T] { return Just(value) })
}

// OnErrorResume replaces a failure of the source with the observable returned by
// 'fallback'. Items emitted before the failure are kept. Cancellation of 'ctx'
// and errors from downstream are not replaced.
func OnErrorResume[T any](src Observable[T], fallback func(error) Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			var nextErr error
			err := src.Observe(
				ctx,
				func(item T) error {
					nextErr = next(item)
					return nextErr
				})
			if err == nil || nextErr != nil || ctx.Err() != nil {
				return err
			}
			return fallback(err).Observe(ctx, next)
		})
}

// RetryFunc decides whether the processing should be retried for the given error
type RetryFunc func(err error) bool

// Retry resubscribes to the source when it fails and 'shouldRetry' agrees.
// Items from failed attempts have already been emitted. Cancellation of 'ctx'
// and errors from downstream are not retried.
func Retry[T any](src Observable[T], shouldRetry RetryFunc) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			var nextErr error
			observer := func(item T) error {
				nextErr = next(item)
				return nextErr
			}
			for {
				err := src.Observe(ctx, observer)
				if err == nil || nextErr != nil || ctx.Err() != nil || !shouldRetry(err) {
					return err
				}
			}
		})
}

// AlwaysRetry always asks for a retry regardless of the error.
func AlwaysRetry(err error) bool {
	return true
}

// BackoffRetry retries with an exponential backoff.
func BackoffRetry(shouldRetry RetryFunc, minBackoff, maxBackoff time.Duration) RetryFunc {
	backoff := minBackoff
	return func(err error) bool {
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		return shouldRetry(err)
	}
}

// LimitRetries limits the number of retries with the given retry method.
// e.g. LimitRetries(BackoffRetry(AlwaysRetry, time.Millisecond, time.Second), 5)
func LimitRetries(shouldRetry RetryFunc, numRetries int) RetryFunc {
	return func(err error) bool {
		if numRetries <= 0 {
			return false
		}
		numRetries--
		return shouldRetry(err)
	}
}
