// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

//
// Sinks: operators that run an observable and send the output somewhere.
//

// ToSlice converts an Observable into a slice.
func ToSlice[T any](ctx context.Context, src Observable[T]) (items []T, err error) {
	items = make([]T, 0)
	err = src.Observe(
		ctx,
		func(item T) error {
			items = append(items, item)
			return nil
		})
	return
}

// toChannel observes 'src' in a new goroutine and feeds its items to the returned
// channel. The final error of the source is sent to 'errs' before the item channel
// is closed, so 'errs' must have room for it.
func toChannel[T any](ctx context.Context, errs chan<- error, src Observable[T]) <-chan T {
	out := make(chan T)
	go func() {
		err := src.Observe(
			ctx,
			func(item T) error {
				select {
				case out <- item:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		errs <- err
		close(out)
	}()
	return out
}

// Subscribe observes 'src' with the classic callback triple. Any of the callbacks
// may be nil. Exactly one of onError and onComplete is called when the stream ends.
func Subscribe[T any](ctx context.Context, src Observable[T], onNext func(T), onError func(error), onComplete func()) error {
	err := src.Observe(ctx,
		func(item T) error {
			if onNext != nil {
				onNext(item)
			}
			return nil
		})
	if err != nil {
		if onError != nil {
			onError(err)
		}
	} else if onComplete != nil {
		onComplete()
	}
	return err
}
