// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

//
// Execution context hints
//

// Scheduler runs tasks on some execution context, e.g. a pool of worker
// goroutines. Schedule must not block on the task itself and returns an
// error if the task could not be accepted.
type Scheduler interface {
	Schedule(task func()) error
}

type immediate struct{}

func (immediate) Schedule(task func()) error {
	task()
	return nil
}

// Immediate is a Scheduler that runs the task on the calling goroutine.
var Immediate Scheduler = immediate{}

// SubscribeOn observes the source as a single task on 'sched'. The source and any
// work done by its operators runs on the scheduler, while 'next' is still called
// from the goroutine that called Observe(). Items and their order are unchanged.
func SubscribeOn[T any](src Observable[T], sched Scheduler) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			subCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			items := make(chan T)
			results := make(chan error)
			errs := make(chan error, 1)

			task := func() {
				errs <- src.Observe(
					subCtx,
					func(item T) error {
						select {
						case items <- item:
						case <-subCtx.Done():
							return subCtx.Err()
						}
						// Wait for downstream to process the item to keep
						// the upstream in lock-step with it.
						return <-results
					})
				close(items)
			}

			// Schedule from a separate goroutine as a scheduler is allowed
			// to run the task inline.
			go func() {
				if err := sched.Schedule(task); err != nil {
					errs <- err
					close(items)
				}
			}()

			for item := range items {
				results <- next(item)
			}
			return <-errs
		})
}

// PublishOn calls 'next' as a task on 'sched' for each item. Calls to 'next'
// are sequential: the next item is not handed off before the previous task has
// finished. Items and their order are unchanged.
//
// Beware: unlike other operators, 'next' is called from the goroutines of the
// scheduler and not from the goroutine that called Observe().
func PublishOn[T any](src Observable[T], sched Scheduler) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			done := make(chan error, 1)
			return src.Observe(
				ctx,
				func(item T) error {
					if err := sched.Schedule(func() { done <- next(item) }); err != nil {
						return err
					}
					return <-done
				})
		})
}
