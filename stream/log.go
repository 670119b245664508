// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Signal names logged by Log.
const (
	SignalSubscribe = "onSubscribe"
	SignalRequest   = "request"
	SignalNext      = "onNext"
	SignalComplete  = "onComplete"
	SignalError     = "onError"
	SignalCancel    = "cancel"
)

// Log logs the signals flowing through the stream at this point: the subscription,
// the unbounded demand of the observer, every item and how the stream ended.
// Each call to Observe gets its own subscription id so that interleaved
// subscriptions can be told apart. A nil logger disables logging.
func Log[T any](src Observable[T], log *zap.Logger, category string) Observable[T] {
	if log == nil {
		return src
	}
	return FuncObservable[T](
		func(ctx context.Context, next func(T) error) error {
			log := log.With(
				zap.String("category", category),
				zap.Stringer("subscription", uuid.New()),
			)
			log.Info(SignalSubscribe)
			log.Info(SignalRequest, zap.String("demand", "unbounded"))

			var nextErr error
			err := src.Observe(
				ctx,
				func(item T) error {
					log.Info(SignalNext, zap.Any("item", item))
					nextErr = next(item)
					return nextErr
				})

			switch {
			case err == nil:
				log.Info(SignalComplete)
			case nextErr != nil, errors.Is(err, context.Canceled):
				log.Info(SignalCancel, zap.NamedError("reason", err))
			default:
				log.Error(SignalError, zap.Error(err))
			}
			return err
		})
}
