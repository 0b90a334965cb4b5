package pubsub

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// Decorator wraps an AsyncSubscriber to add cross-cutting behavior.
type Decorator[T any] func(AsyncSubscriber[T]) AsyncSubscriber[T]

// Decorate applies decorators to sub. The first decorator becomes the outermost wrapper
// and runs first.
//
// Example:
//
//	sub := pubsub.Decorate(notifier,
//	    pubsub.WithLogging[Order](log, "notifier"),
//	    pubsub.WithRecover[Order](nil),
//	    pubsub.WithTimeout[Order](2*time.Second),
//	)
//
// Execution order: logging -> recover -> timeout -> notifier
func Decorate[T any](sub AsyncSubscriber[T], decorators ...Decorator[T]) AsyncSubscriber[T] {
	for i := len(decorators) - 1; i >= 0; i-- {
		sub = decorators[i](sub)
	}
	return sub
}

// Async adapts a blocking subscriber for use with a suspending publisher.
// The context is not passed on.
func Async[T any](sub Subscriber[T]) AsyncSubscriber[T] {
	return AsyncSubscriberFunc[T](func(_ context.Context, msg T) {
		sub.Receive(msg)
	})
}

// Blocking adapts a suspending subscriber for use with a blocking publisher.
// Each call receives context.Background().
func Blocking[T any](sub AsyncSubscriber[T]) Subscriber[T] {
	return SubscriberFunc[T](func(msg T) {
		sub.Receive(context.Background(), msg)
	})
}

// WithTimeout bounds each Receive call with a context deadline of d.
// A non-positive d leaves the subscriber unchanged.
func WithTimeout[T any](d time.Duration) Decorator[T] {
	return func(next AsyncSubscriber[T]) AsyncSubscriber[T] {
		if d <= 0 {
			return next
		}
		return AsyncSubscriberFunc[T](func(ctx context.Context, msg T) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			next.Receive(ctx, msg)
		})
	}
}

// WithRecover contains panics raised by the subscriber. onPanic, if not nil, receives a
// *PanicError; the publisher carries on as if Receive returned normally.
func WithRecover[T any](onPanic func(ctx context.Context, err error)) Decorator[T] {
	return func(next AsyncSubscriber[T]) AsyncSubscriber[T] {
		return AsyncSubscriberFunc[T](func(ctx context.Context, msg T) {
			defer func() {
				if r := recover(); r != nil && onPanic != nil {
					onPanic(ctx, &PanicError{Value: r, Stack: debug.Stack()})
				}
			}()
			next.Receive(ctx, msg)
		})
	}
}

// WithLogging logs every delivery at debug level with its duration. Panics are logged at
// error level and re-raised.
func WithLogging[T any](log *slog.Logger, name string) Decorator[T] {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component(name))

	return func(next AsyncSubscriber[T]) AsyncSubscriber[T] {
		return AsyncSubscriberFunc[T](func(ctx context.Context, msg T) {
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					log.ErrorContext(ctx, "subscriber panicked", logger.Panic(r), logger.Elapsed(start))
					panic(r)
				}
			}()

			next.Receive(ctx, msg)
			log.DebugContext(ctx, "message received", logger.Elapsed(start))
		})
	}
}
