package pubsub

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// Delivery loops shared by the publisher types. Each loop is strictly sequential:
// subscriber i+1 is called only after subscriber i returns.

func deliver[T any](subs []*Handle[Subscriber[T]], msg T) {
	for _, h := range subs {
		h.sub.Receive(msg)
	}
}

func deliverAsync[T any](ctx context.Context, subs []*Handle[AsyncSubscriber[T]], msg T) error {
	for _, h := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.sub.Receive(ctx, msg)
	}
	return nil
}

func deliverIsolated[T any](log *slog.Logger, subs []*Handle[Subscriber[T]], msg T) Report {
	var r Report
	for i, h := range subs {
		if err := safeReceive(h.sub, msg); err != nil {
			r.Failures = append(r.Failures, failure(context.Background(), log, i, h.id, err))
			continue
		}
		r.Delivered++
	}
	return r
}

func deliverAsyncIsolated[T any](ctx context.Context, log *slog.Logger, subs []*Handle[AsyncSubscriber[T]], msg T) Report {
	var r Report
	for i, h := range subs {
		if err := ctx.Err(); err != nil {
			r.Interrupted = err
			log.DebugContext(ctx, "isolated delivery interrupted",
				logger.Count("index", i),
				logger.Count("remaining", len(subs)-i),
				logger.Error(err))
			return r
		}
		if err := safeReceiveAsync(ctx, h.sub, msg); err != nil {
			r.Failures = append(r.Failures, failure(ctx, log, i, h.id, err))
			continue
		}
		r.Delivered++
	}
	return r
}

func failure(ctx context.Context, log *slog.Logger, index int, id string, err error) Failure {
	log.ErrorContext(ctx, "subscriber failed during isolated delivery",
		logger.Count("index", index),
		logger.Subscriber(id),
		logger.Error(err))
	return Failure{Index: index, HandleID: id, Err: err}
}

func safeReceive[T any](sub Subscriber[T], msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	sub.Receive(msg)
	return nil
}

func safeReceiveAsync[T any](ctx context.Context, sub AsyncSubscriber[T], msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	sub.Receive(ctx, msg)
	return nil
}
