package pubsub

import (
	"context"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// AsyncPublisher is the single-owner suspending publisher. Publish awaits each subscriber's
// Receive in registration order before moving to the next one; there is no parallel fan-out
// within a call. It has no internal locking.
//
// The zero value is an empty publisher ready to use.
//
// Example:
//
//	pub := pubsub.NewAsyncPublisher[Order]()
//	pub.Subscribe(pubsub.NewAsyncHandle[Order](notifier))
//	if err := pub.Publish(ctx, order); err != nil {
//	    // ctx was cancelled before every subscriber was reached
//	}
type AsyncPublisher[T any] struct {
	subs list[*Handle[AsyncSubscriber[T]]]
	opts options
}

// NewAsyncPublisher creates an empty single-owner suspending publisher.
func NewAsyncPublisher[T any](opts ...Option) *AsyncPublisher[T] {
	return &AsyncPublisher[T]{opts: newOptions(opts)}
}

// HasSubscribers reports whether at least one handle is registered.
func (p *AsyncPublisher[T]) HasSubscribers() bool {
	return p.subs.len() > 0
}

// Len returns the number of registrations, counting duplicates.
func (p *AsyncPublisher[T]) Len() int {
	return p.subs.len()
}

// Subscribe appends h to the subscriber list. A nil handle is ignored.
func (p *AsyncPublisher[T]) Subscribe(h *Handle[AsyncSubscriber[T]]) {
	if h == nil {
		p.opts.log().Debug("ignoring nil subscriber handle")
		return
	}
	p.subs.add(h)
	p.opts.log().Debug("subscriber added", logger.Subscriber(h.id), logger.Count("subscribers", p.subs.len()))
}

// Unsubscribe removes every registration of h, matched by pointer identity.
func (p *AsyncPublisher[T]) Unsubscribe(h *Handle[AsyncSubscriber[T]]) {
	if h == nil {
		return
	}
	removed := p.subs.remove(h)
	logUnsubscribe(p.opts.log(), h.id, removed, p.subs.len())
}

// Publish delivers msg to each subscriber in order, waiting for each Receive to return.
//
// ctx is checked before every subscriber. If it is done, Publish stops and returns ctx.Err():
// subscribers already called received the message once, the rest not at all.
// A panicking subscriber aborts the remaining deliveries.
func (p *AsyncPublisher[T]) Publish(ctx context.Context, msg T) error {
	return deliverAsync(ctx, p.subs.snapshot(), msg)
}

// PublishIsolated is Publish with per-subscriber panic containment.
// Cancellation is reported through Report.Interrupted.
func (p *AsyncPublisher[T]) PublishIsolated(ctx context.Context, msg T) Report {
	return deliverAsyncIsolated(ctx, p.opts.log(), p.subs.snapshot(), msg)
}

// Clone returns an independent publisher holding the same handles in the same order.
func (p *AsyncPublisher[T]) Clone() *AsyncPublisher[T] {
	return &AsyncPublisher[T]{
		subs: p.subs.clone(),
		opts: p.opts,
	}
}

// SharedAsyncPublisher is the thread-sharing suspending publisher. It is safe for
// concurrent use, with the same snapshot semantics as SharedPublisher.
//
// Parallel fan-out is left to the caller, for example by publishing from several goroutines.
type SharedAsyncPublisher[T any] struct {
	subs lockedList[*Handle[AsyncSubscriber[T]]]
	opts options
}

// NewSharedAsyncPublisher creates an empty thread-sharing suspending publisher.
func NewSharedAsyncPublisher[T any](opts ...Option) *SharedAsyncPublisher[T] {
	return &SharedAsyncPublisher[T]{opts: newOptions(opts)}
}

// HasSubscribers reports whether at least one handle is registered.
func (p *SharedAsyncPublisher[T]) HasSubscribers() bool {
	return p.subs.len() > 0
}

// Len returns the number of registrations, counting duplicates.
func (p *SharedAsyncPublisher[T]) Len() int {
	return p.subs.len()
}

// Subscribe appends h to the subscriber list. A nil handle is ignored.
func (p *SharedAsyncPublisher[T]) Subscribe(h *Handle[AsyncSubscriber[T]]) {
	if h == nil {
		p.opts.log().Debug("ignoring nil subscriber handle")
		return
	}
	p.subs.add(h)
	p.opts.log().Debug("subscriber added", logger.Subscriber(h.id))
}

// Unsubscribe removes every registration of h, matched by pointer identity.
func (p *SharedAsyncPublisher[T]) Unsubscribe(h *Handle[AsyncSubscriber[T]]) {
	if h == nil {
		return
	}
	removed := p.subs.remove(h)
	logUnsubscribe(p.opts.log(), h.id, removed, p.subs.len())
}

// Publish delivers msg to a snapshot of the subscriber list, in order, waiting for each.
// It returns ctx.Err() if ctx is done before every subscriber was reached.
func (p *SharedAsyncPublisher[T]) Publish(ctx context.Context, msg T) error {
	return deliverAsync(ctx, p.subs.snapshot(), msg)
}

// PublishIsolated is Publish with per-subscriber panic containment.
func (p *SharedAsyncPublisher[T]) PublishIsolated(ctx context.Context, msg T) Report {
	return deliverAsyncIsolated(ctx, p.opts.log(), p.subs.snapshot(), msg)
}

// Clone returns an independent publisher holding the same handles in the same order.
func (p *SharedAsyncPublisher[T]) Clone() *SharedAsyncPublisher[T] {
	c := &SharedAsyncPublisher[T]{opts: p.opts}
	c.subs.items = p.subs.snapshot()
	return c
}
