package pubsub

import (
	"log/slog"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// Publisher delivers each message to its subscribers, in registration order, on the
// calling goroutine. It is the single-owner variant: it has no internal locking and must not
// be used from several goroutines without external synchronization. Use SharedPublisher for
// that.
//
// The zero value is an empty publisher ready to use.
//
// Example:
//
//	pub := pubsub.NewPublisher[string]()
//	h := pubsub.NewHandle[string](pubsub.SubscriberFunc[string](func(msg string) {
//	    fmt.Println("received:", msg)
//	}))
//	pub.Subscribe(h)
//	pub.Publish("hello")
//	pub.Unsubscribe(h)
type Publisher[T any] struct {
	subs list[*Handle[Subscriber[T]]]
	opts options
}

// NewPublisher creates an empty single-owner blocking publisher.
func NewPublisher[T any](opts ...Option) *Publisher[T] {
	return &Publisher[T]{opts: newOptions(opts)}
}

// HasSubscribers reports whether at least one handle is registered.
func (p *Publisher[T]) HasSubscribers() bool {
	return p.subs.len() > 0
}

// Len returns the number of registrations, counting duplicates.
func (p *Publisher[T]) Len() int {
	return p.subs.len()
}

// Subscribe appends h to the subscriber list. Registering the same handle twice means it
// receives every message twice. A nil handle is ignored.
func (p *Publisher[T]) Subscribe(h *Handle[Subscriber[T]]) {
	if h == nil {
		p.opts.log().Debug("ignoring nil subscriber handle")
		return
	}
	p.subs.add(h)
	p.opts.log().Debug("subscriber added", logger.Subscriber(h.id), logger.Count("subscribers", p.subs.len()))
}

// Unsubscribe removes every registration of h, matched by pointer identity.
// Unknown handles are a no-op.
func (p *Publisher[T]) Unsubscribe(h *Handle[Subscriber[T]]) {
	if h == nil {
		return
	}
	removed := p.subs.remove(h)
	logUnsubscribe(p.opts.log(), h.id, removed, p.subs.len())
}

// Publish calls Receive on every subscriber in order. A panicking subscriber aborts the
// remaining deliveries and the panic reaches the caller.
func (p *Publisher[T]) Publish(msg T) {
	deliver(p.subs.snapshot(), msg)
}

// PublishIsolated is Publish with per-subscriber panic containment: a panicking subscriber
// is recorded in the report and delivery continues with the next one.
func (p *Publisher[T]) PublishIsolated(msg T) Report {
	return deliverIsolated(p.opts.log(), p.subs.snapshot(), msg)
}

// Clone returns an independent publisher holding the same handles in the same order.
// Changes to either publisher's list do not affect the other.
func (p *Publisher[T]) Clone() *Publisher[T] {
	return &Publisher[T]{
		subs: p.subs.clone(),
		opts: p.opts,
	}
}

// SharedPublisher is the thread-sharing blocking publisher. It is safe for concurrent use.
//
// Publish takes a snapshot of the subscriber list and delivers without holding any lock,
// so a Subscribe or Unsubscribe racing with an in-flight Publish takes effect from the next
// Publish on. Subscribers may be called concurrently by different Publish calls and must
// synchronize their own state.
//
// The zero value is an empty publisher ready to use.
type SharedPublisher[T any] struct {
	subs lockedList[*Handle[Subscriber[T]]]
	opts options
}

// NewSharedPublisher creates an empty thread-sharing blocking publisher.
func NewSharedPublisher[T any](opts ...Option) *SharedPublisher[T] {
	return &SharedPublisher[T]{opts: newOptions(opts)}
}

// HasSubscribers reports whether at least one handle is registered.
func (p *SharedPublisher[T]) HasSubscribers() bool {
	return p.subs.len() > 0
}

// Len returns the number of registrations, counting duplicates.
func (p *SharedPublisher[T]) Len() int {
	return p.subs.len()
}

// Subscribe appends h to the subscriber list. A nil handle is ignored.
func (p *SharedPublisher[T]) Subscribe(h *Handle[Subscriber[T]]) {
	if h == nil {
		p.opts.log().Debug("ignoring nil subscriber handle")
		return
	}
	p.subs.add(h)
	p.opts.log().Debug("subscriber added", logger.Subscriber(h.id))
}

// Unsubscribe removes every registration of h, matched by pointer identity.
func (p *SharedPublisher[T]) Unsubscribe(h *Handle[Subscriber[T]]) {
	if h == nil {
		return
	}
	removed := p.subs.remove(h)
	logUnsubscribe(p.opts.log(), h.id, removed, p.subs.len())
}

// Publish delivers msg to a snapshot of the subscriber list, in order.
func (p *SharedPublisher[T]) Publish(msg T) {
	deliver(p.subs.snapshot(), msg)
}

// PublishIsolated is Publish with per-subscriber panic containment.
func (p *SharedPublisher[T]) PublishIsolated(msg T) Report {
	return deliverIsolated(p.opts.log(), p.subs.snapshot(), msg)
}

// Clone returns an independent publisher holding the same handles in the same order.
func (p *SharedPublisher[T]) Clone() *SharedPublisher[T] {
	c := &SharedPublisher[T]{opts: p.opts}
	// Snapshots are never written in place, so the clone can share the backing array.
	c.subs.items = p.subs.snapshot()
	return c
}

func logUnsubscribe(log *slog.Logger, id string, removed, remaining int) {
	if removed == 0 {
		log.Debug("unsubscribe matched no registered handle", logger.Subscriber(id), logger.Count("removed", 0))
		return
	}
	log.Debug("subscriber removed",
		logger.Subscriber(id),
		logger.Count("removed", removed),
		logger.Count("subscribers", remaining))
}
