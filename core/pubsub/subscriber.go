package pubsub

import "context"

// Subscriber receives messages from a blocking publisher (Publisher, SharedPublisher).
//
// Receive is called once per publish per registration. It has no error return: a subscriber
// that needs to report failure does so through its own side channel. A panic inside Receive
// propagates to the Publish caller unless the caller opts into PublishIsolated.
//
// Subscribers registered with a SharedPublisher may be called from several goroutines at once
// and must do their own locking.
type Subscriber[T any] interface {
	Receive(msg T)
}

// AsyncSubscriber receives messages from a suspending publisher (AsyncPublisher,
// SharedAsyncPublisher). Receive may block; it should return early when ctx is done.
type AsyncSubscriber[T any] interface {
	Receive(ctx context.Context, msg T)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc[T any] func(msg T)

// Receive calls f(msg).
func (f SubscriberFunc[T]) Receive(msg T) {
	f(msg)
}

// AsyncSubscriberFunc adapts a plain function to AsyncSubscriber.
type AsyncSubscriberFunc[T any] func(ctx context.Context, msg T)

// Receive calls f(ctx, msg).
func (f AsyncSubscriberFunc[T]) Receive(ctx context.Context, msg T) {
	f(ctx, msg)
}
