// Package pubsub provides a generic in-process broadcast primitive: a publisher holds an
// ordered list of subscribers and delivers every published message to each of them.
//
// There is no transport, persistence, filtering or topic routing. Callers compose those
// around the primitive; see the integration packages for Redis and websocket bridges.
//
// # Subscribers and handles
//
// A subscriber implements a single Receive method. Blocking publishers take a Subscriber,
// suspending publishers take an AsyncSubscriber whose Receive gets a context:
//
//	type Subscriber[T any] interface { Receive(msg T) }
//	type AsyncSubscriber[T any] interface { Receive(ctx context.Context, msg T) }
//
// Publishers never store bare subscribers. They store *Handle values created by NewHandle
// or NewAsyncHandle, and Unsubscribe removes entries by handle identity (pointer equality),
// never by comparing subscriber contents. Keep the handle you subscribed with:
//
//	acc := &Accumulator{}
//	h := pubsub.NewHandle[int](acc)
//
//	pub.Subscribe(h)
//	pub.Unsubscribe(h)                          // removed
//	pub.Unsubscribe(pubsub.NewHandle[int](acc)) // different handle: no-op
//
// The same handle can be registered with several publishers, or several times with one
// publisher, in which case it receives each message once per registration.
//
// # Publisher variants
//
// Two independent choices are fixed by the type you construct:
//
//	                 blocking              suspending
//	single-owner     Publisher[T]          AsyncPublisher[T]
//	thread-sharing   SharedPublisher[T]    SharedAsyncPublisher[T]
//
// Single-owner publishers have no locks; concurrent use requires external synchronization.
// Shared publishers guard the list with a RWMutex and deliver to a snapshot taken at the
// start of Publish, so Subscribe and Unsubscribe calls racing with an in-flight Publish only
// affect later calls.
//
// All variants deliver sequentially in registration order: subscriber i+1 is called after
// subscriber i returns. Suspending publishers check the context before each subscriber and
// return its error when cancelled; subscribers already called are not compensated.
//
// # Failures
//
// Publish never fails on its own. A panic raised by a subscriber propagates to the caller
// and the remaining subscribers are skipped. To keep going, use PublishIsolated, which
// recovers per subscriber and returns a Report:
//
//	report := pub.PublishIsolated(msg)
//	if err := report.Err(); err != nil {
//	    log.Error("some subscribers failed", logger.Error(err))
//	}
//
// The WithRecover decorator gives the same containment for a single subscriber.
//
// # Decorators and helpers
//
// Decorate composes Decorator values around an AsyncSubscriber: WithTimeout, WithRecover
// and WithLogging. Async and Blocking adapt subscribers between the two delivery modes.
// Channel forwards messages into a buffered Go channel for consumers running on their own
// goroutine.
package pubsub
