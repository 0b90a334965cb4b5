package pubsub

import "github.com/google/uuid"

// Handle is a shared reference to a subscriber. Publishers store handles, never bare
// subscribers, and Unsubscribe matches handles by pointer identity.
//
// Pass the same *Handle to Subscribe and Unsubscribe. A handle built again from the same
// subscriber value is a different handle and will not match:
//
//	h := pubsub.NewHandle[int](acc)
//	pub.Subscribe(h)
//	pub.Unsubscribe(h)                         // removes
//	pub.Unsubscribe(pubsub.NewHandle[int](acc)) // no-op
//
// The same handle may be registered with any number of publishers. The subscriber stays
// alive as long as any publisher or caller still holds the handle.
type Handle[S any] struct {
	sub S
	id  string
}

// NewHandle wraps a blocking subscriber in a new shared handle.
func NewHandle[T any](sub Subscriber[T]) *Handle[Subscriber[T]] {
	return newHandle(sub)
}

// NewAsyncHandle wraps a suspending subscriber in a new shared handle.
func NewAsyncHandle[T any](sub AsyncSubscriber[T]) *Handle[AsyncSubscriber[T]] {
	return newHandle(sub)
}

func newHandle[S any](sub S) *Handle[S] {
	return &Handle[S]{
		sub: sub,
		id:  uuid.NewString(),
	}
}

// Subscriber returns the wrapped subscriber.
func (h *Handle[S]) Subscriber() S {
	return h.sub
}

// ID returns a random identifier used in logs and failure reports.
// It plays no part in handle identity.
func (h *Handle[S]) ID() string {
	return h.id
}
