package pubsub_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/pubserve/core/pubsub"
)

// accumulator records every value it receives. It is safe for concurrent use.
type accumulator struct {
	mu   sync.Mutex
	vals []int
}

func (a *accumulator) Receive(v int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.vals = append(a.vals, v)
}

func (a *accumulator) values() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.vals))
	copy(out, a.vals)
	return out
}

// asyncAccumulator is the suspending counterpart of accumulator.
type asyncAccumulator struct {
	accumulator
}

func (a *asyncAccumulator) Receive(_ context.Context, v int) {
	a.accumulator.Receive(v)
}

// journal records the order in which named subscribers are invoked.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *journal) sub(name string) *pubsub.Handle[pubsub.Subscriber[int]] {
	return pubsub.NewHandle[int](pubsub.SubscriberFunc[int](func(int) { j.add(name) }))
}

func (j *journal) asyncSub(name string) *pubsub.Handle[pubsub.AsyncSubscriber[int]] {
	return pubsub.NewAsyncHandle[int](pubsub.AsyncSubscriberFunc[int](func(context.Context, int) { j.add(name) }))
}

// blockingPublisher is the method set shared by Publisher and SharedPublisher.
type blockingPublisher interface {
	HasSubscribers() bool
	Len() int
	Subscribe(*pubsub.Handle[pubsub.Subscriber[int]])
	Unsubscribe(*pubsub.Handle[pubsub.Subscriber[int]])
	Publish(int)
	PublishIsolated(int) pubsub.Report
}

// asyncPublisher is the method set shared by AsyncPublisher and SharedAsyncPublisher.
type asyncPublisher interface {
	HasSubscribers() bool
	Len() int
	Subscribe(*pubsub.Handle[pubsub.AsyncSubscriber[int]])
	Unsubscribe(*pubsub.Handle[pubsub.AsyncSubscriber[int]])
	Publish(context.Context, int) error
	PublishIsolated(context.Context, int) pubsub.Report
}

var blockingVariants = []struct {
	name string
	new  func(...pubsub.Option) blockingPublisher
}{
	{"single-owner", func(opts ...pubsub.Option) blockingPublisher { return pubsub.NewPublisher[int](opts...) }},
	{"shared", func(opts ...pubsub.Option) blockingPublisher { return pubsub.NewSharedPublisher[int](opts...) }},
}

var asyncVariants = []struct {
	name string
	new  func(...pubsub.Option) asyncPublisher
}{
	{"single-owner", func(opts ...pubsub.Option) asyncPublisher { return pubsub.NewAsyncPublisher[int](opts...) }},
	{"shared", func(opts ...pubsub.Option) asyncPublisher { return pubsub.NewSharedAsyncPublisher[int](opts...) }},
}
