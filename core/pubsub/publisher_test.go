package pubsub_test

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pubserve/core/pubsub"
)

func TestPublisher_HasSubscribers(t *testing.T) {
	t.Parallel()

	for _, v := range blockingVariants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			pub := v.new()
			assert.False(t, pub.HasSubscribers())
			assert.Equal(t, 0, pub.Len())

			h := pubsub.NewHandle[int](&accumulator{})
			pub.Subscribe(h)
			pub.Subscribe(h)
			assert.True(t, pub.HasSubscribers())
			assert.Equal(t, 2, pub.Len())

			pub.Unsubscribe(h)
			assert.False(t, pub.HasSubscribers())
			assert.Equal(t, 0, pub.Len())
		})
	}
}

func TestPublisher_ZeroValue(t *testing.T) {
	t.Parallel()

	var pub pubsub.Publisher[int]
	assert.False(t, pub.HasSubscribers())
	assert.NotPanics(t, func() { pub.Publish(1) })

	acc := &accumulator{}
	h := pubsub.NewHandle[int](acc)
	pub.Subscribe(h)
	pub.Publish(7)
	pub.Unsubscribe(h)
	pub.Publish(8)
	assert.Equal(t, []int{7}, acc.values())

	var shared pubsub.SharedPublisher[int]
	shared.Subscribe(h)
	shared.Publish(9)
	assert.Equal(t, []int{7, 9}, acc.values())
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	for _, v := range blockingVariants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			t.Run("empty publisher is a no-op", func(t *testing.T) {
				t.Parallel()
				pub := v.new()
				assert.NotPanics(t, func() { pub.Publish(1) })
			})

			t.Run("delivers in registration order", func(t *testing.T) {
				t.Parallel()

				j := &journal{}
				pub := v.new()
				pub.Subscribe(j.sub("a"))
				pub.Subscribe(j.sub("b"))
				pub.Subscribe(j.sub("c"))

				pub.Publish(1)
				pub.Publish(2)
				assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, j.list())
			})

			t.Run("duplicate registration receives twice", func(t *testing.T) {
				t.Parallel()

				acc := &accumulator{}
				h := pubsub.NewHandle[int](acc)
				pub := v.new()
				pub.Subscribe(h)
				pub.Subscribe(h)

				pub.Publish(5)
				assert.Equal(t, []int{5, 5}, acc.values())
			})

			t.Run("subscribe then unsubscribe stops delivery", func(t *testing.T) {
				t.Parallel()

				acc := &accumulator{}
				h := pubsub.NewHandle[int](acc)
				pub := v.new()
				pub.Subscribe(h)

				pub.Publish(42)
				assert.Contains(t, acc.values(), 42)

				pub.Unsubscribe(h)
				pub.Publish(43)
				assert.NotContains(t, acc.values(), 43)
			})

			t.Run("subscribers get their own copy of the message", func(t *testing.T) {
				t.Parallel()

				type payload struct{ N int }
				var seen []int
				mutate := pubsub.SubscriberFunc[payload](func(p payload) {
					p.N = 100
					seen = append(seen, p.N)
				})
				observe := pubsub.SubscriberFunc[payload](func(p payload) {
					seen = append(seen, p.N)
				})

				pub := pubsub.NewPublisher[payload]()
				pub.Subscribe(pubsub.NewHandle[payload](mutate))
				pub.Subscribe(pubsub.NewHandle[payload](observe))
				pub.Publish(payload{N: 1})
				assert.Equal(t, []int{100, 1}, seen)
			})

			t.Run("nil handle is ignored", func(t *testing.T) {
				t.Parallel()

				pub := v.new()
				pub.Subscribe(nil)
				pub.Unsubscribe(nil)
				assert.False(t, pub.HasSubscribers())
				assert.NotPanics(t, func() { pub.Publish(1) })
			})
		})
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	t.Parallel()

	for _, v := range blockingVariants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			t.Run("fresh handle of the same subscriber is a no-op", func(t *testing.T) {
				t.Parallel()

				acc := &accumulator{}
				other := &accumulator{}
				pub := v.new()
				pub.Subscribe(pubsub.NewHandle[int](acc))
				pub.Subscribe(pubsub.NewHandle[int](other))

				pub.Unsubscribe(pubsub.NewHandle[int](acc))
				assert.Equal(t, 2, pub.Len())

				pub.Publish(1)
				assert.Equal(t, []int{1}, acc.values())
				assert.Equal(t, []int{1}, other.values())
			})

			t.Run("equal but distinct subscribers are not interchangeable", func(t *testing.T) {
				t.Parallel()

				a := &accumulator{}
				b := &accumulator{}
				ha := pubsub.NewHandle[int](a)
				pub := v.new()
				pub.Subscribe(ha)

				pub.Unsubscribe(pubsub.NewHandle[int](b))
				pub.Publish(3)
				assert.Equal(t, []int{3}, a.values())
				assert.Empty(t, b.values())
			})

			t.Run("removes every registration and keeps order", func(t *testing.T) {
				t.Parallel()

				j := &journal{}
				a, b, c := j.sub("a"), j.sub("b"), j.sub("c")
				pub := v.new()
				pub.Subscribe(a)
				pub.Subscribe(b)
				pub.Subscribe(a)
				pub.Subscribe(c)
				pub.Subscribe(a)

				pub.Unsubscribe(a)
				assert.Equal(t, 2, pub.Len())

				pub.Publish(1)
				assert.Equal(t, []string{"b", "c"}, j.list())
			})

			t.Run("logs unmatched unsubscribe", func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
				pub := v.new(pubsub.WithLogger(log))

				h := pubsub.NewHandle[int](&accumulator{})
				pub.Unsubscribe(h)
				assert.Contains(t, buf.String(), "unsubscribe matched no registered handle")
				assert.Contains(t, buf.String(), h.ID())
			})
		})
	}
}

func TestPublisher_SubscriberFailure(t *testing.T) {
	t.Parallel()

	for _, v := range blockingVariants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			t.Run("panic aborts remaining deliveries", func(t *testing.T) {
				t.Parallel()

				j := &journal{}
				pub := v.new()
				pub.Subscribe(j.sub("a"))
				pub.Subscribe(pubsub.NewHandle[int](pubsub.SubscriberFunc[int](func(int) { panic("boom") })))
				pub.Subscribe(j.sub("c"))

				assert.PanicsWithValue(t, "boom", func() { pub.Publish(1) })
				assert.Equal(t, []string{"a"}, j.list())
			})

			t.Run("isolated delivery continues and reports", func(t *testing.T) {
				t.Parallel()

				cause := errors.New("disk full")
				failing := pubsub.NewHandle[int](pubsub.SubscriberFunc[int](func(int) { panic(cause) }))

				j := &journal{}
				pub := v.new()
				pub.Subscribe(j.sub("a"))
				pub.Subscribe(failing)
				pub.Subscribe(j.sub("c"))

				report := pub.PublishIsolated(1)
				assert.Equal(t, []string{"a", "c"}, j.list())
				assert.Equal(t, 2, report.Delivered)
				assert.False(t, report.OK())
				require.Len(t, report.Failures, 1)

				f := report.Failures[0]
				assert.Equal(t, 1, f.Index)
				assert.Equal(t, failing.ID(), f.HandleID)
				assert.ErrorIs(t, f.Err, pubsub.ErrSubscriberPanic)
				assert.ErrorIs(t, f.Err, cause)

				var pe *pubsub.PanicError
				require.ErrorAs(t, report.Err(), &pe)
				assert.Equal(t, cause, pe.Value)
				assert.NotEmpty(t, pe.Stack)
			})

			t.Run("isolated delivery without failures", func(t *testing.T) {
				t.Parallel()

				pub := v.new()
				pub.Subscribe(pubsub.NewHandle[int](&accumulator{}))
				report := pub.PublishIsolated(1)
				assert.True(t, report.OK())
				assert.NoError(t, report.Err())
				assert.Equal(t, 1, report.Delivered)
			})
		})
	}
}

func TestPublisher_UnsubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	for _, v := range blockingVariants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			j := &journal{}
			pub := v.new()

			var self *pubsub.Handle[pubsub.Subscriber[int]]
			self = pubsub.NewHandle[int](pubsub.SubscriberFunc[int](func(int) {
				j.add("self")
				pub.Unsubscribe(self)
			}))
			pub.Subscribe(self)
			pub.Subscribe(j.sub("next"))

			pub.Publish(1)
			pub.Publish(2)
			assert.Equal(t, []string{"self", "next", "next"}, j.list())
		})
	}
}

func TestPublisher_Clone(t *testing.T) {
	t.Parallel()

	t.Run("clone outlives the original", func(t *testing.T) {
		t.Parallel()

		acc := &accumulator{}
		h := pubsub.NewHandle[int](acc)

		pub := pubsub.NewPublisher[int]()
		pub.Subscribe(h)
		pub.Publish(42)

		clone := pub.Clone()
		pub = nil
		runtime.GC()

		clone.Publish(43)
		assert.Equal(t, []int{42, 43}, acc.values())
	})

	t.Run("clone is independent", func(t *testing.T) {
		t.Parallel()

		a := pubsub.NewHandle[int](&accumulator{})
		b := pubsub.NewHandle[int](&accumulator{})

		pub := pubsub.NewPublisher[int]()
		pub.Subscribe(a)
		clone := pub.Clone()

		pub.Unsubscribe(a)
		clone.Subscribe(b)
		assert.Equal(t, 0, pub.Len())
		assert.Equal(t, 2, clone.Len())
	})

	t.Run("shared clone outlives the original", func(t *testing.T) {
		t.Parallel()

		acc := &accumulator{}
		h := pubsub.NewHandle[int](acc)

		pub := pubsub.NewSharedPublisher[int]()
		pub.Subscribe(h)
		clone := pub.Clone()
		pub.Unsubscribe(h)
		pub = nil
		runtime.GC()

		clone.Publish(43)
		assert.Equal(t, []int{43}, acc.values())
		assert.Equal(t, 1, clone.Len())
	})
}

func TestSharedPublisher_Concurrent(t *testing.T) {
	t.Parallel()

	pub := pubsub.NewSharedPublisher[int]()
	stable := &accumulator{}
	pub.Subscribe(pubsub.NewHandle[int](stable))

	const publishers = 8
	const perPublisher = 50

	var wg sync.WaitGroup
	for range publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perPublisher {
				pub.Publish(i)
			}
		}()
	}

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perPublisher {
				h := pubsub.NewHandle[int](&accumulator{})
				pub.Subscribe(h)
				_ = pub.HasSubscribers()
				pub.Unsubscribe(h)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, stable.values(), publishers*perPublisher)
	assert.Equal(t, 1, pub.Len())
}

func TestSharedPublisher_SnapshotDuringPublish(t *testing.T) {
	t.Parallel()

	j := &journal{}
	pub := pubsub.NewSharedPublisher[int]()
	late := j.sub("late")

	pub.Subscribe(pubsub.NewHandle[int](pubsub.SubscriberFunc[int](func(int) {
		j.add("first")
		pub.Subscribe(late)
	})))

	pub.Publish(1)
	assert.Equal(t, []string{"first"}, j.list())

	pub.Unsubscribe(late)
	pub.Unsubscribe(late)
	pub.Publish(2)
	assert.Equal(t, []string{"first", "first"}, j.list())
}
