package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// DefaultChannelBufferSize is the default buffer size of a Channel subscriber.
const DefaultChannelBufferSize = 100

// Channel is an AsyncSubscriber that forwards every message into a buffered Go channel,
// letting the consumer read on its own goroutine.
//
// Receive blocks while the buffer is full, until space frees up or ctx is done. Messages
// that could not be queued are counted by Dropped. Channel is safe for concurrent use.
//
// Example:
//
//	ch := pubsub.NewChannel[Order](pubsub.WithBufferSize(16))
//	defer ch.Close()
//	pub.Subscribe(pubsub.NewAsyncHandle[Order](ch))
//
//	go func() {
//	    for order := range ch.C() {
//	        process(order)
//	    }
//	}()
type Channel[T any] struct {
	ch      chan T
	logger  *slog.Logger
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// ChannelOption configures a Channel.
type ChannelOption func(*channelConfig)

type channelConfig struct {
	bufferSize int
	logger     *slog.Logger
}

// WithBufferSize sets the buffer size. Non-positive values are ignored.
func WithBufferSize(size int) ChannelOption {
	return func(c *channelConfig) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithChannelLogger configures structured logging. A nil logger is ignored.
func WithChannelLogger(l *slog.Logger) ChannelOption {
	return func(c *channelConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChannel creates a Channel subscriber.
func NewChannel[T any](opts ...ChannelOption) *Channel[T] {
	cfg := channelConfig{
		bufferSize: DefaultChannelBufferSize,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Channel[T]{
		ch:     make(chan T, cfg.bufferSize),
		logger: cfg.logger,
	}
}

// Receive queues msg. After Close, or if ctx ends first, msg is dropped.
func (c *Channel[T]) Receive(ctx context.Context, msg T) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.dropped.Add(1)
		c.logger.DebugContext(ctx, "message dropped: channel closed")
		return
	}

	select {
	case c.ch <- msg:
	case <-ctx.Done():
		c.dropped.Add(1)
		c.logger.DebugContext(ctx, "message dropped: context done", logger.Error(ctx.Err()))
	}
}

// C returns the receive side of the channel. It is closed by Close.
func (c *Channel[T]) C() <-chan T {
	return c.ch
}

// Len returns the number of queued messages.
func (c *Channel[T]) Len() int {
	return len(c.ch)
}

// Dropped returns how many messages were not queued.
func (c *Channel[T]) Dropped() int64 {
	return c.dropped.Load()
}

// Close closes the underlying channel. It waits for Receive calls already blocked on a
// full buffer, so consumers should keep draining until Close returns.
// Closing twice returns ErrChannelClosed.
func (c *Channel[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	c.closed = true
	close(c.ch)
	c.logger.Debug("subscriber channel closed", logger.Count("dropped", int(c.dropped.Load())))
	return nil
}
