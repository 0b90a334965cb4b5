package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// PublishClient is the subset of the go-redis client used by Forwarder.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type PublishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Forwarder is an AsyncSubscriber that JSON-encodes every message and PUBLISHes it to a
// Redis channel. Register it with a publisher to fan messages out to other processes.
//
// Receive never panics on transport errors: failures are logged and passed to the
// WithErrorHandler callback, if any.
//
// Example:
//
//	fwd := redis.NewForwarder[Order](client, "orders", redis.WithForwarderLogger(log))
//	pub.Subscribe(pubsub.NewAsyncHandle[Order](fwd))
type Forwarder[T any] struct {
	client  PublishClient
	channel string
	logger  *slog.Logger
	onError func(context.Context, error)
}

// ForwarderOption configures a Forwarder.
type ForwarderOption func(*forwarderConfig)

type forwarderConfig struct {
	logger  *slog.Logger
	onError func(context.Context, error)
}

// WithForwarderLogger sets the logger. A nil logger is ignored.
func WithForwarderLogger(l *slog.Logger) ForwarderOption {
	return func(c *forwarderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler registers a callback for encode and publish failures.
func WithErrorHandler(fn func(context.Context, error)) ForwarderOption {
	return func(c *forwarderConfig) {
		c.onError = fn
	}
}

// NewForwarder creates a Forwarder publishing to channel.
func NewForwarder[T any](client PublishClient, channel string, opts ...ForwarderOption) *Forwarder[T] {
	cfg := forwarderConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Forwarder[T]{
		client:  client,
		channel: channel,
		logger:  cfg.logger,
		onError: cfg.onError,
	}
}

// Channel returns the Redis channel messages are published to.
func (f *Forwarder[T]) Channel() string {
	return f.channel
}

// Receive encodes msg and publishes it.
func (f *Forwarder[T]) Receive(ctx context.Context, msg T) {
	if err := f.forward(ctx, msg); err != nil {
		f.logger.ErrorContext(ctx, "forward failed", logger.Channel(f.channel), logger.Error(err))
		if f.onError != nil {
			f.onError(ctx, err)
		}
	}
}

func (f *Forwarder[T]) forward(ctx context.Context, msg T) error {
	if f.channel == "" {
		return errors.Join(ErrForwardFailed, ErrEmptyChannel)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Join(ErrForwardFailed, err)
	}

	receivers, err := f.client.Publish(ctx, f.channel, data).Result()
	if err != nil {
		return errors.Join(ErrForwardFailed, err)
	}

	f.logger.DebugContext(ctx, "message forwarded",
		logger.Channel(f.channel),
		logger.Count("receivers", int(receivers)),
		logger.Count("bytes", len(data)))
	return nil
}
