package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// SubscribeClient is the subset of the go-redis client used by Relay.
type SubscribeClient interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Target receives decoded messages from a Relay. *pubsub.AsyncPublisher and
// *pubsub.SharedAsyncPublisher satisfy it.
type Target[T any] interface {
	Publish(ctx context.Context, msg T) error
}

// Relay subscribes to a Redis channel, decodes each JSON payload into T and publishes it to
// a local publisher. Together with Forwarder it extends a publisher across processes.
//
// Example:
//
//	local := pubsub.NewSharedAsyncPublisher[Order]()
//	relay := redis.NewRelay[Order](client, "orders", local)
//	go relay.Run(ctx)
//	defer relay.Close()
type Relay[T any] struct {
	client  SubscribeClient
	channel string
	target  Target[T]
	logger  *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// RelayOption configures a Relay.
type RelayOption func(*relayConfig)

type relayConfig struct {
	logger *slog.Logger
}

// WithRelayLogger sets the logger. A nil logger is ignored.
func WithRelayLogger(l *slog.Logger) RelayOption {
	return func(c *relayConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewRelay creates a Relay from channel to target.
func NewRelay[T any](client SubscribeClient, channel string, target Target[T], opts ...RelayOption) *Relay[T] {
	cfg := relayConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Relay[T]{
		client:  client,
		channel: channel,
		target:  target,
		logger:  cfg.logger,
		done:    make(chan struct{}),
	}
}

// Run subscribes and relays messages until ctx is done or Close is called.
// It returns nil after Close, ctx.Err() on cancellation, and ErrRelayClosed if called after Close.
func (r *Relay[T]) Run(ctx context.Context) error {
	if r.channel == "" {
		return ErrEmptyChannel
	}

	select {
	case <-r.done:
		return ErrRelayClosed
	default:
	}

	ps := r.client.Subscribe(ctx, r.channel)
	defer ps.Close()

	// Wait for the subscription confirmation so messages published after Run starts are not lost.
	if _, err := ps.Receive(ctx); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "relay subscribed", logger.Channel(r.channel))
	msgs := ps.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.done:
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := r.dispatch(ctx, msg.Payload); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				r.logger.WarnContext(ctx, "relay dropped message", logger.Channel(r.channel), logger.Error(err))
			}
		}
	}
}

// dispatch decodes one payload and publishes it.
func (r *Relay[T]) dispatch(ctx context.Context, payload string) error {
	var msg T
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return err
	}
	return r.target.Publish(ctx, msg)
}

// Close stops Run. It is safe to call more than once.
func (r *Relay[T]) Close() error {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	return nil
}
