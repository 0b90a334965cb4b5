package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// DefaultWriteTimeout bounds a single frame write.
const DefaultWriteTimeout = 10 * time.Second

type config struct {
	readBufferSize  int
	writeBufferSize int
	checkOrigin     func(r *http.Request) bool
	writeTimeout    time.Duration
	logger          *slog.Logger
	onConnect       func(context.Context, *http.Request) error
	onDisconnect    func(context.Context, *http.Request)
	onError         func(context.Context, error)
}

func newConfig(opts []Option) *config {
	c := &config{
		readBufferSize:  1024,
		writeBufferSize: 1024,
		writeTimeout:    DefaultWriteTimeout,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures Conn and Handler.
type Option func(*config)

// WithReadBuffer sets the upgrader read buffer size.
func WithReadBuffer(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.readBufferSize = size
		}
	}
}

// WithWriteBuffer sets the upgrader write buffer size.
func WithWriteBuffer(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.writeBufferSize = size
		}
	}
}

// WithOriginCheck sets the upgrader origin check.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(c *config) {
		c.checkOrigin = fn
	}
}

// WithAllowAnyOrigin disables the origin check.
func WithAllowAnyOrigin() Option {
	return func(c *config) {
		c.checkOrigin = func(*http.Request) bool { return true }
	}
}

// WithWriteTimeout bounds each frame write. Non-positive values are ignored.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnConnect runs after the upgrade and before the connection is subscribed.
// Returning an error closes the connection.
func WithOnConnect(fn func(context.Context, *http.Request) error) Option {
	return func(c *config) {
		c.onConnect = fn
	}
}

// WithOnDisconnect runs after the connection is unsubscribed and closed.
func WithOnDisconnect(fn func(context.Context, *http.Request)) Option {
	return func(c *config) {
		c.onDisconnect = fn
	}
}

// WithErrorHandler receives upgrade and write errors.
func WithErrorHandler(fn func(context.Context, error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}
