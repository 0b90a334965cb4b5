package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// Conn is an AsyncSubscriber that writes every message to a websocket connection as a
// JSON text frame. Writes are serialized, so a Conn may be registered with shared
// publishers and called from several goroutines.
//
// After the first failed write the connection is closed and later messages are discarded.
type Conn[T any] struct {
	conn    *websocket.Conn
	timeout time.Duration
	logger  *slog.Logger
	onError func(context.Context, error)

	mu     sync.Mutex
	broken bool
}

// NewConn wraps conn. Upgrade options in opts are ignored.
func NewConn[T any](conn *websocket.Conn, opts ...Option) (*Conn[T], error) {
	if conn == nil {
		return nil, ErrNilConn
	}
	return newConn[T](conn, newConfig(opts)), nil
}

func newConn[T any](conn *websocket.Conn, cfg *config) *Conn[T] {
	return &Conn[T]{
		conn:    conn,
		timeout: cfg.writeTimeout,
		logger:  cfg.logger.With(slog.String("remote_addr", conn.RemoteAddr().String())),
		onError: cfg.onError,
	}
}

// Receive writes msg. The write deadline is the earlier of the configured timeout and ctx's deadline.
func (c *Conn[T]) Receive(ctx context.Context, msg T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return
	}
	if err := ctx.Err(); err != nil {
		return
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	err := c.conn.SetWriteDeadline(deadline)
	if err == nil {
		err = c.conn.WriteJSON(msg)
	}
	if err != nil {
		c.broken = true
		_ = c.conn.Close()
		err = errors.Join(ErrWriteFailed, err)
		c.logger.WarnContext(ctx, "websocket write failed", logger.Error(err))
		if c.onError != nil {
			c.onError(ctx, err)
		}
	}
}

// Close sends a close frame and closes the connection.
func (c *Conn[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken {
		return nil
	}
	c.broken = true

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.timeout))
	return c.conn.Close()
}
