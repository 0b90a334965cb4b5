package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/pubserve/core/logger"
	"github.com/dmitrymomot/pubserve/core/pubsub"
)

// Registry is where Handler registers connections. *pubsub.SharedAsyncPublisher satisfies it.
// The handler runs one goroutine per connection, so the registry must be safe for concurrent use.
type Registry[T any] interface {
	Subscribe(h *pubsub.Handle[pubsub.AsyncSubscriber[T]])
	Unsubscribe(h *pubsub.Handle[pubsub.AsyncSubscriber[T]])
}

// Handler returns an http.Handler that upgrades each request to a websocket and subscribes
// the connection to reg until the peer disconnects. Frames sent by the peer are read and
// discarded; reading keeps control frames flowing and detects disconnects.
//
// Example:
//
//	feed := pubsub.NewSharedAsyncPublisher[Quote]()
//	http.Handle("/quotes", websocket.Handler[Quote](feed, websocket.WithAllowAnyOrigin()))
//	...
//	_ = feed.Publish(ctx, quote) // every connected client gets a JSON frame
func Handler[T any](reg Registry[T], opts ...Option) http.Handler {
	cfg := newConfig(opts)
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  cfg.readBufferSize,
		WriteBufferSize: cfg.writeBufferSize,
		CheckOrigin:     cfg.checkOrigin,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.logger.DebugContext(ctx, "websocket upgrade failed", logger.Error(err))
			if cfg.onError != nil {
				cfg.onError(ctx, err)
			}
			return
		}

		sub := newConn[T](conn, cfg)
		defer func() {
			_ = sub.Close()
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(ctx, r)
			}
		}()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(ctx, r); err != nil {
				if cfg.onError != nil {
					cfg.onError(ctx, err)
				}
				return
			}
		}

		h := pubsub.NewAsyncHandle[T](sub)
		reg.Subscribe(h)
		defer reg.Unsubscribe(h)
		cfg.logger.DebugContext(ctx, "websocket subscriber connected", logger.Subscriber(h.ID()))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					cfg.logger.DebugContext(ctx, "websocket closed unexpectedly", logger.Error(err))
				}
				return
			}
		}
	})
}
