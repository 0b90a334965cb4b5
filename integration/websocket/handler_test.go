package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrymomot/pubserve/core/pubsub"
	"github.com/dmitrymomot/pubserve/integration/websocket"
)

type quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHandler_Broadcast(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	feed := pubsub.NewSharedAsyncPublisher[quote]()
	disconnected := make(chan struct{}, 2)

	srv := httptest.NewServer(websocket.Handler[quote](feed,
		websocket.WithWriteTimeout(time.Second),
		websocket.WithOnDisconnect(func(context.Context, *http.Request) { disconnected <- struct{}{} }),
	))
	defer srv.Close()

	clients := make([]*gws.Conn, 2)
	for i := range clients {
		c, resp, err := gws.DefaultDialer.Dial(wsURL(srv), nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		clients[i] = c
	}

	require.Eventually(t, func() bool { return feed.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, feed.Publish(t.Context(), quote{Symbol: "ACME", Price: 12.5}))

	for _, c := range clients {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got quote
		require.NoError(t, c.ReadJSON(&got))
		assert.Equal(t, quote{Symbol: "ACME", Price: 12.5}, got)
	}

	for _, c := range clients {
		_ = c.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseNormalClosure, ""))
		_ = c.Close()
	}

	for range clients {
		select {
		case <-disconnected:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not observe disconnect")
		}
	}
	assert.False(t, feed.HasSubscribers())
}

func TestHandler_OnConnectRejects(t *testing.T) {
	t.Parallel()

	feed := pubsub.NewSharedAsyncPublisher[quote]()
	errs := make(chan error, 1)
	rejected := assert.AnError

	srv := httptest.NewServer(websocket.Handler[quote](feed,
		websocket.WithOnConnect(func(context.Context, *http.Request) error { return rejected }),
		websocket.WithErrorHandler(func(_ context.Context, err error) { errs <- err }),
	))
	defer srv.Close()

	c, resp, err := gws.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer c.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, rejected)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler not called")
	}
	assert.False(t, feed.HasSubscribers())
}

func TestHandler_UpgradeFailure(t *testing.T) {
	t.Parallel()

	errs := make(chan error, 1)
	srv := httptest.NewServer(websocket.Handler[quote](pubsub.NewSharedAsyncPublisher[quote](),
		websocket.WithErrorHandler(func(_ context.Context, err error) { errs <- err }),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler not called")
	}
}
