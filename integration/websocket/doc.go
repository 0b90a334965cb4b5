// Package websocket streams pubsub messages to websocket clients using gorilla/websocket.
//
// Conn is an AsyncSubscriber that writes each message as a JSON text frame. Handler is an
// http.Handler that upgrades requests, subscribes each connection to a publisher for as long
// as the client stays connected, and unsubscribes it on disconnect.
//
//	feed := pubsub.NewSharedAsyncPublisher[Quote]()
//	mux.Handle("/quotes", websocket.Handler[Quote](feed,
//		websocket.WithWriteTimeout(5*time.Second),
//		websocket.WithLogger(log),
//	))
//
//	_ = feed.Publish(ctx, Quote{Symbol: "ACME", Price: 12.5})
//
// Publishing is sequential, so a slow client delays the ones registered after it by up to
// the write timeout. A failed write closes that connection and its handler unsubscribes it.
package websocket
