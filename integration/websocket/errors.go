package websocket

import "errors"

var (
	// ErrNilConn is returned by NewConn for a nil connection.
	ErrNilConn = errors.New("websocket connection is nil")

	// ErrWriteFailed wraps frame write failures reported to the error handler.
	ErrWriteFailed = errors.New("websocket write failed")
)
