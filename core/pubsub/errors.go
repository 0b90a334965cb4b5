package pubsub

import (
	"errors"
	"fmt"
)

var (
	// ErrSubscriberPanic matches every *PanicError recovered by PublishIsolated or WithRecover.
	ErrSubscriberPanic = errors.New("subscriber panicked")

	// ErrChannelClosed is returned when closing a Channel twice.
	ErrChannelClosed = errors.New("subscriber channel is closed")
)

// PanicError carries a panic recovered from a subscriber's Receive call.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSubscriberPanic, e.Value)
}

// Is reports ErrSubscriberPanic as a match.
func (e *PanicError) Is(target error) bool {
	return target == ErrSubscriberPanic
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
