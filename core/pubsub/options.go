package pubsub

import (
	"log/slog"

	"github.com/dmitrymomot/pubserve/core/logger"
)

// Option configures any of the publisher types.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger configures structured logging for subscribe, unsubscribe and isolated-delivery events.
// A nil logger is ignored. By default nothing is logged.
//
// Example:
//
//	pub := pubsub.NewSharedPublisher[Order](pubsub.WithLogger(log))
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// log returns the configured logger. Zero-value publishers have none.
func (o *options) log() *slog.Logger {
	if o.logger == nil {
		return logger.Discard()
	}
	return o.logger
}
