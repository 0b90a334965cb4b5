// Package logger provides small helpers on top of log/slog: a constructor with
// functional options, a discard logger used as the default by every component,
// and attribute helpers for the fields pubserve logs (subscriber IDs, channels,
// panics, timings).
//
// Basic usage:
//
//	log := logger.New(
//		logger.WithLevelString("debug"),
//		logger.WithJSON(),
//	)
//
//	pub := pubsub.NewPublisher[string](pubsub.WithLogger(log))
//
// Attribute helpers are nil-safe: logger.Error(nil) yields an empty attribute
// which slog omits from the output.
//
//	log.Warn("forward failed", logger.Channel("orders"), logger.Error(err))
package logger
