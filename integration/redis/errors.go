package redis

import "errors"

// Domain-specific Redis errors. Use errors.Is() to check them.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrForwardFailed                = errors.New("failed to forward message to redis")
	ErrRelayClosed                  = errors.New("redis relay is closed")
	ErrEmptyChannel                 = errors.New("empty redis channel name")
)
