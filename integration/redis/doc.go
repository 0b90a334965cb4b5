// Package redis bridges pubsub publishers across processes through Redis Pub/Sub.
//
// It provides client initialization with retry and health checking, plus two adapters
// around the in-process primitive:
//
//   - Forwarder: an AsyncSubscriber that JSON-encodes each message and PUBLISHes it.
//   - Relay: subscribes to a Redis channel and republishes decoded messages to a local publisher.
//
// # Configuration
//
// Config maps environment variables and is loaded with the config package:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Usage Example
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Producer side: every local publish is also sent to Redis.
//	pub := pubsub.NewSharedAsyncPublisher[Order]()
//	pub.Subscribe(pubsub.NewAsyncHandle[Order](redis.NewForwarder[Order](client, "orders")))
//
//	// Consumer side, possibly another process: Redis messages feed a local publisher.
//	local := pubsub.NewSharedAsyncPublisher[Order]()
//	relay := redis.NewRelay[Order](client, "orders", local)
//	go relay.Run(ctx)
//
// Do not register a Forwarder on the same publisher a Relay on that channel feeds; each
// message would loop back through Redis.
//
// # Error Handling
//
// The package defines errors that can be checked with errors.Is():
//
//   - ErrEmptyConnectionURL: no connection URL was provided
//   - ErrFailedToParseRedisConnString: the connection URL is malformed
//   - ErrRedisNotReady: Redis did not answer a ping within the retry budget
//   - ErrHealthcheckFailed: a health check ping failed
//   - ErrForwardFailed: a Forwarder could not encode or publish a message
//   - ErrRelayClosed: Run was called on a closed Relay
//   - ErrEmptyChannel: a Forwarder or Relay was configured without a channel name
package redis
