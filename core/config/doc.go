// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/pubserve/core/config"
//
//	type BridgeConfig struct {
//		Channel    string        `env:"BRIDGE_CHANNEL" envDefault:"events"`
//		BufferSize int           `env:"BRIDGE_BUFFER_SIZE" envDefault:"100"`
//		Timeout    time.Duration `env:"BRIDGE_TIMEOUT" envDefault:"5s"`
//		RedisURL   string        `env:"REDIS_URL,required"`
//	}
//
//	func main() {
//		var cfg BridgeConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 BridgeConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 BridgeConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	config.MustLoad(&BridgeConfig{})
//	config.MustLoad(&redis.Config{})
//
// Tests that mutate the environment call Reset to clear the cache.
package config
