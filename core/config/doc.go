// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads .env files on first use (missing files are ignored) and
// uses the caarlos0/env library for parsing environment variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/cafe/core/config"
//
//	type ServerConfig struct {
//		Port int    `env:"PORT" envDefault:"4000"`
//		API  string `env:"API_URL,required"`
//	}
//
//	func main() {
//		var cfg ServerConfig
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
//	var cfg1 ServerConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 ServerConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Use Reset in tests to drop cached values between cases.
package config
