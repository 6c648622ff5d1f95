// Package redis stores auth users in Redis.
package redis

import (
	"fmt"

	"github.com/go-redis/redis/v8"
)

// ConfigOption adjusts the options parsed from the URL before the client is built.
type ConfigOption func(*redis.Options)

// NewRedisUniversalClient parses redisURL (redis://[user:pass@]host:port/db) and creates a
// universal client. The client connects lazily; nothing is dialed here.
func NewRedisUniversalClient(redisURL string, options ...ConfigOption) (redis.UniversalClient, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cant parse redis url: %w", err)
	}
	for _, opt := range options {
		opt(parsed)
	}
	return redis.NewUniversalClient(toUniversalOptions(parsed)), nil
}

// WithPoolSize caps the connection pool.
func WithPoolSize(size int) ConfigOption {
	return func(o *redis.Options) {
		if size > 0 {
			o.PoolSize = size
		}
	}
}

func toUniversalOptions(o *redis.Options) *redis.UniversalOptions {
	return &redis.UniversalOptions{
		Addrs:        []string{o.Addr},
		DB:           o.DB,
		Username:     o.Username,
		Password:     o.Password,
		TLSConfig:    o.TLSConfig,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		MaxRetries:   o.MaxRetries,
		PoolSize:     o.PoolSize,
		PoolTimeout:  o.PoolTimeout,
		MinIdleConns: o.MinIdleConns,
		IdleTimeout:  o.IdleTimeout,
	}
}
