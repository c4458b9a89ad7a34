// Package cache fronts the (out-of-core) topology-snapshot parser with a
// Redis cache keyed by the snapshot's content hash, and adapts the
// teacher's sliding-window rate limiter into sweep-cell admission control
// (bounding how many grid cells a single caller can enqueue per window).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr     string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a default configuration for local development.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     20,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Client wraps a Redis client with the snapshot cache and sweep-admission
// rate limiter built on top of it.
type Client struct {
	rdb         *redis.Client
	rateLimiter *RateLimiter
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: failed to connect to redis: %w", err)
	}

	return &Client{
		rdb:         rdb,
		rateLimiter: NewRateLimiter(rdb),
	}, nil
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// RateLimiter returns the sweep-admission rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}
