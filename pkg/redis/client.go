package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/idxlab/terminal/pkg/config"
)

// Client wraps the Redis connection used for last-known-good caching. When
// Redis is disabled in config, the client is a no-op and every cache lookup
// misses.
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a Redis client from config.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Disabled returns a no-op client. Used in tests and when running without
// infrastructure.
func Disabled() *Client {
	return &Client{enabled: false}
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled reports whether Redis is connected.
func (c *Client) Enabled() bool { return c.enabled }

// Redis returns the underlying client.
func (c *Client) Redis() *redis.Client { return c.rdb }
