// Package cache keeps recently resolved users in Redis.
//
// Token logins look a user up by id on every request; UserStore answers those
// lookups from Redis and falls through to the credential store on a miss or
// when Redis is unreachable. Entries expire after a TTL and are never the
// source of truth.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options sizes the Redis client. Zero fields take the values from DefaultOptions.
type Options struct {
	PoolSize     int
	MinIdleConns int
	// OpTimeout bounds each read and write so a slow Redis degrades to the store.
	OpTimeout time.Duration
}

// DefaultOptions returns the client settings used by New.
func DefaultOptions() Options {
	return Options{
		PoolSize:     10,
		MinIdleConns: 2,
		OpTimeout:    200 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PoolSize <= 0 {
		o.PoolSize = def.PoolSize
	}
	if o.MinIdleConns <= 0 {
		o.MinIdleConns = def.MinIdleConns
	}
	if o.MinIdleConns > o.PoolSize {
		o.MinIdleConns = o.PoolSize
	}
	if o.OpTimeout <= 0 {
		o.OpTimeout = def.OpTimeout
	}
	return o
}

// Cache wraps the Redis client holding user entries.
type Cache struct {
	client *redis.Client
}

// New connects with DefaultOptions.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	return Open(ctx, redisURL, DefaultOptions())
}

// Open connects to Redis and pings it before returning.
func Open(ctx context.Context, redisURL string, o Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}
	applyOptions(opt, o.withDefaults())

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func applyOptions(opt *redis.Options, o Options) {
	opt.PoolSize = o.PoolSize
	opt.MinIdleConns = o.MinIdleConns
	opt.ReadTimeout = o.OpTimeout
	opt.WriteTimeout = o.OpTimeout
	opt.PoolTimeout = 2 * o.OpTimeout
	opt.ConnMaxIdleTime = 5 * time.Minute
}

// NewFromClient wraps an existing Redis client without pinging it.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping reports whether Redis answers. Used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the Redis client to integration tests.
func (c *Cache) Client() *redis.Client {
	return c.client
}
