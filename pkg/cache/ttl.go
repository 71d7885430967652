package cache

import (
	"context"
	"time"
)

// TTLCache overrides the lifetime of every entry written through it.
type TTLCache struct {
	Cache
	ttl time.Duration
}

// WithTTL wraps c so that every Set uses ttl instead of the caller's value.
func WithTTL(c Cache, ttl time.Duration) *TTLCache {
	return &TTLCache{Cache: c, ttl: ttl}
}

// Set stores a value with the wrapper's lifetime.
func (c *TTLCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *TTLCache) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

var (
	_ Cache   = (*TTLCache)(nil)
	_ Clearer = (*TTLCache)(nil)
)
