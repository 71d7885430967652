package cache

import (
	"context"
	"time"
)

// NullCache is the backend used when caching is off. Reason records why,
// for example "--no-cache" or "backend none".
type NullCache struct {
	Reason string
}

// NewNullCache returns a disabled cache with an empty reason.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled returns a NullCache that remembers why caching is off.
func Disabled(reason string) Cache {
	return &NullCache{Reason: reason}
}

// IsDisabled reports whether c never stores layouts, and why.
func IsDisabled(c Cache) (string, bool) {
	if n, ok := c.(*NullCache); ok {
		return n.Reason, true
	}
	return "", false
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error { return nil }

func (c *NullCache) Clear(ctx context.Context) error { return nil }

func (c *NullCache) Close() error { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
