package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// defaultTTL is how long a parsed snapshot's raw bytes stay cached before
// the caller must re-read and re-hash the source file.
const defaultTTL = 10 * time.Minute

// Key returns the cache key for a snapshot document's raw bytes, derived
// from an xxhash digest of its content (the same hashing primitive
// engine/sweep uses for shard affinity, applied here to cache identity
// instead).
func Key(raw []byte) string {
	return fmt.Sprintf("snapshot:%016x", xxhash.Sum64(raw))
}

// Get returns the cached raw snapshot bytes for key, if present.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	return b, true, nil
}

// Set stores raw snapshot bytes under key with the default TTL.
func (c *Client) Set(ctx context.Context, key string, raw []byte) error {
	if err := c.rdb.Set(ctx, key, raw, defaultTTL).Err(); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}
