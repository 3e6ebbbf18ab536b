package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache holds computed availability results. Entries are addressed through a
// generation counter: any write that changes availability bumps the counter and
// every older entry becomes unreachable until its TTL drops it.
type Cache struct {
	rdb   *redis.Client
	group singleflight.Group
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

// AvailabilityGeneration returns the current availability generation, 0 when unset.
func (c *Cache) AvailabilityGeneration(ctx context.Context) (int64, error) {
	n, err := c.rdb.Get(ctx, KeyAvailabilityGen()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redisrepo.Cache.AvailabilityGeneration: %w", err)
	}

	return n, nil
}

// InvalidateAvailability bumps the generation.
func (c *Cache) InvalidateAvailability(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, KeyAvailabilityGen()).Err(); err != nil {
		return fmt.Errorf("redisrepo.Cache.InvalidateAvailability: %w", err)
	}
	return nil
}

// Remember returns the value stored under key, or computes it with load and stores
// it for ttl. Concurrent misses on one key share a single load. The cache is
// advisory: when redis cannot be read or the entry cannot be decoded, the value is
// computed from the source instead of failing the call.
func Remember[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var hit T
	if ok, _ := c.read(ctx, key, &hit); ok {
		return hit, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		var again T
		if ok, _ := c.read(ctx, key, &again); ok {
			return again, nil
		}

		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.write(ctx, key, fresh, ttl)

		return fresh, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

func (c *Cache) read(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cache) write(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, raw, ttl).Err()
}
