package redisrepo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// admit keeps the accepted hits of the last window in a sorted set scored by time.
// A denied call is not recorded, so a client retrying too early does not push its
// own window further out.
// KEYS[1] = key; ARGV = now ms, window ms, limit, member
// returns {admitted, retry ms}
var admit = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)
if redis.call('ZCARD', KEYS[1]) >= limit then
  local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
  local wait = tonumber(oldest[2]) + window - now
  if wait < 1 then wait = 1 end
  return {0, wait}
end

redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)
return {1, 0}
`)

// SlidingWindowLimiter caps booking attempts per caller over a rolling window.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewSlidingWindowLimiter(rdb *redis.Client, scope string, limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow admits one attempt for id. When denied, retryAfter is the time until the
// oldest admitted attempt leaves the window.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, id string) (allowed bool, retryAfter time.Duration, err error) {
	res, err := admit.Run(ctx, l.rdb,
		[]string{KeyRateLimit(l.scope, id)},
		l.now().UnixMilli(), l.window.Milliseconds(), l.limit, hitID(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("redisrepo.SlidingWindowLimiter.Allow: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("redisrepo.SlidingWindowLimiter.Allow: unexpected reply %v", res)
	}

	return res[0] == 1, time.Duration(res[1]) * time.Millisecond, nil
}

func hitID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
