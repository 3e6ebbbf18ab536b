package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdemState is where a request stands for a given Idempotency-Key.
type IdemState int

const (
	IdemAbsent IdemState = iota
	IdemPending
	IdemDone
)

const (
	idemFieldState = "state"
	idemFieldBody  = "body"
	idemPending    = "pending"
	idemDone       = "done"
)

// begin claims the key for one in-flight request.
// KEYS[1] = key, ARGV[1] = lock ttl in ms
var idemBegin = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], 'state', 'pending') == 0 then
  return 0
end
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

// abort frees a claim that never completed. A stored response is left alone.
var idemAbort = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'state') == 'pending' then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// IdempotencyStore keeps one record per Idempotency-Key: a short-lived pending
// claim while the request runs, then the response body for the retention ttl.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Begin claims key. False means another request holds it or already finished.
func (s *IdempotencyStore) Begin(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	n, err := idemBegin.Run(ctx, s.rdb, []string{key}, lockTTL.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redisrepo.IdempotencyStore.Begin: %w", err)
	}
	return n == 1, nil
}

// Complete stores the response and extends the record to the retention ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key, body string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, idemFieldState, idemDone, idemFieldBody, body)
		p.PExpire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisrepo.IdempotencyStore.Complete: %w", err)
	}
	return nil
}

// Lookup returns the state of key and, when done, the stored body.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (IdemState, string, error) {
	rec, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return IdemAbsent, "", fmt.Errorf("redisrepo.IdempotencyStore.Lookup: %w", err)
	}

	switch rec[idemFieldState] {
	case idemDone:
		return IdemDone, rec[idemFieldBody], nil
	case idemPending:
		return IdemPending, "", nil
	default:
		return IdemAbsent, "", nil
	}
}

// Abort releases a pending claim so the caller may retry with the same key.
func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	if err := idemAbort.Run(ctx, s.rdb, []string{key}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redisrepo.IdempotencyStore.Abort: %w", err)
	}
	return nil
}
