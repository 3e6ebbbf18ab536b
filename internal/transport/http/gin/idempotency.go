package httpgin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
	"github.com/gin-gonic/gin"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
	defaultIdemLockTTL   = 60 * time.Second
)

// storedResponse is what gets replayed for a repeated Idempotency-Key.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// responseStore is the slice of redisrepo.IdempotencyStore the wrapper needs.
type responseStore interface {
	Begin(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	Lookup(ctx context.Context, key string) (redisrepo.IdemState, string, error)
	Complete(ctx context.Context, key, body string) error
	Abort(ctx context.Context, key string) error
}

type idempotency struct {
	store   responseStore
	lockTTL time.Duration
	log     *slog.Logger
}

// run executes fn at most once per (scope, caller, Idempotency-Key) and replays the
// first successful response to every retry. Without a key or a store it just runs fn.
// A failed attempt gives the key back so the caller can retry.
func (i idempotency) run(c *gin.Context, scope string, fn func() (int, any, error)) {
	idemKey := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if len(idemKey) > maxIdempotencyKeyLen {
		badRequest(c, "idempotency key too long")
		return
	}
	if i.store == nil || idemKey == "" {
		i.respond(c, fn)
		return
	}

	ctx := c.Request.Context()
	key := redisrepo.KeyIdempotency(scope, actorFrom(c).ID, idemKey)
	c.Header(headerIdempotencyKey, idemKey)

	claimed, err := i.store.Begin(ctx, key, i.ttl())
	if err != nil {
		respondErr(c, err)
		return
	}
	if !claimed {
		i.answerRepeat(c, key)
		return
	}

	status, body, err := fn()
	if err == nil {
		var raw []byte
		if raw, err = json.Marshal(body); err == nil {
			rec, _ := json.Marshal(storedResponse{Status: status, Body: raw})
			if err := i.store.Complete(ctx, key, string(rec)); err != nil && i.log != nil {
				// retries answer 409 until the claim expires
				i.log.WarnContext(ctx, "idempotent response not stored",
					slog.String("scope", scope),
					slog.Duration("claim_ttl", i.ttl()),
					slog.Any("err", err),
				)
			}
			c.Data(status, "application/json; charset=utf-8", raw)
			return
		}
	}

	_ = i.store.Abort(ctx, key)
	respondErr(c, err)
}

// answerRepeat handles a request whose key was already claimed: it either replays
// the stored response or reports that the first attempt is still running.
func (i idempotency) answerRepeat(c *gin.Context, key string) {
	state, rec, err := i.store.Lookup(c.Request.Context(), key)
	if err != nil {
		respondErr(c, err)
		return
	}

	var stored storedResponse
	if state == redisrepo.IdemDone && json.Unmarshal([]byte(rec), &stored) == nil {
		c.Header(headerReplayed, "true")
		c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
		return
	}

	c.Header("Retry-After", "1")
	c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
}

func (i idempotency) respond(c *gin.Context, fn func() (int, any, error)) {
	status, body, err := fn()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(status, body)
}

func (i idempotency) ttl() time.Duration {
	if i.lockTTL <= 0 {
		return defaultIdemLockTTL
	}
	return i.lockTTL
}
