package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Notifier publishes reservation and agency request state changes, one channel
// per notification kind, for downstream dispatchers (email, admin dashboards).
// Delivery is best effort.
type Notifier struct {
	rdb *redis.Client
	now func() time.Time
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, now: time.Now}
}

func (p *Notifier) Notify(ctx context.Context, n domain.Notification) error {
	if n.Type == "" {
		return fmt.Errorf("redisrepo.Notifier.Notify: notification without type")
	}
	if n.TsUnix == 0 {
		n.TsUnix = p.now().Unix()
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("redisrepo.Notifier.Notify: %w", err)
	}
	if err := p.rdb.Publish(ctx, ChannelNotifications(string(n.Type)), b).Err(); err != nil {
		return fmt.Errorf("redisrepo.Notifier.Notify: %w", err)
	}

	return nil
}

// Subscribe delivers notifications of the given kinds, or of every kind when none
// is given, to handler until ctx is done.
func (p *Notifier) Subscribe(
	ctx context.Context,
	handler func(ctx context.Context, n domain.Notification),
	kinds ...domain.NotificationType,
) error {
	var sub *redis.PubSub
	if len(kinds) == 0 {
		sub = p.rdb.PSubscribe(ctx, PatternNotifications())
	} else {
		channels := make([]string, len(kinds))
		for i, k := range kinds {
			channels[i] = ChannelNotifications(string(k))
		}
		sub = p.rdb.Subscribe(ctx, channels...)
	}
	defer sub.Close()

	// Block until the server confirms the subscription.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redisrepo.Notifier.Subscribe: %w", err)
	}

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var n domain.Notification
			if err := json.Unmarshal([]byte(m.Payload), &n); err != nil || n.Type == "" {
				continue
			}
			handler(ctx, n)
		}
	}
}
