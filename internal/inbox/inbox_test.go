package inbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_ProcessTask(t *testing.T) {
	var got domain.PaymentEvent
	w := &Worker{
		handle: func(ctx context.Context, ev domain.PaymentEvent) error {
			got = ev
			return nil
		},
		log: discardLogger(),
	}

	ev := domain.PaymentEvent{
		ID:              "evt_1",
		Type:            "checkout.session.completed",
		ReservationRef:  "9f1c2d8e-3b4a-4c5d-8e6f-7a8b9c0d1e2f",
		SessionID:       "cs_1",
		PaymentIntentID: "pi_1",
		Outcome:         domain.PaymentSucceeded,
		ReceivedAt:      time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	task, err := NewPaymentEventTask(ev)
	require.NoError(t, err)
	assert.Equal(t, TypePaymentEvent, task.Type())

	require.NoError(t, w.ProcessTask(context.Background(), task))
	assert.Equal(t, ev, got)
}

func TestWorker_HandlerErrorIsRetried(t *testing.T) {
	boom := errors.New("db down")
	w := &Worker{
		handle: func(context.Context, domain.PaymentEvent) error { return boom },
		log:    discardLogger(),
	}
	task, err := NewPaymentEventTask(domain.PaymentEvent{ID: "evt_2"})
	require.NoError(t, err)

	err = w.ProcessTask(context.Background(), task)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestWorker_BadPayloadSkipsRetry(t *testing.T) {
	called := false
	w := &Worker{
		handle: func(context.Context, domain.PaymentEvent) error { called = true; return nil },
		log:    discardLogger(),
	}

	err := w.ProcessTask(context.Background(), asynq.NewTask(TypePaymentEvent, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	assert.False(t, called)
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, "payments", c.Queue)
	assert.Equal(t, 5, c.Concurrency)
	assert.Equal(t, 10, c.MaxRetry)
	assert.Equal(t, 72*time.Hour, c.Retention)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
