// Package inbox queues verified payment events on asynq so the webhook can be
// acknowledged immediately and the reconciler runs with retries.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/hibiken/asynq"
)

const TypePaymentEvent = "payment:event"

type Config struct {
	Queue       string
	Concurrency int
	MaxRetry    int
	// Retention keeps completed task ids around so redeliveries are detected.
	Retention time.Duration
}

func (c Config) withDefaults() Config {
	if c.Queue == "" {
		c.Queue = "payments"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = 10
	}
	if c.Retention <= 0 {
		c.Retention = 72 * time.Hour
	}
	return c
}

func NewPaymentEventTask(ev domain.PaymentEvent) (*asynq.Task, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePaymentEvent, b), nil
}

type Publisher struct {
	client *asynq.Client
	cfg    Config
}

func NewPublisher(client *asynq.Client, cfg Config) *Publisher {
	return &Publisher{client: client, cfg: cfg.withDefaults()}
}

// Publish enqueues the event keyed by its processor id. A redelivered event whose
// task is still known returns duplicate=true and no error.
func (p *Publisher) Publish(ctx context.Context, ev domain.PaymentEvent) (bool, error) {
	const op = "inbox.Publisher.Publish"

	if ev.ID == "" {
		return false, fmt.Errorf("%s: event without id", op)
	}

	task, err := NewPaymentEventTask(ev)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = p.client.EnqueueContext(ctx, task,
		asynq.TaskID(ev.ID),
		asynq.Queue(p.cfg.Queue),
		asynq.MaxRetry(p.cfg.MaxRetry),
		asynq.Retention(p.cfg.Retention),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return true, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// HandlerFunc consumes one payment event. Returning an error schedules a retry.
type HandlerFunc func(ctx context.Context, ev domain.PaymentEvent) error

type Worker struct {
	srv    *asynq.Server
	handle HandlerFunc
	log    *slog.Logger
}

func NewWorker(redis asynq.RedisConnOpt, cfg Config, handle HandlerFunc, log *slog.Logger) *Worker {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}

	w := &Worker{handle: handle, log: log}
	w.srv = asynq.NewServer(redis, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("inbox task failed", slog.String("type", task.Type()), slog.Any("err", err))
		}),
	})

	return w
}

// ProcessTask implements asynq.Handler.
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var ev domain.PaymentEvent
	if err := json.Unmarshal(task.Payload(), &ev); err != nil {
		w.log.Error("inbox: invalid payload", slog.Any("err", err))
		return fmt.Errorf("inbox.Worker.ProcessTask: %w: %v", asynq.SkipRetry, err)
	}

	return w.handle(ctx, ev)
}

// Start launches the worker in the background.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.Handle(TypePaymentEvent, w)

	return w.srv.Start(mux)
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
