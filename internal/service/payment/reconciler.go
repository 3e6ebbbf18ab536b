package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/google/uuid"
)

// Result tells how an event was handled. Every result except a returned error
// means the event is acknowledged.
type Result string

const (
	ResultApplied   Result = "applied"
	ResultDuplicate Result = "duplicate"
	ResultUnknown   Result = "unknown_reservation"
	ResultIgnored   Result = "ignored"
)

type Reconciler struct {
	reservations ReservationReader
	lifecycle    Lifecycle
	metrics      *metrics.Metrics
	log          *slog.Logger
}

func NewReconciler(reservations ReservationReader, lifecycle Lifecycle, m *metrics.Metrics, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}

	return &Reconciler{
		reservations: reservations,
		lifecycle:    lifecycle,
		metrics:      m,
		log:          log,
	}
}

// Handle applies a verified processor event. Events may arrive late, twice or out of
// order: anything that does not move a pending reservation forward is acknowledged
// as a no-op. Only storage failures return an error, which makes the inbox retry.
func (r *Reconciler) Handle(ctx context.Context, ev domain.PaymentEvent) (Result, error) {
	const op = "service.payment.Reconciler.Handle"

	result, err := r.handle(ctx, ev)
	if err != nil {
		r.log.Error("payment event failed",
			slog.String("event_id", ev.ID),
			slog.String("reservation_ref", ev.ReservationRef),
			slog.Any("err", err),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	r.metrics.PaymentEvent(string(ev.Outcome), string(result))
	r.log.Info("payment event handled",
		slog.String("event_id", ev.ID),
		slog.String("type", ev.Type),
		slog.String("outcome", string(ev.Outcome)),
		slog.String("reservation_ref", ev.ReservationRef),
		slog.String("result", string(result)),
	)

	return result, nil
}

func (r *Reconciler) handle(ctx context.Context, ev domain.PaymentEvent) (Result, error) {
	if ev.Outcome != domain.PaymentSucceeded {
		return ResultIgnored, nil
	}

	id, err := uuid.Parse(ev.ReservationRef)
	if err != nil {
		return ResultUnknown, nil
	}

	res, err := r.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ResultUnknown, nil
		}
		return "", err
	}
	if res.Status != domain.StatusPendingDeposit {
		return ResultDuplicate, nil
	}

	changed, err := r.lifecycle.MarkDepositPaid(ctx, id, domain.PaymentRefs{
		SessionID:       ev.SessionID,
		PaymentIntentID: ev.PaymentIntentID,
	})
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return ResultUnknown, nil
		}
		return "", err
	}
	if !changed {
		return ResultDuplicate, nil
	}

	return ResultApplied, nil
}
