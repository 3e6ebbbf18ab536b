package reservation

import (
	"context"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/google/uuid"
)

type ReservationRepository interface {
	LockResource(ctx context.Context, resourceID int64) error
	Insert(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	MarkDepositPaid(ctx context.Context, id uuid.UUID, refs domain.PaymentRefs, at time.Time) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.ReservationStatus, at time.Time) (bool, error)
	SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error
	DeletePending(ctx context.Context, id uuid.UUID) error
}

type Catalog interface {
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
}

type SettingsSource interface {
	Snapshot(ctx context.Context) (domain.Settings, error)
}

type ConflictChecker interface {
	Check(ctx context.Context, cand conflict.Candidate) (conflict.Result, error)
}

// Notifier is the fire-and-forget dispatcher for state changes.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Invalidator interface {
	InvalidateAvailability(ctx context.Context) error
}

type Limiter interface {
	Allow(ctx context.Context, id string) (bool, time.Duration, error)
}
