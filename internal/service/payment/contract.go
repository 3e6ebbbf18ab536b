package payment

import (
	"context"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/google/uuid"
)

type ReservationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
}

// Lifecycle is the part of the reservation state machine payments drive.
type Lifecycle interface {
	Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Reservation, error)
	MarkDepositPaid(ctx context.Context, id uuid.UUID, refs domain.PaymentRefs) (bool, error)
	AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
}

type SettingsSource interface {
	Snapshot(ctx context.Context) (domain.Settings, error)
}
