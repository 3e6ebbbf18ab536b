package agency

import (
	"context"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/google/uuid"
)

type RequestRepository interface {
	Insert(ctx context.Context, req *domain.AgencyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, from, to domain.AgencyRequestStatus) (bool, error)
	MarkConverted(ctx context.Context, id, reservationID uuid.UUID) (bool, error)
	List(ctx context.Context, f domain.AgencyFilter) ([]domain.AgencyRequest, error)
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

// Lifecycle creates the firm reservation. It joins the converter's unit of work.
type Lifecycle interface {
	Create(ctx context.Context, in reservation.CreateInput) (*domain.Reservation, error)
}

type ReservationReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
