package availability

import (
	"context"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
)

type Catalog interface {
	ListActive(ctx context.Context, ids []int64) ([]domain.Resource, error)
}

type SlotReader interface {
	ListRange(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Slot, error)
}

type ReservationReader interface {
	ListLiveInRange(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Reservation, error)
}

type SettingsSource interface {
	Snapshot(ctx context.Context) (domain.Settings, error)
}
