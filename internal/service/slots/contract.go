package slots

import (
	"context"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
)

type SlotRepository interface {
	LockDay(ctx context.Context, resourceID int64, date time.Time) error
	GetByKey(ctx context.Context, resourceID int64, date time.Time, part domain.Daypart) (*domain.Slot, error)
	Insert(ctx context.Context, s *domain.Slot) error
	Delete(ctx context.Context, id int64) error
	DeleteDayparts(ctx context.Context, resourceID int64, date time.Time, parts []domain.Daypart) (int64, error)
	ListRange(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Slot, error)
	UpdateNote(ctx context.Context, id int64, note string) (*domain.Slot, error)
	Purge(ctx context.Context, resourceID *int64, before time.Time) (int64, error)
}

// Invalidator drops cached availability results.
type Invalidator interface {
	InvalidateAvailability(ctx context.Context) error
}
