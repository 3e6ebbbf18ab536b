package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/google/uuid"
)

type ReservationRepo struct {
	s *Store
}

func (r *ReservationRepo) LockResource(ctx context.Context, resourceID int64) error {
	return nil
}

func (r *ReservationRepo) Insert(ctx context.Context, res *domain.Reservation) error {
	defer r.s.enter(ctx)()

	if err := r.s.fail("reservations.insert"); err != nil {
		return err
	}

	if _, ok := r.s.reservations[res.ID]; ok {
		return fmt.Errorf("memory.ReservationRepo.Insert: %w", repository.ErrConflict)
	}
	if res.Live() {
		for _, other := range r.s.reservations {
			if other.ResourceID == res.ResourceID && other.Live() &&
				domain.RangesOverlap(other.StartDate, other.EndDate, res.StartDate, res.EndDate) &&
				domain.Conflicts(other.Daypart, res.Daypart) {
				return fmt.Errorf("memory.ReservationRepo.Insert: %w", repository.ErrConflict)
			}
		}
	}

	res.CreatedAt = r.s.Now()
	r.s.reservations[res.ID] = *res

	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	defer r.s.enter(ctx)()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("memory.ReservationRepo.GetByID: %w", repository.ErrNotFound)
	}

	return &res, nil
}

func (r *ReservationRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *ReservationRepo) ListLiveOverlapping(
	ctx context.Context,
	resourceID int64,
	from, to time.Time,
	excludeID uuid.UUID,
) ([]domain.Reservation, error) {
	defer r.s.enter(ctx)()

	var out []domain.Reservation
	for _, res := range r.s.reservations {
		if res.ResourceID != resourceID || !res.Live() || res.ID == excludeID {
			continue
		}
		if domain.RangesOverlap(res.StartDate, res.EndDate, from, to) {
			out = append(out, res)
		}
	}
	sortReservations(out)

	return out, nil
}

func (r *ReservationRepo) ListLiveInRange(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Reservation, error) {
	defer r.s.enter(ctx)()

	want := idSet(resourceIDs)
	var out []domain.Reservation
	for _, res := range r.s.reservations {
		if !res.Live() || (want != nil && !want[res.ResourceID]) {
			continue
		}
		if domain.RangesOverlap(res.StartDate, res.EndDate, from, to) {
			out = append(out, res)
		}
	}
	sortReservations(out)

	return out, nil
}

func (r *ReservationRepo) MarkDepositPaid(ctx context.Context, id uuid.UUID, refs domain.PaymentRefs, at time.Time) (bool, error) {
	defer r.s.enter(ctx)()

	if err := r.s.fail("reservations.mark_paid"); err != nil {
		return false, err
	}

	res, ok := r.s.reservations[id]
	if !ok || res.Status != domain.StatusPendingDeposit || res.DepositPaidAt != nil {
		return false, nil
	}

	res.Status = domain.StatusDepositPaid
	res.DepositPaidAt = &at
	if refs.SessionID != "" {
		res.PaymentSessionID = refs.SessionID
	}
	if refs.PaymentIntentID != "" {
		res.PaymentIntentID = refs.PaymentIntentID
	}
	r.s.reservations[id] = res

	return true, nil
}

func (r *ReservationRepo) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.ReservationStatus,
	at time.Time,
) (bool, error) {
	defer r.s.enter(ctx)()

	res, ok := r.s.reservations[id]
	if !ok || res.Status != from {
		return false, nil
	}

	res.Status = to
	switch to {
	case domain.StatusCompleted:
		res.CompletedAt = &at
	case domain.StatusCancelled:
		res.CancelledAt = &at
	}
	r.s.reservations[id] = res

	return true, nil
}

func (r *ReservationRepo) SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	defer r.s.enter(ctx)()

	res, ok := r.s.reservations[id]
	if !ok {
		return fmt.Errorf("memory.ReservationRepo.SetPaymentSession: %w", repository.ErrNotFound)
	}
	res.PaymentSessionID = sessionID
	r.s.reservations[id] = res

	return nil
}

func (r *ReservationRepo) DeletePending(ctx context.Context, id uuid.UUID) error {
	defer r.s.enter(ctx)()

	res, ok := r.s.reservations[id]
	if !ok || res.Status != domain.StatusPendingDeposit {
		return fmt.Errorf("memory.ReservationRepo.DeletePending: %w", repository.ErrNotFound)
	}
	delete(r.s.reservations, id)

	// agency_requests.reservation_id is ON DELETE SET NULL
	for reqID, req := range r.s.requests {
		if req.ReservationID != nil && *req.ReservationID == id {
			req.ReservationID = nil
			r.s.requests[reqID] = req
		}
	}

	return nil
}

func sortReservations(rs []domain.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].StartDate.Equal(rs[j].StartDate) {
			return rs[i].StartDate.Before(rs[j].StartDate)
		}
		return rs[i].ID.String() < rs[j].ID.String()
	})
}
