package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/google/uuid"
)

type AgencyRepo struct {
	s *Store
}

func (r *AgencyRepo) Insert(ctx context.Context, req *domain.AgencyRequest) error {
	defer r.s.enter(ctx)()

	if _, ok := r.s.requests[req.ID]; ok {
		return fmt.Errorf("memory.AgencyRepo.Insert: %w", repository.ErrConflict)
	}

	now := r.s.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.s.requests[req.ID] = *req

	return nil
}

func (r *AgencyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	defer r.s.enter(ctx)()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, fmt.Errorf("memory.AgencyRepo.GetByID: %w", repository.ErrNotFound)
	}

	return &req, nil
}

func (r *AgencyRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *AgencyRepo) SetStatus(ctx context.Context, id uuid.UUID, from, to domain.AgencyRequestStatus) (bool, error) {
	defer r.s.enter(ctx)()

	req, ok := r.s.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = r.s.Now()
	r.s.requests[id] = req

	return true, nil
}

func (r *AgencyRepo) MarkConverted(ctx context.Context, id, reservationID uuid.UUID) (bool, error) {
	defer r.s.enter(ctx)()

	if err := r.s.fail("agency.mark_converted"); err != nil {
		return false, err
	}

	req, ok := r.s.requests[id]
	if !ok || req.Status != domain.AgencyApproved || req.ReservationID != nil {
		return false, nil
	}
	for _, other := range r.s.requests {
		if other.ReservationID != nil && *other.ReservationID == reservationID {
			return false, fmt.Errorf("memory.AgencyRepo.MarkConverted: %w", repository.ErrConflict)
		}
	}

	req.Status = domain.AgencyConverted
	req.ReservationID = &reservationID
	req.UpdatedAt = r.s.Now()
	r.s.requests[id] = req

	return true, nil
}

func (r *AgencyRepo) List(ctx context.Context, f domain.AgencyFilter) ([]domain.AgencyRequest, error) {
	defer r.s.enter(ctx)()

	var out []domain.AgencyRequest
	for _, req := range r.s.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.RequesterID != 0 && req.RequesterID != f.RequesterID {
			continue
		}
		if f.ResourceID != 0 && req.ResourceID != f.ResourceID {
			continue
		}
		out = append(out, req)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}
