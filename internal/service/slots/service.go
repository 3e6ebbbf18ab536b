package slots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
)

const maxNoteLen = 500

type Service struct {
	uow   *uow.UoW
	slots SlotRepository
	cache Invalidator
	log   *slog.Logger
}

func New(u *uow.UoW, slots SlotRepository, cache Invalidator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		uow:   u,
		slots: slots,
		cache: cache,
		log:   log,
	}
}

type ToggleInput struct {
	ResourceID int64
	Date       time.Time
	Daypart    domain.Daypart
	Note       string
	Blocked    bool
}

// Toggle removes the slot at (resource, date, daypart) if it exists, otherwise it
// deletes the slots that cannot coexist with it on that day and inserts it.
// Applying the same toggle twice restores the prior state of that key.
//
// Parameters:
//   - ctx: request-scoped context.
//   - in: slot key plus an optional note. The resource is not checked against the catalog.
//
// Returns:
//   - domain.ToggleResult: added or removed.
//   - *domain.Slot: the inserted or deleted slot.
//   - error: domain.ErrInvalidDaypart / domain.ErrBadRange on malformed input,
//     slots.ErrSlotConflict if a concurrent writer won the day.
func (s *Service) Toggle(ctx context.Context, in ToggleInput) (domain.ToggleResult, *domain.Slot, error) {
	const op = "service.slots.Toggle"

	if !in.Daypart.Valid() {
		return "", nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidDaypart)
	}
	if in.Date.IsZero() {
		return "", nil, fmt.Errorf("%s: %w: missing date", op, domain.ErrBadRange)
	}
	if len(in.Note) > maxNoteLen {
		return "", nil, fmt.Errorf("%s: %w: note too long", op, domain.ErrInvalidInput)
	}

	date := domain.Truncate(in.Date)

	var result domain.ToggleResult
	var slot *domain.Slot

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.slots.LockDay(ctx, in.ResourceID, date); err != nil {
			return err
		}

		existing, err := s.slots.GetByKey(ctx, in.ResourceID, date, in.Daypart)
		switch {
		case err == nil:
			if err := s.slots.Delete(ctx, existing.ID); err != nil {
				return err
			}
			result, slot = domain.SlotRemoved, existing
		case errors.Is(err, repository.ErrNotFound):
			if _, err := s.slots.DeleteDayparts(ctx, in.ResourceID, date, domain.Displaced(in.Daypart)); err != nil {
				return err
			}

			status := domain.SlotAvailable
			if in.Blocked {
				status = domain.SlotBlocked
			}
			slot = &domain.Slot{
				ResourceID: in.ResourceID,
				Date:       date,
				Daypart:    in.Daypart,
				Status:     status,
				Note:       in.Note,
			}
			if err := s.slots.Insert(ctx, slot); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return ErrSlotConflict
				}
				return err
			}
			result = domain.SlotAdded
		default:
			return err
		}

		after(s.invalidate)

		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("slot toggled",
		slog.Int64("resource_id", in.ResourceID),
		slog.String("date", date.Format(domain.DateFormat)),
		slog.String("daypart", string(in.Daypart)),
		slog.String("result", string(result)),
	)

	return result, slot, nil
}

// Query is a plain range read over [from, to]. Empty resourceIDs means every resource.
func (s *Service) Query(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Slot, error) {
	const op = "service.slots.Query"

	if err := domain.ValidateRange(from, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.slots.ListRange(ctx, resourceIDs, domain.Truncate(from), domain.Truncate(to))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Annotate replaces the note of a slot.
func (s *Service) Annotate(ctx context.Context, id int64, note string) (*domain.Slot, error) {
	const op = "service.slots.Annotate"

	if len(note) > maxNoteLen {
		return nil, fmt.Errorf("%s: %w: note too long", op, domain.ErrInvalidInput)
	}

	slot, err := s.slots.UpdateNote(ctx, id, note)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSlotNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

// Purge deletes slots dated strictly before the cutoff, for one resource or all.
func (s *Service) Purge(ctx context.Context, resourceID *int64, before time.Time) (int64, error) {
	const op = "service.slots.Purge"

	if before.IsZero() {
		return 0, fmt.Errorf("%s: %w: missing cutoff date", op, domain.ErrBadRange)
	}

	var n int64
	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		var err error
		n, err = s.slots.Purge(ctx, resourceID, domain.Truncate(before))
		if err != nil {
			return err
		}
		if n > 0 {
			after(s.invalidate)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("slots purged", slog.Int64("count", n), slog.String("before", before.Format(domain.DateFormat)))

	return n, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx); err != nil {
		s.log.Warn("availability cache invalidation failed", slog.Any("err", err))
	}
}
