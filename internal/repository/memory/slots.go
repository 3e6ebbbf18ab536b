package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
)

type SlotRepo struct {
	s *Store
}

func (r *SlotRepo) LockDay(ctx context.Context, resourceID int64, date time.Time) error {
	return nil
}

func (r *SlotRepo) GetByKey(ctx context.Context, resourceID int64, date time.Time, part domain.Daypart) (*domain.Slot, error) {
	defer r.s.enter(ctx)()

	for _, sl := range r.s.slots {
		if sl.ResourceID == resourceID && sl.Date.Equal(date) && sl.Daypart == part {
			return &sl, nil
		}
	}

	return nil, fmt.Errorf("memory.SlotRepo.GetByKey: %w", repository.ErrNotFound)
}

func (r *SlotRepo) Insert(ctx context.Context, sl *domain.Slot) error {
	defer r.s.enter(ctx)()

	if err := r.s.fail("slots.insert"); err != nil {
		return err
	}

	for _, other := range r.s.slots {
		if other.ResourceID == sl.ResourceID && other.Date.Equal(sl.Date) && domain.Conflicts(other.Daypart, sl.Daypart) {
			return fmt.Errorf("memory.SlotRepo.Insert: %w", repository.ErrConflict)
		}
	}

	r.s.nextSlotID++
	sl.ID = r.s.nextSlotID
	sl.CreatedAt = r.s.Now()
	r.s.slots[sl.ID] = *sl

	return nil
}

func (r *SlotRepo) Delete(ctx context.Context, id int64) error {
	defer r.s.enter(ctx)()

	if _, ok := r.s.slots[id]; !ok {
		return fmt.Errorf("memory.SlotRepo.Delete: %w", repository.ErrNotFound)
	}
	delete(r.s.slots, id)

	return nil
}

func (r *SlotRepo) DeleteDayparts(ctx context.Context, resourceID int64, date time.Time, parts []domain.Daypart) (int64, error) {
	defer r.s.enter(ctx)()

	var n int64
	for id, sl := range r.s.slots {
		if sl.ResourceID != resourceID || !sl.Date.Equal(date) {
			continue
		}
		for _, p := range parts {
			if sl.Daypart == p {
				delete(r.s.slots, id)
				n++
				break
			}
		}
	}

	return n, nil
}

func (r *SlotRepo) ListRange(ctx context.Context, resourceIDs []int64, from, to time.Time) ([]domain.Slot, error) {
	defer r.s.enter(ctx)()

	if err := r.s.fail("slots.list"); err != nil {
		return nil, err
	}

	want := idSet(resourceIDs)
	var out []domain.Slot
	for _, sl := range r.s.slots {
		if sl.Date.Before(from) || sl.Date.After(to) {
			continue
		}
		if want != nil && !want[sl.ResourceID] {
			continue
		}
		out = append(out, sl)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Daypart < out[j].Daypart
	})

	return out, nil
}

func (r *SlotRepo) UpdateNote(ctx context.Context, id int64, note string) (*domain.Slot, error) {
	defer r.s.enter(ctx)()

	sl, ok := r.s.slots[id]
	if !ok {
		return nil, fmt.Errorf("memory.SlotRepo.UpdateNote: %w", repository.ErrNotFound)
	}
	sl.Note = note
	r.s.slots[id] = sl

	return &sl, nil
}

func (r *SlotRepo) Purge(ctx context.Context, resourceID *int64, before time.Time) (int64, error) {
	defer r.s.enter(ctx)()

	var n int64
	for id, sl := range r.s.slots {
		if resourceID != nil && sl.ResourceID != *resourceID {
			continue
		}
		if sl.Date.Before(before) {
			delete(r.s.slots, id)
			n++
		}
	}

	return n, nil
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
