package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
)

type CatalogRepo struct {
	s *Store
}

func (r *CatalogRepo) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	defer r.s.enter(ctx)()

	res, ok := r.s.resources[id]
	if !ok {
		return nil, fmt.Errorf("memory.CatalogRepo.GetResource: %w", repository.ErrNotFound)
	}

	return &res, nil
}

func (r *CatalogRepo) ListActive(ctx context.Context, ids []int64) ([]domain.Resource, error) {
	defer r.s.enter(ctx)()

	want := idSet(ids)
	var out []domain.Resource
	for _, res := range r.s.resources {
		if !res.Active || (want != nil && !want[res.ID]) {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

type SettingsRepo struct {
	s *Store
}

func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	defer r.s.enter(ctx)()

	if r.s.settings == nil {
		return nil, fmt.Errorf("memory.SettingsRepo.Get: %w", repository.ErrNotFound)
	}
	st := *r.s.settings

	return &st, nil
}
