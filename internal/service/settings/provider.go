// Package settings resolves the booking policy snapshot used by pricing and availability.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
)

type Reader interface {
	Get(ctx context.Context) (*domain.Settings, error)
}

type Provider struct {
	repo     Reader
	defaults domain.Settings
}

func NewProvider(repo Reader, defaults domain.Settings) *Provider {
	return &Provider{repo: repo, defaults: defaults}
}

// Snapshot reads the stored settings, falling back to the configured defaults when
// none were written. Call it inside the transaction that consumes the values.
func (p *Provider) Snapshot(ctx context.Context) (domain.Settings, error) {
	const op = "service.settings.Snapshot"

	if p.repo == nil {
		return p.defaults, nil
	}

	s, err := p.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return p.defaults, nil
		}
		return domain.Settings{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", op, err)
	}

	return *s, nil
}
