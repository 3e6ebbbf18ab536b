package settings

import (
	"context"
	"testing"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_FallsBackToDefaults(t *testing.T) {
	store := memory.NewStore()
	p := NewProvider(store.Settings(), domain.DefaultSettings())

	s, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestSnapshot_ReadsStoredRow(t *testing.T) {
	store := memory.NewStore()
	stored := domain.DefaultSettings()
	stored.DepositPercent = 30
	stored.Currency = "usd"
	store.PutSettings(stored)

	s, err := NewProvider(store.Settings(), domain.DefaultSettings()).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, s.DepositPercent)
	assert.Equal(t, "usd", s.Currency)
}

func TestSnapshot_RejectsInvalidRow(t *testing.T) {
	store := memory.NewStore()
	bad := domain.DefaultSettings()
	bad.DepositPercent = 140
	store.PutSettings(bad)

	_, err := NewProvider(store.Settings(), domain.DefaultSettings()).Snapshot(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
