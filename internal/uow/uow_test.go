package uow

import (
	"context"
	"errors"
	"testing"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlot(t *testing.T) *domain.Slot {
	t.Helper()
	d, err := domain.ParseDate("2025-07-01")
	require.NoError(t, err)
	return &domain.Slot{ResourceID: 1, Date: d, Daypart: domain.DaypartFull, Status: domain.SlotAvailable}
}

func TestDo_RunsHooksAfterCommit(t *testing.T) {
	store := memory.NewStore()
	u := NewUoW(store)

	var ran []string
	err := u.Do(context.Background(), func(ctx context.Context, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = append(ran, "outer") })
		require.NoError(t, store.Slots().Insert(ctx, testSlot(t)))
		assert.Empty(t, ran, "hooks must wait for commit")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer"}, ran)
	assert.Len(t, store.AllSlots(), 1)
}

func TestDo_RollsBackAndSkipsHooksOnError(t *testing.T) {
	store := memory.NewStore()
	u := NewUoW(store)
	boom := errors.New("boom")

	ran := false
	err := u.Do(context.Background(), func(ctx context.Context, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		require.NoError(t, store.Slots().Insert(ctx, testSlot(t)))
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
	assert.Empty(t, store.AllSlots())
}

func TestDo_NestedJoinsOuterUnit(t *testing.T) {
	store := memory.NewStore()
	u := NewUoW(store)

	var ran []string
	err := u.Do(context.Background(), func(ctx context.Context, after func(AfterCommit)) error {
		after(func(ctx context.Context) { ran = append(ran, "outer") })

		err := u.Do(ctx, func(ctx context.Context, after func(AfterCommit)) error {
			after(func(ctx context.Context) { ran = append(ran, "inner") })
			return store.Slots().Insert(ctx, testSlot(t))
		})
		require.NoError(t, err)
		assert.Empty(t, ran, "inner hooks wait for the outer commit")

		return errors.New("abort outer")
	})

	require.Error(t, err)
	assert.Empty(t, ran)
	assert.Empty(t, store.AllSlots(), "inner writes roll back with the outer unit")
}

type flakyRunner struct {
	failures int
	calls    int
}

func (f *flakyRunner) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context) error) error {
	f.calls++
	if f.calls <= f.failures {
		return &pgconn.PgError{Code: "40001"}
	}
	return fn(ctx)
}

func TestDo_RetriesSerializationFailures(t *testing.T) {
	r := &flakyRunner{failures: 2}
	u := NewUoW(r)

	hooks := 0
	err := u.Do(context.Background(), func(ctx context.Context, after func(AfterCommit)) error {
		after(func(ctx context.Context) { hooks++ })
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, 1, hooks)
}

func TestDo_GivesUpAfterAttempts(t *testing.T) {
	r := &flakyRunner{failures: 10}
	u := NewUoW(r)

	err := u.Do(context.Background(), func(ctx context.Context, after func(AfterCommit)) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, defaultAttempts, r.calls)
}
