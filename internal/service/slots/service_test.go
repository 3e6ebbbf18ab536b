package slots

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) InvalidateAvailability(context.Context) error {
	c.n++
	return nil
}

func newService(t *testing.T) (*Service, *memory.Store, *countingInvalidator) {
	t.Helper()
	store := memory.NewStore()
	inv := &countingInvalidator{}
	return New(uow.NewUoW(store), store.Slots(), inv, nil), store, inv
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dayparts(slots []domain.Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, string(s.Daypart))
	}
	sort.Strings(out)
	return out
}

func TestToggle_AddThenRemove(t *testing.T) {
	svc, store, inv := newService(t)
	ctx := context.Background()
	in := ToggleInput{ResourceID: 1, Date: date(t, "2025-07-01"), Daypart: domain.DaypartFull, Note: "crew on board"}

	res, slot, err := svc.Toggle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAdded, res)
	assert.Equal(t, "crew on board", slot.Note)
	assert.Len(t, store.AllSlots(), 1)

	res, _, err = svc.Toggle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotRemoved, res)
	assert.Empty(t, store.AllSlots())
	assert.Equal(t, 2, inv.n)
}

func TestToggle_MutualExclusion(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	day := date(t, "2025-07-01")

	for _, p := range []domain.Daypart{domain.DaypartAM, domain.DaypartPM} {
		_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: day, Daypart: p})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"AM", "PM"}, dayparts(store.AllSlots()))

	_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: day, Daypart: domain.DaypartFull})
	require.NoError(t, err)
	assert.Equal(t, []string{"FULL"}, dayparts(store.AllSlots()))

	_, _, err = svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: day, Daypart: domain.DaypartPM})
	require.NoError(t, err)
	assert.Equal(t, []string{"PM"}, dayparts(store.AllSlots()))
}

func TestToggle_OtherDaysAndResourcesUntouched(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, "2025-07-02"), Daypart: domain.DaypartAM})
	require.NoError(t, err)
	_, _, err = svc.Toggle(ctx, ToggleInput{ResourceID: 2, Date: date(t, "2025-07-01"), Daypart: domain.DaypartAM})
	require.NoError(t, err)
	_, _, err = svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, "2025-07-01"), Daypart: domain.DaypartFull})
	require.NoError(t, err)

	assert.Len(t, store.AllSlots(), 3)
}

func TestToggle_SelfInverseOverPriorState(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	day := date(t, "2025-07-01")

	_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: day, Daypart: domain.DaypartAM})
	require.NoError(t, err)
	before := dayparts(store.AllSlots())

	in := ToggleInput{ResourceID: 1, Date: day, Daypart: domain.DaypartPM}
	_, _, err = svc.Toggle(ctx, in)
	require.NoError(t, err)
	_, _, err = svc.Toggle(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, before, dayparts(store.AllSlots()))
}

func TestToggle_Validation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, "2025-07-01"), Daypart: "NIGHT"})
	require.ErrorIs(t, err, domain.ErrInvalidDaypart)

	_, _, err = svc.Toggle(ctx, ToggleInput{ResourceID: 1, Daypart: domain.DaypartAM})
	require.ErrorIs(t, err, domain.ErrBadRange)
}

func TestToggle_UnknownResourceAccepted(t *testing.T) {
	svc, _, _ := newService(t)

	res, _, err := svc.Toggle(context.Background(), ToggleInput{ResourceID: 999, Date: date(t, "2025-07-01"), Daypart: domain.DaypartAM})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAdded, res)
}

func TestQuery(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	for _, d := range []string{"2025-07-01", "2025-07-03", "2025-07-05"} {
		_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, d), Daypart: domain.DaypartFull})
		require.NoError(t, err)
	}

	out, err := svc.Query(ctx, []int64{1}, date(t, "2025-07-02"), date(t, "2025-07-05"))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, date(t, "2025-07-03"), out[0].Date)

	_, err = svc.Query(ctx, nil, date(t, "2025-07-05"), date(t, "2025-07-01"))
	require.ErrorIs(t, err, domain.ErrBadRange)
}

func TestAnnotate(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, slot, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, "2025-07-01"), Daypart: domain.DaypartAM})
	require.NoError(t, err)

	updated, err := svc.Annotate(ctx, slot.ID, "skipper: Marc")
	require.NoError(t, err)
	assert.Equal(t, "skipper: Marc", updated.Note)

	_, err = svc.Annotate(ctx, 12345, "x")
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestPurge(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	for _, d := range []string{"2025-06-01", "2025-06-30", "2025-07-01"} {
		_, _, err := svc.Toggle(ctx, ToggleInput{ResourceID: 1, Date: date(t, d), Daypart: domain.DaypartFull})
		require.NoError(t, err)
	}

	n, err := svc.Purge(ctx, nil, date(t, "2025-07-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, store.AllSlots(), 1)
}
