package availability

import (
	"context"
	"testing"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/settings"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/slots"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	slots *slots.Service
	svc   *Service
}

func newFixture(t *testing.T, policy domain.Settings, cache *redisrepo.Cache) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddResource(domain.Resource{ID: 1, Name: "Riva Aquarama", Capacity: 8, PriceFullCents: 150000, Active: true})
	store.AddResource(domain.Resource{ID: 2, Name: "Beneteau Oceanis", Capacity: 10, PriceFullCents: 90000, Active: true})
	store.AddResource(domain.Resource{ID: 3, Name: "Archived", Capacity: 4, Active: false})

	var inv slots.Invalidator
	if cache != nil {
		inv = cache
	}

	return &fixture{
		store: store,
		slots: slots.New(uow.NewUoW(store), store.Slots(), inv, nil),
		svc: New(
			store.Catalog(),
			store.Slots(),
			store.Reservations(),
			settings.NewProvider(nil, policy),
			cache,
			Config{},
			nil,
		),
	}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func (f *fixture) toggle(t *testing.T, id int64, day string, p domain.Daypart) {
	t.Helper()
	_, _, err := f.slots.Toggle(context.Background(), slots.ToggleInput{ResourceID: id, Date: date(t, day), Daypart: p})
	require.NoError(t, err)
}

func (f *fixture) find(t *testing.T, from, to string, p domain.Daypart) []int64 {
	t.Helper()
	out, err := f.svc.Find(context.Background(), Query{From: date(t, from), To: date(t, to), Daypart: p})
	require.NoError(t, err)
	ids := make([]int64, 0, len(out))
	for _, r := range out {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFind_FullSlotThenAMToggleScenario(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)

	f.toggle(t, 1, "2025-07-01", domain.DaypartFull)
	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))

	f.toggle(t, 1, "2025-07-01", domain.DaypartAM)
	assert.Empty(t, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartPM))
	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartAM))
}

func TestFind_EveryDayMustQualify(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)

	f.toggle(t, 1, "2025-07-01", domain.DaypartFull)
	f.toggle(t, 1, "2025-07-02", domain.DaypartAM)
	f.toggle(t, 1, "2025-07-02", domain.DaypartPM)
	f.toggle(t, 2, "2025-07-01", domain.DaypartFull)
	f.toggle(t, 2, "2025-07-02", domain.DaypartAM)

	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-02", domain.DaypartFull))
	assert.Equal(t, []int64{2, 1}, f.find(t, "2025-07-01", "2025-07-02", domain.DaypartAM), "sorted by name")
	assert.Empty(t, f.find(t, "2025-07-01", "2025-07-03", domain.DaypartAM))
}

func TestFind_SingleDayFullRelaxation(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)
	f.toggle(t, 1, "2025-07-01", domain.DaypartPM)

	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))

	strict := domain.DefaultSettings()
	strict.SingleDayFullRelaxed = false
	g := newFixture(t, strict, nil)
	g.toggle(t, 1, "2025-07-01", domain.DaypartPM)

	assert.Empty(t, g.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))
}

func TestFind_ReservationsConsumeHalfDays(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)
	f.toggle(t, 1, "2025-08-10", domain.DaypartFull)

	require.NoError(t, f.store.Reservations().Insert(context.Background(), &domain.Reservation{
		ID:         uuid.New(),
		ResourceID: 1,
		StartDate:  date(t, "2025-08-10"),
		EndDate:    date(t, "2025-08-10"),
		Daypart:    domain.DaypartAM,
		Status:     domain.StatusPendingDeposit,
	}))

	assert.Empty(t, f.find(t, "2025-08-10", "2025-08-10", domain.DaypartAM))
	assert.Equal(t, []int64{1}, f.find(t, "2025-08-10", "2025-08-10", domain.DaypartPM))
}

func TestFind_BlockedAndInactiveExcluded(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)
	_, _, err := f.slots.Toggle(context.Background(), slots.ToggleInput{
		ResourceID: 1, Date: date(t, "2025-07-01"), Daypart: domain.DaypartFull, Blocked: true,
	})
	require.NoError(t, err)
	f.toggle(t, 3, "2025-07-01", domain.DaypartFull)

	assert.Empty(t, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))
}

func TestFind_SlotCounts(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)
	f.toggle(t, 1, "2025-07-01", domain.DaypartFull)
	f.toggle(t, 1, "2025-07-02", domain.DaypartAM)
	f.toggle(t, 1, "2025-07-02", domain.DaypartPM)

	out, err := f.svc.Find(context.Background(), Query{
		ResourceIDs: []int64{1},
		From:        date(t, "2025-07-01"),
		To:          date(t, "2025-07-02"),
		Daypart:     domain.DaypartAM,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, SlotCounts{Full: 1, AM: 1, PM: 1, Total: 3}, out[0].Slots)
}

func TestFind_Validation(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)

	_, err := f.svc.Find(context.Background(), Query{From: date(t, "2025-07-02"), To: date(t, "2025-07-01"), Daypart: domain.DaypartAM})
	require.ErrorIs(t, err, domain.ErrBadRange)

	_, err = f.svc.Find(context.Background(), Query{From: date(t, "2025-07-01"), To: date(t, "2025-07-01"), Daypart: ""})
	require.ErrorIs(t, err, domain.ErrInvalidDaypart)

	_, err = f.svc.Find(context.Background(), Query{From: date(t, "1000-01-01"), To: date(t, "9999-12-31"), Daypart: domain.DaypartFull})
	require.ErrorIs(t, err, domain.ErrBadRange)
}

func TestFind_LongReservationOnlyExpandedOverQueriedDays(t *testing.T) {
	f := newFixture(t, domain.DefaultSettings(), nil)
	f.toggle(t, 1, "2025-08-10", domain.DaypartFull)
	f.toggle(t, 2, "2025-08-10", domain.DaypartFull)

	// stored before ranges were capped
	require.NoError(t, f.store.Reservations().Insert(context.Background(), &domain.Reservation{
		ID:         uuid.New(),
		ResourceID: 1,
		StartDate:  date(t, "1000-01-01"),
		EndDate:    date(t, "9999-12-31"),
		Daypart:    domain.DaypartFull,
		Status:     domain.StatusPendingDeposit,
	}))

	assert.Equal(t, []int64{2}, f.find(t, "2025-08-10", "2025-08-10", domain.DaypartAM))
}

func TestFind_CacheKeyFollowsPolicy(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := redisrepo.NewCache(rdb)

	f := newFixture(t, domain.DefaultSettings(), cache)
	svc := New(
		f.store.Catalog(),
		f.store.Slots(),
		f.store.Reservations(),
		settings.NewProvider(f.store.Settings(), domain.DefaultSettings()),
		cache,
		Config{},
		nil,
	)
	f.toggle(t, 1, "2025-07-01", domain.DaypartPM)

	q := Query{From: date(t, "2025-07-01"), To: date(t, "2025-07-01"), Daypart: domain.DaypartFull}
	out, err := svc.Find(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, out, 1, "relaxed by default")

	strict := domain.DefaultSettings()
	strict.SingleDayFullRelaxed = false
	f.store.PutSettings(strict)

	out, err = svc.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, out, "a settings change must not be answered from the relaxed entry")
}

func TestFind_CachedUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := redisrepo.NewCache(rdb)

	f := newFixture(t, domain.DefaultSettings(), cache)
	f.toggle(t, 1, "2025-07-01", domain.DaypartFull)
	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))

	// written behind the service's back: the cached answer stays
	require.NoError(t, f.store.Slots().Insert(context.Background(), &domain.Slot{
		ResourceID: 2, Date: date(t, "2025-07-01"), Daypart: domain.DaypartFull, Status: domain.SlotAvailable,
	}))
	assert.Equal(t, []int64{1}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))

	// toggles bump the generation
	f.toggle(t, 1, "2025-07-01", domain.DaypartFull)
	assert.Equal(t, []int64{2}, f.find(t, "2025-07-01", "2025-07-01", domain.DaypartFull))
}

func TestQualifies(t *testing.T) {
	days := []string{"2025-07-01"}
	offered := map[string]domain.HalfSet{"2025-07-01": domain.HalfSet(0).Add(domain.DaypartFull)}
	consumed := map[string]domain.HalfSet{"2025-07-01": domain.HalfSet(0).Add(domain.DaypartPM)}

	assert.True(t, Qualifies(days, offered, consumed, domain.DaypartAM, false))
	assert.False(t, Qualifies(days, offered, consumed, domain.DaypartPM, false))
	assert.False(t, Qualifies(days, offered, consumed, domain.DaypartFull, false))
	assert.True(t, Qualifies(days, offered, consumed, domain.DaypartFull, true))
	assert.False(t, Qualifies(days, nil, nil, domain.DaypartFull, true))
}
