package agency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/settings"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.NotificationType
}

func (n *recordingNotifier) Notify(_ context.Context, msg domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg.Type)
	return nil
}

func (n *recordingNotifier) count(t domain.NotificationType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s == t {
			c++
		}
	}
	return c
}

var (
	agencyActor = domain.Actor{ID: 42, Role: domain.RoleAgency}
	otherAgency = domain.Actor{ID: 43, Role: domain.RoleAgency}
	admin       = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	customer    = domain.Actor{ID: 10, Role: domain.RoleUser}
)

type fixture struct {
	svc      *Service
	bookings *reservation.Service
	store    *memory.Store
	notifier *recordingNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddResource(domain.Resource{ID: 1, Name: "Riva Aquarama", Capacity: 8, PriceFullCents: 100000, Active: true})

	u := uow.NewUoW(store)
	n := &recordingNotifier{}
	policy := settings.NewProvider(store.Settings(), domain.DefaultSettings())
	checker := conflict.NewChecker(store.Reservations())

	bookings := reservation.New(u, reservation.Deps{
		Reservations: store.Reservations(),
		Catalog:      store.Catalog(),
		Settings:     policy,
		Checker:      checker,
		Notifier:     n,
	}, nil)

	svc := New(u, Deps{
		Requests:     store.AgencyRequests(),
		Catalog:      store.Catalog(),
		Settings:     policy,
		Checker:      checker,
		Lifecycle:    bookings,
		Reservations: store.Reservations(),
		Notifier:     n,
	}, nil)

	return fixture{svc: svc, bookings: bookings, store: store, notifier: n}
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func (f fixture) approved(t *testing.T, from, to string, part domain.Daypart, estimate int64) *domain.AgencyRequest {
	t.Helper()

	req, err := f.svc.Create(context.Background(), agencyActor, CreateInput{
		ResourceID:          1,
		From:                date(t, from),
		To:                  date(t, to),
		Daypart:             part,
		Passengers:          6,
		EstimatedTotalCents: &estimate,
	})
	require.NoError(t, err)

	req, err = f.svc.Approve(context.Background(), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AgencyApproved, req.Status)

	return req
}

func TestCreate_EstimatesFromCatalog(t *testing.T) {
	f := newFixture(t)

	req, err := f.svc.Create(context.Background(), agencyActor, CreateInput{
		ResourceID: 1,
		From:       date(t, "2025-08-10"),
		To:         date(t, "2025-08-11"),
		Daypart:    domain.DaypartFull,
		Passengers: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AgencyPending, req.Status)
	assert.Equal(t, int64(200000), req.EstimatedTotalCents)
	assert.Equal(t, agencyActor.ID, req.RequesterID)
	assert.Nil(t, req.ReservationID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	negative := int64(-1)

	tests := []struct {
		name  string
		actor domain.Actor
		in    CreateInput
		want  error
	}{
		{
			name:  "customer cannot raise agency requests",
			actor: customer,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-10"), To: date(t, "2025-08-10"), Daypart: domain.DaypartFull, Passengers: 2},
			want:  ErrForbidden,
		},
		{
			name:  "reversed range",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-12"), To: date(t, "2025-08-10"), Daypart: domain.DaypartFull, Passengers: 2},
			want:  domain.ErrBadRange,
		},
		{
			name:  "half day across dates",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-10"), To: date(t, "2025-08-11"), Daypart: domain.DaypartAM, Passengers: 2},
			want:  domain.ErrBadRange,
		},
		{
			name:  "bad daypart",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-10"), To: date(t, "2025-08-10"), Daypart: domain.Daypart("NIGHT"), Passengers: 2},
			want:  domain.ErrInvalidDaypart,
		},
		{
			name:  "no passengers",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-10"), To: date(t, "2025-08-10"), Daypart: domain.DaypartFull},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "negative estimate",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 1, From: date(t, "2025-08-10"), To: date(t, "2025-08-10"), Daypart: domain.DaypartFull, Passengers: 2, EstimatedTotalCents: &negative},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "unknown resource",
			actor: agencyActor,
			in:    CreateInput{ResourceID: 99, From: date(t, "2025-08-10"), To: date(t, "2025-08-10"), Daypart: domain.DaypartFull, Passengers: 2},
			want:  ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetAndList_ScopedToRequester(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartFull, 90000)

	_, err := f.svc.Get(context.Background(), req.ID, otherAgency)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Get(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	mine, err := f.svc.List(context.Background(), agencyActor, domain.AgencyFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.List(context.Background(), otherAgency, domain.AgencyFilter{RequesterID: agencyActor.ID})
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := f.svc.List(context.Background(), admin, domain.AgencyFilter{Status: domain.AgencyApproved})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApproveReject_Transitions(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartFull, 90000)

	again, err := f.svc.Approve(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyApproved, again.Status)
	assert.Equal(t, 1, f.notifier.count(domain.NotifyAgencyApproved))

	rejected, err := f.svc.Reject(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyRejected, rejected.Status)

	_, err = f.svc.Approve(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestConvert_CreatesReservationAtAgreedPrice(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-11", domain.DaypartFull, 150000)

	res, created, err := f.svc.Convert(context.Background(), req.ID)
	require.NoError(t, err)
	require.True(t, created)

	assert.Equal(t, int64(150000), res.TotalCents)
	assert.Equal(t, int64(30000), res.DepositCents)
	assert.Equal(t, agencyActor.ID, res.HolderID)
	assert.Equal(t, domain.StatusPendingDeposit, res.Status)
	require.NotNil(t, res.Metadata.AgencyRequestID)
	assert.Equal(t, req.ID, *res.Metadata.AgencyRequestID)

	stored, err := f.svc.Get(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyConverted, stored.Status)
	require.NotNil(t, stored.ReservationID)
	assert.Equal(t, res.ID, *stored.ReservationID)
	assert.Equal(t, 1, f.notifier.count(domain.NotifyAgencyConverted))
	assert.Equal(t, 1, f.notifier.count(domain.NotifyReservationCreated))
}

func TestConvert_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartAM, 50000)

	first, created, err := f.svc.Convert(context.Background(), req.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := f.svc.Convert(context.Background(), req.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.store.ReservationCount())
}

func TestConvert_AbandonedReservationClearsLink(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartPM, 50000)

	res, _, err := f.svc.Convert(context.Background(), req.ID)
	require.NoError(t, err)
	require.NoError(t, f.bookings.Abandon(context.Background(), res.ID, agencyActor))

	stored, err := f.svc.Get(context.Background(), req.ID, agencyActor)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyConverted, stored.Status)
	assert.Nil(t, stored.ReservationID)

	_, _, err = f.svc.Convert(context.Background(), req.ID)
	require.ErrorIs(t, err, ErrAlreadyConverted)
	assert.Zero(t, f.store.ReservationCount())
}

func TestConvert_ConcurrentCallsCreateOneReservation(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-12", domain.DaypartFull, 250000)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[uuid.UUID]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, fresh, err := f.svc.Convert(context.Background(), req.ID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[res.ID] = true
			if fresh {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, f.store.ReservationCount())
}

func TestConvert_SlotTakenLeavesRequestApproved(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartFull, 90000)

	direct, err := f.bookings.Create(context.Background(), reservation.CreateInput{
		ResourceID: 1,
		HolderID:   customer.ID,
		From:       date(t, "2025-08-10"),
		To:         date(t, "2025-08-10"),
		Daypart:    domain.DaypartPM,
		Passengers: 2,
	})
	require.NoError(t, err)

	_, _, err = f.svc.Convert(context.Background(), req.ID)
	require.ErrorIs(t, err, ErrSlotNoLongerAvailable)

	var taken SlotTakenError
	require.True(t, errors.As(err, &taken))
	assert.Equal(t, direct.ID, taken.ConflictingID)

	stored, err := f.svc.Get(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyApproved, stored.Status)
	assert.Nil(t, stored.ReservationID)
	assert.Equal(t, 1, f.store.ReservationCount())
}

func TestConvert_FailureLeavesNoPartialState(t *testing.T) {
	f := newFixture(t)
	req := f.approved(t, "2025-08-10", "2025-08-10", domain.DaypartFull, 90000)

	boom := errors.New("link failed")
	f.store.FailOn("agency.mark_converted", boom)

	_, _, err := f.svc.Convert(context.Background(), req.ID)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 0, f.store.ReservationCount())
	stored, err := f.svc.Get(context.Background(), req.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.AgencyApproved, stored.Status)
	assert.Zero(t, f.notifier.count(domain.NotifyReservationCreated))

	f.store.FailOn("agency.mark_converted", nil)
	res, created, err := f.svc.Convert(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, res.ID)
}

func TestConvert_RequiresApproval(t *testing.T) {
	f := newFixture(t)
	estimate := int64(10000)

	req, err := f.svc.Create(context.Background(), agencyActor, CreateInput{
		ResourceID:          1,
		From:                date(t, "2025-08-10"),
		To:                  date(t, "2025-08-10"),
		Daypart:             domain.DaypartFull,
		Passengers:          2,
		EstimatedTotalCents: &estimate,
	})
	require.NoError(t, err)

	_, _, err = f.svc.Convert(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = f.svc.Reject(context.Background(), req.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Convert(context.Background(), req.ID)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, _, err = f.svc.Convert(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
