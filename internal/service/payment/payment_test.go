package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/memory"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/settings"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	policy     *settings.Provider
	lifecycle  *reservation.Service
	reconciler *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddResource(domain.Resource{ID: 1, Name: "Riva Aquarama", Capacity: 8, PriceFullCents: 100000, Active: true})

	policy := settings.NewProvider(store.Settings(), domain.DefaultSettings())
	lifecycle := reservation.New(uow.NewUoW(store), reservation.Deps{
		Reservations: store.Reservations(),
		Catalog:      store.Catalog(),
		Settings:     policy,
		Checker:      conflict.NewChecker(store.Reservations()),
	}, nil)

	return &fixture{
		store:      store,
		policy:     policy,
		lifecycle:  lifecycle,
		reconciler: NewReconciler(store.Reservations(), lifecycle, nil, nil),
	}
}

func (f *fixture) book(t *testing.T) *domain.Reservation {
	t.Helper()
	d, err := domain.ParseDate("2025-08-10")
	require.NoError(t, err)
	res, err := f.lifecycle.Create(context.Background(), reservation.CreateInput{
		ResourceID: 1, HolderID: 10, From: d, To: d, Daypart: domain.DaypartFull, Passengers: 2,
	})
	require.NoError(t, err)
	return res
}

func paid(ref string) domain.PaymentEvent {
	return domain.PaymentEvent{
		ID:              "evt_" + ref,
		Type:            "checkout.session.completed",
		ReservationRef:  ref,
		SessionID:       "cs_1",
		PaymentIntentID: "pi_1",
		Outcome:         domain.PaymentSucceeded,
		ReceivedAt:      time.Now(),
	}
}

func TestHandle_AppliesThenAcknowledgesDuplicate(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	ctx := context.Background()

	result, err := f.reconciler.Handle(ctx, paid(res.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, result)

	result, err = f.reconciler.Handle(ctx, paid(res.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, result)

	got, err := f.lifecycle.Get(ctx, res.ID, domain.Actor{ID: 10, Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDepositPaid, got.Status)
	assert.Equal(t, "pi_1", got.PaymentIntentID)
	assert.Equal(t, "cs_1", got.PaymentSessionID)
}

func TestHandle_UnknownReservationAcknowledged(t *testing.T) {
	f := newFixture(t)

	result, err := f.reconciler.Handle(context.Background(), paid(uuid.NewString()))
	require.NoError(t, err)
	assert.Equal(t, ResultUnknown, result)

	result, err = f.reconciler.Handle(context.Background(), paid("not-a-uuid"))
	require.NoError(t, err)
	assert.Equal(t, ResultUnknown, result)
}

func TestHandle_NonSuccessOutcomesIgnored(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)

	for _, o := range []domain.PaymentOutcome{domain.PaymentFailed, domain.PaymentExpired} {
		ev := paid(res.ID.String())
		ev.Outcome = o
		result, err := f.reconciler.Handle(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, ResultIgnored, result)
	}

	got, err := f.lifecycle.Get(context.Background(), res.ID, domain.Actor{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingDeposit, got.Status)
}

func TestHandle_PastPendingIsNoop(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	ctx := context.Background()

	_, err := f.lifecycle.MarkDepositPaid(ctx, res.ID, domain.PaymentRefs{PaymentIntentID: "pi_first"})
	require.NoError(t, err)
	_, err = f.lifecycle.MarkCompleted(ctx, res.ID)
	require.NoError(t, err)

	result, err := f.reconciler.Handle(ctx, paid(res.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, result)

	got, err := f.lifecycle.Get(ctx, res.ID, domain.Actor{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "pi_first", got.PaymentIntentID)
}

func TestHandle_StorageFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	f.store.FailOn("reservations.mark_paid", errors.New("connection reset"))

	_, err := f.reconciler.Handle(context.Background(), paid(res.ID.String()))
	require.Error(t, err)

	f.store.FailOn("reservations.mark_paid", nil)
	result, err := f.reconciler.Handle(context.Background(), paid(res.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, result)
}

type fakeGateway struct {
	got   payments.CheckoutRequest
	err   error
	mode  string
	calls int
}

func (g *fakeGateway) Mode() string {
	if g.mode == "" {
		return domain.PaymentModeTest
	}
	return g.mode
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	g.got = req
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &payments.Session{ID: "cs_new", URL: "https://checkout.example/cs_new"}, nil
}

func TestCheckout_Start(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	gw := &fakeGateway{}
	c := NewCheckout(f.lifecycle, f.policy, gw, nil)
	holder := domain.Actor{ID: 10, Role: domain.RoleUser}

	sess, err := c.Start(context.Background(), res.ID, holder)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_new", sess.URL)
	assert.Equal(t, res.DepositCents, gw.got.AmountCents)
	assert.Equal(t, "eur", gw.got.Currency)
	assert.Equal(t, res.ID, gw.got.ReservationID)

	got, err := f.lifecycle.Get(context.Background(), res.ID, holder)
	require.NoError(t, err)
	assert.Equal(t, "cs_new", got.PaymentSessionID)
}

func TestCheckout_RejectsPaidAndForeign(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	c := NewCheckout(f.lifecycle, f.policy, &fakeGateway{}, nil)

	_, err := c.Start(context.Background(), res.ID, domain.Actor{ID: 77, Role: domain.RoleUser})
	require.ErrorIs(t, err, reservation.ErrForbidden)

	_, err = f.lifecycle.MarkDepositPaid(context.Background(), res.ID, domain.PaymentRefs{})
	require.NoError(t, err)
	_, err = c.Start(context.Background(), res.ID, domain.Actor{ID: 10, Role: domain.RoleUser})
	require.ErrorIs(t, err, ErrNotPayable)
}

func TestCheckout_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	c := NewCheckout(f.lifecycle, f.policy, &fakeGateway{err: errors.New("503")}, nil)

	_, err := c.Start(context.Background(), res.ID, domain.Actor{ID: 10, Role: domain.RoleUser})
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCheckout_RefusesModeMismatch(t *testing.T) {
	f := newFixture(t)
	res := f.book(t)
	holder := domain.Actor{ID: 10, Role: domain.RoleUser}

	live := &fakeGateway{mode: domain.PaymentModeLive}
	_, err := NewCheckout(f.lifecycle, f.policy, live, nil).Start(context.Background(), res.ID, holder)
	require.ErrorIs(t, err, ErrPaymentModeMismatch)
	assert.Zero(t, live.calls)

	got, err := f.lifecycle.Get(context.Background(), res.ID, holder)
	require.NoError(t, err)
	assert.Empty(t, got.PaymentSessionID)

	liveSettings := domain.DefaultSettings()
	liveSettings.PaymentMode = domain.PaymentModeLive
	f.store.PutSettings(liveSettings)

	_, err = NewCheckout(f.lifecycle, f.policy, live, nil).Start(context.Background(), res.ID, holder)
	require.NoError(t, err)
	assert.Equal(t, 1, live.calls)

	_, err = NewCheckout(f.lifecycle, f.policy, &fakeGateway{}, nil).Start(context.Background(), res.ID, holder)
	require.ErrorIs(t, err, ErrPaymentModeMismatch)
}
