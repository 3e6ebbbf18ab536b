package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	"github.com/google/uuid"
)

type Checkout struct {
	lifecycle Lifecycle
	settings  SettingsSource
	gateway   payments.Gateway
	log       *slog.Logger
}

func NewCheckout(lifecycle Lifecycle, settings SettingsSource, gateway payments.Gateway, log *slog.Logger) *Checkout {
	if log == nil {
		log = slog.Default()
	}

	return &Checkout{lifecycle: lifecycle, settings: settings, gateway: gateway, log: log}
}

// Start opens a processor session for the reservation's deposit and records its id.
//
// Returns:
//   - *payments.Session: redirect URL and session id.
//   - error: ErrNotPayable unless the reservation is pending_deposit.
//   - error: ErrPaymentModeMismatch when the gateway runs in another mode than the settings.
//   - error: reservation.ErrForbidden / reservation.ErrReservationNotFound from the lookup.
func (c *Checkout) Start(ctx context.Context, id uuid.UUID, actor domain.Actor) (*payments.Session, error) {
	const op = "service.payment.Checkout.Start"

	res, err := c.lifecycle.Get(ctx, id, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.Status != domain.StatusPendingDeposit || res.DepositCents <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotPayable)
	}

	if c.gateway == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrGatewayUnavailable)
	}

	policy, err := c.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if mode := c.gateway.Mode(); mode != policy.PaymentMode {
		c.log.WarnContext(ctx, "checkout refused",
			slog.String("payment_mode", policy.PaymentMode),
			slog.String("gateway_mode", mode),
		)
		return nil, fmt.Errorf("%s: %w: settings %s, gateway %s", op, ErrPaymentModeMismatch, policy.PaymentMode, mode)
	}

	sess, err := c.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ReservationID: res.ID,
		AmountCents:   res.DepositCents,
		Currency:      res.Currency,
		Description: fmt.Sprintf("Deposit %d%% for %s to %s (%s)",
			res.DepositPercent,
			res.StartDate.Format(domain.DateFormat),
			res.EndDate.Format(domain.DateFormat),
			res.Daypart,
		),
	})
	if err != nil {
		c.log.Error("checkout session failed", slog.String("reservation_id", id.String()), slog.Any("err", err))
		return nil, fmt.Errorf("%s: %w: %v", op, ErrGatewayUnavailable, err)
	}

	if err := c.lifecycle.AttachCheckoutSession(ctx, res.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}
