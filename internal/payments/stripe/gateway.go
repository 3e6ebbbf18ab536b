// Package stripe adapts Stripe Checkout to the payments gateway and turns verified
// webhook deliveries into domain payment events.
package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// MetadataReservationID is the checkout session metadata key carrying our reference.
const MetadataReservationID = "reservation_id"

type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

type Gateway struct {
	api *client.API
	cfg Config
}

func NewGateway(cfg Config) *Gateway {
	return &Gateway{api: client.New(cfg.SecretKey, nil), cfg: cfg}
}

// Mode derives the environment from the key prefix (sk_live_, rk_live_).
func (g *Gateway) Mode() string {
	return KeyMode(g.cfg.SecretKey)
}

func KeyMode(secretKey string) string {
	if strings.HasPrefix(secretKey, "sk_live_") || strings.HasPrefix(secretKey, "rk_live_") {
		return domain.PaymentModeLive
	}
	return domain.PaymentModeTest
}

// CreateCheckoutSession opens a one-line payment session for the deposit amount.
// The reservation id travels as metadata on both the session and its payment intent.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	const op = "stripe.Gateway.CreateCheckoutSession"

	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("%s: non-positive amount %d", op, req.AmountCents)
	}

	ref := req.ReservationID.String()
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:        stripego.String(g.cfg.SuccessURL),
		CancelURL:         stripego.String(g.cfg.CancelURL),
		ClientReferenceID: stripego.String(ref),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Quantity: stripego.Int64(1),
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(req.Currency),
					UnitAmount: stripego.Int64(req.AmountCents),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(req.Description),
					},
				},
			},
		},
		PaymentIntentData: &stripego.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataReservationID: ref},
		},
	}
	params.Context = ctx
	params.AddMetadata(MetadataReservationID, ref)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payments.Session{ID: sess.ID, URL: sess.URL}, nil
}
