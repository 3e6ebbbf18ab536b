// Package payments describes the outbound side of the payment processor.
package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed payment event")
)

// CheckoutRequest asks the processor for a hosted payment page.
type CheckoutRequest struct {
	ReservationID uuid.UUID
	AmountCents   int64
	Currency      string
	Description   string
}

type Session struct {
	ID  string
	URL string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	// Mode reports the processor environment the credentials belong to: "test" or "live".
	Mode() string
}
