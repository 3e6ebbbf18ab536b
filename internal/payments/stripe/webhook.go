package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

type WebhookVerifier struct {
	secret string
	now    func() time.Time
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret, now: time.Now}
}

// Parse verifies the Stripe-Signature header and maps checkout session events to a
// payment event. Event types that carry no payment outcome return (nil, nil).
func (v *WebhookVerifier) Parse(payload []byte, signature string) (*domain.PaymentEvent, error) {
	const op = "stripe.WebhookVerifier.Parse"

	ev, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, payments.ErrInvalidSignature, err)
	}

	var outcome domain.PaymentOutcome
	switch string(ev.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		outcome = domain.PaymentSucceeded
	case "checkout.session.async_payment_failed":
		outcome = domain.PaymentFailed
	case "checkout.session.expired":
		outcome = domain.PaymentExpired
	default:
		return nil, nil
	}

	if ev.Data == nil {
		return nil, fmt.Errorf("%s: %w: no data", op, payments.ErrMalformedEvent)
	}

	var sess stripego.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, payments.ErrMalformedEvent, err)
	}

	// a completed session with a delayed payment method is settled by a later event
	if string(ev.Type) == "checkout.session.completed" &&
		sess.PaymentStatus != stripego.CheckoutSessionPaymentStatusPaid &&
		sess.PaymentStatus != stripego.CheckoutSessionPaymentStatusNoPaymentRequired {
		return nil, nil
	}

	ref := sess.Metadata[MetadataReservationID]
	if ref == "" {
		ref = sess.ClientReferenceID
	}

	out := &domain.PaymentEvent{
		ID:             ev.ID,
		Type:           string(ev.Type),
		ReservationRef: ref,
		SessionID:      sess.ID,
		Outcome:        outcome,
		ReceivedAt:     v.now().UTC(),
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}

	return out, nil
}
