package httpgin

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 64 << 10

// @Summary  Stripe webhook
// @Param    Stripe-Signature header string true "signature"
// @Success  200 {object} WebhookResponse
// @Failure  400 {object} ErrorResponse "bad signature or payload"
// @Router   /webhooks/stripe [post]
func handleStripeWebhook(parser WebhookParser, events EventSink, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			badRequest(c, "unreadable body")
			return
		}
		if len(payload) > maxWebhookBody {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large"})
			return
		}

		ev, err := parser.Parse(payload, c.GetHeader("Stripe-Signature"))
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			logger.Warn("webhook signature rejected", slog.String("ip", c.ClientIP()))
			badRequest(c, "invalid signature")
			return
		case err != nil:
			logger.Warn("webhook payload rejected", slog.Any("err", err))
			badRequest(c, "malformed event")
			return
		case ev == nil:
			c.JSON(http.StatusOK, WebhookResponse{Received: true, Ignored: true})
			return
		}

		duplicate, err := events.Publish(c.Request.Context(), *ev)
		if err != nil {
			// a non-2xx makes the processor redeliver
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, WebhookResponse{Received: true, Duplicate: duplicate})
	}
}
