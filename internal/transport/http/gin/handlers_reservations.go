package httpgin

import (
	"net/http"
	"strconv"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

// @Summary  Create reservation (idempotent)
// @Param    X-User-ID header string true "caller id"
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} ReservationResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "already booked / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(svcs *service.Services, idem idempotency) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		from, to, err := domain.ParseRange(req.From, req.To)
		if err != nil {
			respondErr(c, err)
			return
		}
		part, err := domain.ParseDaypart(req.Daypart)
		if err != nil {
			respondErr(c, err)
			return
		}

		actor := actorFrom(c)
		idem.run(c, "reservation.create", func() (int, any, error) {
			res, err := svcs.Reservation.Create(c.Request.Context(), reservation.CreateInput{
				ResourceID: req.ResourceID,
				HolderID:   actor.ID,
				From:       from,
				To:         to,
				Daypart:    part,
				Passengers: req.Passengers,
				Metadata: domain.ReservationMetadata{
					ExperienceID: req.ExperienceID,
					Source:       "web",
					Notes:        req.Notes,
				},
				RateKey: "user:" + strconv.FormatInt(actor.ID, 10),
			})
			if err != nil {
				return 0, nil, err
			}
			return http.StatusCreated, toReservationResponse(res), nil
		})
	}
}

// @Summary  Get reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  403 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Router   /reservations/{id} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Reservation.Get(c.Request.Context(), id, actorFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Abandon an unpaid reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  204
// @Failure  409 {object} ErrorResponse "already paid"
// @Router   /reservations/{id} [delete]
func handleAbandonReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Reservation.Abandon(c.Request.Context(), id, actorFrom(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Start deposit checkout
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  201 {object} CheckoutResponse
// @Failure  409 {object} ErrorResponse "not awaiting a deposit"
// @Failure  503 {object} ErrorResponse
// @Router   /reservations/{id}/checkout [post]
func handleCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.Start(c.Request.Context(), id, actorFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CheckoutResponse{SessionID: sess.ID, URL: sess.URL})
	}
}

// @Summary  Mark reservation completed
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/reservations/{id}/complete [post]
func handleCompleteReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Reservation.MarkCompleted(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}

// @Summary  Cancel a paid reservation
// @Param    id  path  string  true  "Reservation ID (uuid)"
// @Success  200 {object} ReservationResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/reservations/{id}/cancel [post]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Reservation.Cancel(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toReservationResponse(res))
	}
}
