package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/agency"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/payment"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/slots"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondErr maps service errors onto HTTP statuses. Anything unrecognised is a
// 500 without the underlying message.
func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		rateLimited reservation.RateLimitedError
		unavailable reservation.SlotUnavailableError
		taken       agency.SlotTakenError
	)

	switch {
	// validation
	case errors.Is(err, domain.ErrBadRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: domain.ErrBadRange.Error()})
	case errors.Is(err, domain.ErrInvalidDaypart):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid daypart"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	case errors.Is(err, reservation.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "passenger count exceeds capacity"})

	// access
	case errors.Is(err, reservation.ErrForbidden), errors.Is(err, agency.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.As(err, &rateLimited):
		secs := int(math.Ceil(rateLimited.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		c.Header("Retry-After", strconv.Itoa(secs))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})

	// not found
	case errors.Is(err, slots.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "slot not found"})
	case errors.Is(err, reservation.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
	case errors.Is(err, reservation.ErrResourceNotFound), errors.Is(err, agency.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "resource not found"})
	case errors.Is(err, agency.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "agency request not found"})

	// business conflicts
	case errors.As(err, &taken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:                    "slot no longer available",
			ConflictingReservationID: taken.ConflictingID.String(),
		})
	case errors.As(err, &unavailable):
		resp := ErrorResponse{Error: "already booked"}
		if unavailable.ConflictingID != uuid.Nil {
			resp.ConflictingReservationID = unavailable.ConflictingID.String()
		}
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, reservation.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "already booked"})
	case errors.Is(err, agency.ErrSlotNoLongerAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot no longer available"})
	case errors.Is(err, slots.ErrSlotConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot changed concurrently, retry"})
	case errors.Is(err, reservation.ErrResourceInactive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "resource is not bookable"})
	case errors.Is(err, reservation.ErrNotAbandonable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "only unpaid reservations can be abandoned"})
	case errors.Is(err, reservation.ErrInvalidTransition), errors.Is(err, agency.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid status transition"})
	case errors.Is(err, agency.ErrNotApproved):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "agency request is not approved"})
	case errors.Is(err, agency.ErrAlreadyConverted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "agency request already converted"})
	case errors.Is(err, payment.ErrNotPayable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation is not awaiting a deposit"})

	// upstream
	case errors.Is(err, payment.ErrGatewayUnavailable):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "payment gateway unavailable"})
	case errors.Is(err, payment.ErrPaymentModeMismatch):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "checkout disabled for the current payment mode"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
