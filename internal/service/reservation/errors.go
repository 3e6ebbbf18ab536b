package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrResourceInactive    = errors.New("resource is not bookable")
	ErrCapacityExceeded    = errors.New("passenger count exceeds capacity")
	ErrSlotUnavailable     = errors.New("slot unavailable")
	ErrNotAbandonable      = errors.New("only unpaid reservations can be abandoned")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrForbidden           = errors.New("forbidden")
	ErrRateLimited         = errors.New("rate limited")
)

// SlotUnavailableError carries the reservation that already holds the slot.
type SlotUnavailableError struct {
	ConflictingID uuid.UUID
}

func (e SlotUnavailableError) Error() string {
	if e.ConflictingID == uuid.Nil {
		return ErrSlotUnavailable.Error()
	}
	return fmt.Sprintf("%s: held by %s", ErrSlotUnavailable, e.ConflictingID)
}

func (e SlotUnavailableError) Unwrap() error { return ErrSlotUnavailable }

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e RateLimitedError) Unwrap() error { return ErrRateLimited }
