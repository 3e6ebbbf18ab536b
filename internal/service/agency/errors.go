package agency

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrRequestNotFound       = errors.New("agency request not found")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrNotApproved           = errors.New("agency request is not approved")
	ErrInvalidTransition     = errors.New("invalid agency request transition")
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	ErrAlreadyConverted      = errors.New("agency request already converted")
	ErrForbidden             = errors.New("forbidden")
)

// SlotTakenError reports the reservation that took the slot after approval.
type SlotTakenError struct {
	RequestID     uuid.UUID
	ConflictingID uuid.UUID
}

func (e SlotTakenError) Error() string {
	return fmt.Sprintf("%s: request %s blocked by reservation %s", ErrSlotNoLongerAvailable, e.RequestID, e.ConflictingID)
}

func (e SlotTakenError) Unwrap() error { return ErrSlotNoLongerAvailable }
