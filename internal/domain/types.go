package domain

import (
	"time"

	"github.com/google/uuid"
)

type ResourceKind string

const (
	ResourceBoat       ResourceKind = "boat"
	ResourceExperience ResourceKind = "experience"
)

// Resource is a bookable boat or experience, owned by the catalog.
type Resource struct {
	ID             int64
	Kind           ResourceKind
	Name           string
	Capacity       int
	PriceFullCents int64
	PriceAMCents   int64
	PricePMCents   int64
	Active         bool
}

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBlocked   SlotStatus = "blocked"
)

// Slot marks a resource as offered on a date for a daypart.
// (ResourceID, Date, Daypart) is its natural key.
type Slot struct {
	ID         int64
	ResourceID int64
	Date       time.Time
	Daypart    Daypart
	Status     SlotStatus
	Note       string
	CreatedAt  time.Time
}

type ToggleResult string

const (
	SlotAdded   ToggleResult = "added"
	SlotRemoved ToggleResult = "removed"
)

type ReservationStatus string

const (
	StatusPendingDeposit ReservationStatus = "pending_deposit"
	StatusDepositPaid    ReservationStatus = "deposit_paid"
	StatusCompleted      ReservationStatus = "completed"
	StatusCancelled      ReservationStatus = "cancelled"
)

// ReservationMetadata is the structured payload stored alongside a reservation.
type ReservationMetadata struct {
	ExperienceID    *int64     `json:"experience_id,omitempty"`
	AgencyRequestID *uuid.UUID `json:"agency_request_id,omitempty"`
	Source          string     `json:"source,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

const maxMetadataNotes = 1000

func (m ReservationMetadata) Validate() error {
	if len(m.Notes) > maxMetadataNotes {
		return ErrInvalidInput
	}
	if m.ExperienceID != nil && *m.ExperienceID <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// Reservation is a firm, price-locked booking.
type Reservation struct {
	ID               uuid.UUID
	ResourceID       int64
	HolderID         int64
	StartDate        time.Time
	EndDate          time.Time
	Daypart          Daypart
	Passengers       int
	TotalCents       int64
	DepositCents     int64
	DepositPercent   int
	RemainingCents   int64
	Currency         string
	Status           ReservationStatus
	PriceLocked      bool
	PaymentSessionID string
	PaymentIntentID  string
	Metadata         ReservationMetadata
	CreatedAt        time.Time
	DepositPaidAt    *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// Live reports whether the reservation still holds its dates.
func (r *Reservation) Live() bool {
	return r.Status != StatusCancelled
}

// DepositSettled is true once a payment has been recorded.
func (r *Reservation) DepositSettled() bool {
	return r.DepositPaidAt != nil || r.Status == StatusDepositPaid || r.Status == StatusCompleted
}

type AgencyRequestStatus string

const (
	AgencyPending   AgencyRequestStatus = "pending"
	AgencyApproved  AgencyRequestStatus = "approved"
	AgencyRejected  AgencyRequestStatus = "rejected"
	AgencyConverted AgencyRequestStatus = "converted"
)

// AgencyRequest is a non-binding booking intent raised by an agency.
type AgencyRequest struct {
	ID                  uuid.UUID
	ResourceID          int64
	RequesterID         int64
	StartDate           time.Time
	EndDate             time.Time
	Daypart             Daypart
	Passengers          int
	EstimatedTotalCents int64
	Status              AgencyRequestStatus
	ReservationID       *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (a *AgencyRequest) Terminal() bool {
	return a.Status == AgencyRejected || a.Status == AgencyConverted
}

type Role string

const (
	RoleUser   Role = "user"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

// Actor is the caller identity resolved upstream.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "succeeded"
	PaymentFailed    PaymentOutcome = "failed"
	PaymentExpired   PaymentOutcome = "expired"
)

// PaymentEvent is an asynchronous notification from the payment processor,
// already signature-verified.
type PaymentEvent struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	ReservationRef  string         `json:"reservation_ref"`
	SessionID       string         `json:"session_id"`
	PaymentIntentID string         `json:"payment_intent_id"`
	Outcome         PaymentOutcome `json:"outcome"`
	ReceivedAt      time.Time      `json:"received_at"`
}

// PaymentRefs are the processor identifiers recorded on deposit payment.
type PaymentRefs struct {
	SessionID       string
	PaymentIntentID string
}

type NotificationType string

const (
	NotifyReservationCreated   NotificationType = "reservation.created"
	NotifyDepositPaid          NotificationType = "reservation.deposit_paid"
	NotifyReservationCompleted NotificationType = "reservation.completed"
	NotifyReservationCancelled NotificationType = "reservation.cancelled"
	NotifyReservationAbandoned NotificationType = "reservation.abandoned"
	NotifyAgencyApproved       NotificationType = "agency_request.approved"
	NotifyAgencyRejected       NotificationType = "agency_request.rejected"
	NotifyAgencyConverted      NotificationType = "agency_request.converted"
)

// Notification is a fire-and-forget state change announcement.
type Notification struct {
	Type          NotificationType `json:"type"`
	ReservationID *uuid.UUID       `json:"reservation_id,omitempty"`
	RequestID     *uuid.UUID       `json:"request_id,omitempty"`
	ResourceID    int64            `json:"resource_id"`
	UserID        int64            `json:"user_id,omitempty"`
	TsUnix        int64            `json:"ts_unix"`
}

// AgencyFilter narrows agency request listings. Zero values mean no filter.
type AgencyFilter struct {
	Status      AgencyRequestStatus
	RequesterID int64
	ResourceID  int64
	Limit       int
	Offset      int
}
