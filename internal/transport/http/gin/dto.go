package httpgin

import (
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/availability"
)

type ToggleSlotRequest struct {
	ResourceID int64  `json:"resource_id" binding:"required,gt=0"`
	Date       string `json:"date" binding:"required"`
	Daypart    string `json:"daypart" binding:"required"`
	Note       string `json:"note"`
	Blocked    bool   `json:"blocked"`
}

type AnnotateSlotRequest struct {
	Note string `json:"note"`
}

type CreateReservationRequest struct {
	ResourceID   int64  `json:"resource_id" binding:"required,gt=0"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to" binding:"required"`
	Daypart      string `json:"daypart" binding:"required"`
	Passengers   int    `json:"passengers" binding:"required,gt=0"`
	ExperienceID *int64 `json:"experience_id"`
	Notes        string `json:"notes"`
}

type CreateAgencyRequestRequest struct {
	ResourceID          int64  `json:"resource_id" binding:"required,gt=0"`
	From                string `json:"from" binding:"required"`
	To                  string `json:"to" binding:"required"`
	Daypart             string `json:"daypart" binding:"required"`
	Passengers          int    `json:"passengers" binding:"required,gt=0"`
	EstimatedTotalCents *int64 `json:"estimated_total_cents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	// ConflictingReservationID is set when a booking was refused because of another reservation.
	ConflictingReservationID string `json:"conflicting_reservation_id,omitempty"`
}

type AvailabilityResponse struct {
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Daypart   domain.Daypart          `json:"daypart"`
	Resources []availability.Resource `json:"resources"`
}

type SlotResponse struct {
	ID         int64             `json:"id"`
	ResourceID int64             `json:"resource_id"`
	Date       string            `json:"date"`
	Daypart    domain.Daypart    `json:"daypart"`
	Status     domain.SlotStatus `json:"status"`
	Note       string            `json:"note,omitempty"`
}

type ToggleSlotResponse struct {
	Result domain.ToggleResult `json:"result"`
	Slot   *SlotResponse       `json:"slot"`
}

type PurgeSlotsResponse struct {
	Deleted int64 `json:"deleted"`
}

type ReservationResponse struct {
	ID               string                     `json:"id"`
	ResourceID       int64                      `json:"resource_id"`
	HolderID         int64                      `json:"holder_id"`
	From             string                     `json:"from"`
	To               string                     `json:"to"`
	Daypart          domain.Daypart             `json:"daypart"`
	Passengers       int                        `json:"passengers"`
	TotalCents       int64                      `json:"total_cents"`
	DepositCents     int64                      `json:"deposit_cents"`
	DepositPercent   int                        `json:"deposit_percent"`
	RemainingCents   int64                      `json:"remaining_cents"`
	Currency         string                     `json:"currency"`
	Status           domain.ReservationStatus   `json:"status"`
	PriceLocked      bool                       `json:"price_locked"`
	PaymentSessionID string                     `json:"payment_session_id,omitempty"`
	Metadata         domain.ReservationMetadata `json:"metadata"`
	CreatedAt        time.Time                  `json:"created_at"`
	DepositPaidAt    *time.Time                 `json:"deposit_paid_at,omitempty"`
	CompletedAt      *time.Time                 `json:"completed_at,omitempty"`
	CancelledAt      *time.Time                 `json:"cancelled_at,omitempty"`
}

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type AgencyRequestResponse struct {
	ID                  string                     `json:"id"`
	ResourceID          int64                      `json:"resource_id"`
	RequesterID         int64                      `json:"requester_id"`
	From                string                     `json:"from"`
	To                  string                     `json:"to"`
	Daypart             domain.Daypart             `json:"daypart"`
	Passengers          int                        `json:"passengers"`
	EstimatedTotalCents int64                      `json:"estimated_total_cents"`
	Status              domain.AgencyRequestStatus `json:"status"`
	ReservationID       string                     `json:"reservation_id,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

type ConvertResponse struct {
	Created     bool                `json:"created"`
	Reservation ReservationResponse `json:"reservation"`
}

type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
	Ignored   bool `json:"ignored,omitempty"`
}

func toSlotResponse(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:         s.ID,
		ResourceID: s.ResourceID,
		Date:       s.Date.Format(domain.DateFormat),
		Daypart:    s.Daypart,
		Status:     s.Status,
		Note:       s.Note,
	}
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID.String(),
		ResourceID:       r.ResourceID,
		HolderID:         r.HolderID,
		From:             r.StartDate.Format(domain.DateFormat),
		To:               r.EndDate.Format(domain.DateFormat),
		Daypart:          r.Daypart,
		Passengers:       r.Passengers,
		TotalCents:       r.TotalCents,
		DepositCents:     r.DepositCents,
		DepositPercent:   r.DepositPercent,
		RemainingCents:   r.RemainingCents,
		Currency:         r.Currency,
		Status:           r.Status,
		PriceLocked:      r.PriceLocked,
		PaymentSessionID: r.PaymentSessionID,
		Metadata:         r.Metadata,
		CreatedAt:        r.CreatedAt,
		DepositPaidAt:    r.DepositPaidAt,
		CompletedAt:      r.CompletedAt,
		CancelledAt:      r.CancelledAt,
	}
}

func toAgencyRequestResponse(a *domain.AgencyRequest) AgencyRequestResponse {
	out := AgencyRequestResponse{
		ID:                  a.ID.String(),
		ResourceID:          a.ResourceID,
		RequesterID:         a.RequesterID,
		From:                a.StartDate.Format(domain.DateFormat),
		To:                  a.EndDate.Format(domain.DateFormat),
		Daypart:             a.Daypart,
		Passengers:          a.Passengers,
		EstimatedTotalCents: a.EstimatedTotalCents,
		Status:              a.Status,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	if a.ReservationID != nil {
		out.ReservationID = a.ReservationID.String()
	}
	return out
}
