package agency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/google/uuid"
)

// Convert turns an approved request into a firm reservation priced at the request's
// estimate, in one transaction: re-read the request, re-check conflicts, create the
// reservation, link both. A request that is already converted returns its existing
// reservation with created=false, so retries and double clicks are harmless.
//
// Parameters:
//   - ctx: request-scoped context.
//   - id: agency request id.
//
// Returns:
//   - *domain.Reservation: the linked reservation.
//   - bool: true if this call created it.
//   - error: SlotTakenError (errors.Is ErrSlotNoLongerAvailable) leaving the request approved.
//   - error: ErrNotApproved, ErrRequestNotFound.
func (s *Service) Convert(ctx context.Context, id uuid.UUID) (*domain.Reservation, bool, error) {
	const op = "service.agency.Convert"

	var res *domain.Reservation
	var created bool

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		req, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		if req.Status == domain.AgencyConverted || req.ReservationID != nil {
			res, err = s.linkedReservation(ctx, req)
			return err
		}
		if req.Status != domain.AgencyApproved {
			return fmt.Errorf("%w: status %s", ErrNotApproved, req.Status)
		}

		check, err := s.checker.Check(ctx, conflict.Candidate{
			ResourceID: req.ResourceID,
			From:       req.StartDate,
			To:         req.EndDate,
			Daypart:    req.Daypart,
		})
		if err != nil {
			return err
		}
		if check.Conflict {
			return SlotTakenError{RequestID: req.ID, ConflictingID: check.ReservationID}
		}

		total := req.EstimatedTotalCents
		requestID := req.ID
		res, err = s.lifecycle.Create(ctx, reservation.CreateInput{
			ResourceID:       req.ResourceID,
			HolderID:         req.RequesterID,
			From:             req.StartDate,
			To:               req.EndDate,
			Daypart:          req.Daypart,
			Passengers:       req.Passengers,
			AgreedTotalCents: &total,
			Metadata: domain.ReservationMetadata{
				AgencyRequestID: &requestID,
				Source:          "agency",
			},
		})
		if err != nil {
			var taken reservation.SlotUnavailableError
			if errors.As(err, &taken) {
				return SlotTakenError{RequestID: req.ID, ConflictingID: taken.ConflictingID}
			}
			return err
		}

		ok, err := s.requests.MarkConverted(ctx, req.ID, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyConverted
		}
		created = true

		req.Status = domain.AgencyConverted
		req.ReservationID = &res.ID
		converted := *req
		after(func(ctx context.Context) {
			s.notify(ctx, domain.NotifyAgencyConverted, &converted)
			s.metrics.AgencyTransition(string(domain.AgencyConverted))
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			s.metrics.ConflictRejected("convert")
			s.log.Info("conversion refused: slot taken", slog.String("request_id", id.String()), slog.Any("err", err))
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if !created {
		s.log.Info("request already converted",
			slog.String("request_id", id.String()),
			slog.String("reservation_id", res.ID.String()),
		)
	}

	return res, created, nil
}

func (s *Service) linkedReservation(ctx context.Context, req *domain.AgencyRequest) (*domain.Reservation, error) {
	if req.ReservationID == nil {
		return nil, ErrAlreadyConverted
	}

	res, err := s.reservations.GetByID(ctx, *req.ReservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyConverted
		}
		return nil, err
	}

	return res, nil
}
