package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/google/uuid"
)

type Deps struct {
	Reservations ReservationRepository
	Catalog      Catalog
	Settings     SettingsSource
	Checker      ConflictChecker
	Notifier     Notifier
	Cache        Invalidator
	Limiter      Limiter
	Metrics      *metrics.Metrics
}

type Service struct {
	uow          *uow.UoW
	reservations ReservationRepository
	catalog      Catalog
	settings     SettingsSource
	checker      ConflictChecker
	notifier     Notifier
	cache        Invalidator
	limiter      Limiter
	metrics      *metrics.Metrics
	log          *slog.Logger
	now          func() time.Time
}

func New(u *uow.UoW, deps Deps, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		uow:          u,
		reservations: deps.Reservations,
		catalog:      deps.Catalog,
		settings:     deps.Settings,
		checker:      deps.Checker,
		notifier:     deps.Notifier,
		cache:        deps.Cache,
		limiter:      deps.Limiter,
		metrics:      deps.Metrics,
		log:          log,
		now:          time.Now,
	}
}

type CreateInput struct {
	ResourceID int64
	HolderID   int64
	From       time.Time
	To         time.Time
	Daypart    domain.Daypart
	Passengers int
	Metadata   domain.ReservationMetadata
	// AgreedTotalCents freezes an already negotiated total instead of pricing
	// from the catalog.
	AgreedTotalCents *int64
	// RateKey identifies the caller for rate limiting. Empty disables the limiter.
	RateKey string
}

func (in CreateInput) validate() error {
	if in.ResourceID <= 0 || in.HolderID <= 0 {
		return fmt.Errorf("%w: resource and holder are required", domain.ErrInvalidInput)
	}
	if !in.Daypart.Valid() {
		return domain.ErrInvalidDaypart
	}
	if err := domain.ValidateRange(in.From, in.To); err != nil {
		return err
	}
	if in.Daypart.IsHalfDay() && !domain.Truncate(in.From).Equal(domain.Truncate(in.To)) {
		return fmt.Errorf("%w: a half-day reservation covers a single date", domain.ErrBadRange)
	}
	if in.Passengers <= 0 {
		return fmt.Errorf("%w: passengers must be positive", domain.ErrInvalidInput)
	}
	if in.AgreedTotalCents != nil && *in.AgreedTotalCents < 0 {
		return fmt.Errorf("%w: negative total", domain.ErrInvalidInput)
	}
	return in.Metadata.Validate()
}

// Create books the resource in pending_deposit state with a frozen price.
// The conflict check runs in the same transaction as the insert, under a
// per-resource lock, and the exclusion constraint fences whatever slips through.
//
// Parameters:
//   - ctx: request-scoped context; joins the caller's unit of work if there is one.
//   - in: booking request.
//
// Returns:
//   - *domain.Reservation: the created reservation.
//   - error: SlotUnavailableError (errors.Is ErrSlotUnavailable) when the dates are taken.
//   - error: ErrResourceNotFound, ErrResourceInactive, ErrCapacityExceeded, RateLimitedError.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Reservation, error) {
	const op = "service.reservation.Create"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.limiter != nil && in.RateKey != "" {
		ok, retry, err := s.limiter.Allow(ctx, in.RateKey)
		if err != nil {
			s.log.Warn("rate limiter unavailable", slog.Any("err", err))
		} else if !ok {
			return nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	from, to := domain.Truncate(in.From), domain.Truncate(in.To)

	var res *domain.Reservation

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		if err := s.reservations.LockResource(ctx, in.ResourceID); err != nil {
			return err
		}

		resource, err := s.catalog.GetResource(ctx, in.ResourceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrResourceNotFound
			}
			return err
		}
		if !resource.Active {
			return ErrResourceInactive
		}
		if resource.Capacity > 0 && in.Passengers > resource.Capacity {
			return ErrCapacityExceeded
		}

		policy, err := s.settings.Snapshot(ctx)
		if err != nil {
			return err
		}

		check, err := s.checker.Check(ctx, conflict.Candidate{
			ResourceID: in.ResourceID,
			From:       from,
			To:         to,
			Daypart:    in.Daypart,
		})
		if err != nil {
			return err
		}
		if check.Conflict {
			return SlotUnavailableError{ConflictingID: check.ReservationID}
		}

		var quote domain.Quote
		if in.AgreedTotalCents != nil {
			quote = domain.QuoteFromTotal(*in.AgreedTotalCents, policy)
		} else {
			quote, err = domain.PriceReservation(*resource, from, to, in.Daypart, policy)
			if err != nil {
				return err
			}
		}

		res = &domain.Reservation{
			ID:             uuid.New(),
			ResourceID:     in.ResourceID,
			HolderID:       in.HolderID,
			StartDate:      from,
			EndDate:        to,
			Daypart:        in.Daypart,
			Passengers:     in.Passengers,
			TotalCents:     quote.TotalCents,
			DepositCents:   quote.DepositCents,
			DepositPercent: quote.DepositPercent,
			RemainingCents: quote.RemainingCents,
			Currency:       quote.Currency,
			Status:         domain.StatusPendingDeposit,
			PriceLocked:    true,
			Metadata:       in.Metadata,
		}
		if err := s.reservations.Insert(ctx, res); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				s.log.DebugContext(ctx, "reservation insert rejected by storage",
					slog.Int64("resource_id", in.ResourceID),
					slog.String("constraint", repository.ConstraintOf(err)),
				)
				return SlotUnavailableError{}
			}
			return err
		}

		created := *res
		after(func(ctx context.Context) {
			s.invalidate(ctx)
			s.notify(ctx, domain.NotifyReservationCreated, &created)
			s.metrics.ReservationEvent("created")
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			s.metrics.ConflictRejected("create")
			s.log.Info("reservation refused: slot taken",
				slog.Int64("resource_id", in.ResourceID),
				slog.String("from", from.Format(domain.DateFormat)),
				slog.String("to", to.Format(domain.DateFormat)),
				slog.String("daypart", string(in.Daypart)),
				slog.Any("err", err),
			)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// Get returns a reservation to its holder or to an admin.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Reservation, error) {
	const op = "service.reservation.Get"

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrReservationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !actor.IsAdmin() && actor.ID != res.HolderID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return res, nil
}

// MarkDepositPaid records the deposit payment. A reservation that already has a
// payment recorded is left untouched and no error is returned, so duplicate
// processor deliveries are harmless.
//
// Returns:
//   - bool: true if this call performed the transition.
//   - error: ErrReservationNotFound.
func (s *Service) MarkDepositPaid(ctx context.Context, id uuid.UUID, refs domain.PaymentRefs) (bool, error) {
	const op = "service.reservation.MarkDepositPaid"

	var changed bool

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		res, err := s.reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.DepositSettled() || res.Status != domain.StatusPendingDeposit {
			return nil
		}

		changed, err = s.reservations.MarkDepositPaid(ctx, id, refs, s.now().UTC())
		if err != nil {
			return err
		}
		if changed {
			paid := *res
			after(func(ctx context.Context) {
				s.notify(ctx, domain.NotifyDepositPaid, &paid)
				s.metrics.ReservationEvent("deposit_paid")
			})
		}

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if !changed {
		s.log.Info("deposit already recorded", slog.String("reservation_id", id.String()))
	}

	return changed, nil
}

// MarkCompleted records that the balance was settled. Completing twice is a no-op.
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.MarkCompleted"

	res, err := s.transition(ctx, id, domain.StatusDepositPaid, domain.StatusCompleted, domain.NotifyReservationCompleted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// Cancel releases a paid reservation's dates while keeping its financial record.
// Unpaid reservations are abandoned instead.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	const op = "service.reservation.Cancel"

	res, err := s.transition(ctx, id, domain.StatusDepositPaid, domain.StatusCancelled, domain.NotifyReservationCancelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *Service) transition(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.ReservationStatus,
	event domain.NotificationType,
) (*domain.Reservation, error) {
	var out *domain.Reservation

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		res, err := s.reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if res.Status == to {
			out = res
			return nil
		}
		if res.Status != from {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, to)
		}

		at := s.now().UTC()
		ok, err := s.reservations.SetStatus(ctx, id, from, to, at)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, id)
		}

		res.Status = to
		switch to {
		case domain.StatusCompleted:
			res.CompletedAt = &at
		case domain.StatusCancelled:
			res.CancelledAt = &at
		}
		out = res

		changed := *res
		after(func(ctx context.Context) {
			if to == domain.StatusCancelled {
				s.invalidate(ctx)
			}
			s.notify(ctx, event, &changed)
			s.metrics.ReservationEvent(string(to))
		})

		return nil
	})

	return out, err
}

// Abandon hard-deletes an unpaid reservation on behalf of its holder or an admin.
//
// Returns:
//   - error: ErrNotAbandonable once a deposit has been recorded.
//   - error: ErrForbidden for other users, ErrReservationNotFound.
func (s *Service) Abandon(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	const op = "service.reservation.Abandon"

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		res, err := s.reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if !actor.IsAdmin() && actor.ID != res.HolderID {
			return ErrForbidden
		}
		if res.Status != domain.StatusPendingDeposit || res.DepositSettled() {
			return ErrNotAbandonable
		}

		if err := s.reservations.DeletePending(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotAbandonable
			}
			return err
		}

		gone := *res
		after(func(ctx context.Context) {
			s.invalidate(ctx)
			s.notify(ctx, domain.NotifyReservationAbandoned, &gone)
			s.metrics.ReservationEvent("abandoned")
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotAbandonable) {
			s.log.Warn("abandon refused on paid reservation", slog.String("reservation_id", id.String()))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AttachCheckoutSession stores the processor session created for the deposit.
func (s *Service) AttachCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	const op = "service.reservation.AttachCheckoutSession"

	if err := s.reservations.SetPaymentSession(ctx, id, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrReservationNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx); err != nil {
		s.log.Warn("availability cache invalidation failed", slog.Any("err", err))
	}
}

func (s *Service) notify(ctx context.Context, t domain.NotificationType, res *domain.Reservation) {
	if s.notifier == nil {
		return
	}

	id := res.ID
	n := domain.Notification{
		Type:          t,
		ReservationID: &id,
		RequestID:     res.Metadata.AgencyRequestID,
		ResourceID:    res.ResourceID,
		UserID:        res.HolderID,
		TsUnix:        s.now().Unix(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("notification failed",
			slog.String("type", string(t)),
			slog.String("reservation_id", id.String()),
			slog.Any("err", err),
		)
	}
}
