package agency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Deps struct {
	Requests     RequestRepository
	Catalog      Catalog
	Settings     SettingsSource
	Checker      ConflictChecker
	Lifecycle    Lifecycle
	Reservations ReservationReader
	Notifier     Notifier
	Metrics      *metrics.Metrics
}

type Service struct {
	uow          *uow.UoW
	requests     RequestRepository
	catalog      Catalog
	settings     SettingsSource
	checker      ConflictChecker
	lifecycle    Lifecycle
	reservations ReservationReader
	notifier     Notifier
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
		requests:     deps.Requests,
		catalog:      deps.Catalog,
		settings:     deps.Settings,
		checker:      deps.Checker,
		lifecycle:    deps.Lifecycle,
		reservations: deps.Reservations,
		notifier:     deps.Notifier,
		metrics:      deps.Metrics,
		log:          log,
		now:          time.Now,
	}
}

type CreateInput struct {
	ResourceID int64
	From       time.Time
	To         time.Time
	Daypart    domain.Daypart
	Passengers int
	// EstimatedTotalCents is the price offered to the agency. When nil it is
	// computed from the catalog with the current settings.
	EstimatedTotalCents *int64
}

// Create records a pending, non-binding request raised by an agency.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*domain.AgencyRequest, error) {
	const op = "service.agency.Create"

	if actor.Role != domain.RoleAgency && !actor.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if !in.Daypart.Valid() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidDaypart)
	}
	if err := domain.ValidateRange(in.From, in.To); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if in.Daypart.IsHalfDay() && !domain.Truncate(in.From).Equal(domain.Truncate(in.To)) {
		return nil, fmt.Errorf("%s: %w: a half-day request covers a single date", op, domain.ErrBadRange)
	}
	if in.Passengers <= 0 {
		return nil, fmt.Errorf("%s: %w: passengers must be positive", op, domain.ErrInvalidInput)
	}
	if in.EstimatedTotalCents != nil && *in.EstimatedTotalCents < 0 {
		return nil, fmt.Errorf("%s: %w: negative estimate", op, domain.ErrInvalidInput)
	}

	from, to := domain.Truncate(in.From), domain.Truncate(in.To)

	resource, err := s.catalog.GetResource(ctx, in.ResourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var estimate int64
	if in.EstimatedTotalCents != nil {
		estimate = *in.EstimatedTotalCents
	} else {
		policy, err := s.settings.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		quote, err := domain.PriceReservation(*resource, from, to, in.Daypart, policy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		estimate = quote.TotalCents
	}

	req := &domain.AgencyRequest{
		ID:                  uuid.New(),
		ResourceID:          in.ResourceID,
		RequesterID:         actor.ID,
		StartDate:           from,
		EndDate:             to,
		Daypart:             in.Daypart,
		Passengers:          in.Passengers,
		EstimatedTotalCents: estimate,
		Status:              domain.AgencyPending,
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.AgencyTransition(string(domain.AgencyPending))

	return req, nil
}

// Get returns a request to its requester or to an admin.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.AgencyRequest, error) {
	const op = "service.agency.Get"

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRequestNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !actor.IsAdmin() && actor.ID != req.RequesterID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return req, nil
}

// List pages through requests. Non-admin callers only see their own.
func (s *Service) List(ctx context.Context, actor domain.Actor, f domain.AgencyFilter) ([]domain.AgencyRequest, error) {
	const op = "service.agency.List"

	if !actor.IsAdmin() {
		f.RequesterID = actor.ID
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	out, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []domain.AgencyRequest{}
	}

	return out, nil
}

// Approve moves a pending request to approved. Approving twice is a no-op.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	const op = "service.agency.Approve"

	req, err := s.setStatus(ctx, id, []domain.AgencyRequestStatus{domain.AgencyPending}, domain.AgencyApproved, domain.NotifyAgencyApproved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return req, nil
}

// Reject closes a pending or approved request. Rejecting twice is a no-op.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	const op = "service.agency.Reject"

	req, err := s.setStatus(ctx, id,
		[]domain.AgencyRequestStatus{domain.AgencyPending, domain.AgencyApproved},
		domain.AgencyRejected, domain.NotifyAgencyRejected,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return req, nil
}

func (s *Service) setStatus(
	ctx context.Context,
	id uuid.UUID,
	from []domain.AgencyRequestStatus,
	to domain.AgencyRequestStatus,
	event domain.NotificationType,
) (*domain.AgencyRequest, error) {
	var out *domain.AgencyRequest

	err := s.uow.Do(ctx, func(ctx context.Context, after func(uow.AfterCommit)) error {
		req, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.Status == to {
			out = req
			return nil
		}

		allowed := false
		for _, f := range from {
			if req.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, to)
		}

		ok, err := s.requests.SetStatus(ctx, id, req.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, id)
		}

		req.Status = to
		out = req

		changed := *req
		after(func(ctx context.Context) {
			s.notify(ctx, event, &changed)
			s.metrics.AgencyTransition(string(to))
		})

		return nil
	})

	return out, err
}

func (s *Service) notify(ctx context.Context, t domain.NotificationType, req *domain.AgencyRequest) {
	if s.notifier == nil {
		return
	}

	id := req.ID
	n := domain.Notification{
		Type:          t,
		RequestID:     &id,
		ReservationID: req.ReservationID,
		ResourceID:    req.ResourceID,
		UserID:        req.RequesterID,
		TsUnix:        s.now().Unix(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn("notification failed",
			slog.String("type", string(t)),
			slog.String("request_id", id.String()),
			slog.Any("err", err),
		)
	}
}
