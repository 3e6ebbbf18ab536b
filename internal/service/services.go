package service

import (
	"log/slog"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/metrics"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/payments"
	redisrepo "github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository/redis"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/agency"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/availability"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/conflict"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/payment"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/reservation"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/settings"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/service/slots"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/uow"
)

type Services struct {
	Slots        *slots.Service
	Availability *availability.Service
	Reservation  *reservation.Service
	Agency       *agency.Service
	Reconciler   *payment.Reconciler
	Checkout     *payment.Checkout
}

type SlotRepository interface {
	slots.SlotRepository
	availability.SlotReader
}

type ReservationRepository interface {
	reservation.ReservationRepository
	availability.ReservationReader
	conflict.ReservationReader
}

type CatalogRepository interface {
	reservation.Catalog
	availability.Catalog
}

// Repositories is implemented by both the postgres and the in-memory store.
type Repositories struct {
	Tx             uow.TxRunner
	Slots          SlotRepository
	Reservations   ReservationRepository
	AgencyRequests agency.RequestRepository
	Catalog        CatalogRepository
	Settings       settings.Reader
}

// Infra holds optional collaborators. Nil fields disable the matching feature.
type Infra struct {
	Cache    *redisrepo.Cache
	Notifier reservation.Notifier
	Limiter  reservation.Limiter
	Gateway  payments.Gateway
	Metrics  *metrics.Metrics
}

type Config struct {
	Availability availability.Config
	Defaults     domain.Settings
}

func NewServices(repos Repositories, infra Infra, cfg Config, log *slog.Logger) *Services {
	u := uow.NewUoW(repos.Tx)
	policy := settings.NewProvider(repos.Settings, cfg.Defaults)
	checker := conflict.NewChecker(repos.Reservations)

	// a nil *Cache must not leak into the interfaces as a non-nil value
	var invalidator reservation.Invalidator
	if infra.Cache != nil {
		invalidator = infra.Cache
	}

	bookings := reservation.New(u, reservation.Deps{
		Reservations: repos.Reservations,
		Catalog:      repos.Catalog,
		Settings:     policy,
		Checker:      checker,
		Notifier:     infra.Notifier,
		Cache:        invalidator,
		Limiter:      infra.Limiter,
		Metrics:      infra.Metrics,
	}, log)

	return &Services{
		Slots:        slots.New(u, repos.Slots, invalidator, log),
		Availability: availability.New(repos.Catalog, repos.Slots, repos.Reservations, policy, infra.Cache, cfg.Availability, log),
		Reservation:  bookings,
		Agency: agency.New(u, agency.Deps{
			Requests:     repos.AgencyRequests,
			Catalog:      repos.Catalog,
			Settings:     policy,
			Checker:      checker,
			Lifecycle:    bookings,
			Reservations: repos.Reservations,
			Notifier:     infra.Notifier,
			Metrics:      infra.Metrics,
		}, log),
		Reconciler: payment.NewReconciler(repos.Reservations, bookings, infra.Metrics, log),
		Checkout:   payment.NewCheckout(bookings, policy, infra.Gateway, log),
	}
}
