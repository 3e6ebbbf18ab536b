// Package memory is an in-process implementation of the repositories. Transactions are
// serialised on a single mutex and rolled back by restoring a snapshot, which gives the
// same all-or-nothing behaviour the services rely on from postgres.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

type Store struct {
	mu sync.Mutex

	nextSlotID   int64
	slots        map[int64]domain.Slot
	reservations map[uuid.UUID]domain.Reservation
	requests     map[uuid.UUID]domain.AgencyRequest
	resources    map[int64]domain.Resource
	settings     *domain.Settings
	failures     map[string]error

	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		slots:        map[int64]domain.Slot{},
		reservations: map[uuid.UUID]domain.Reservation{},
		requests:     map[uuid.UUID]domain.AgencyRequest{},
		resources:    map[int64]domain.Resource{},
		failures:     map[string]error{},
		Now:          time.Now,
	}
}

func (s *Store) Slots() *SlotRepo               { return &SlotRepo{s: s} }
func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{s: s} }
func (s *Store) AgencyRequests() *AgencyRepo    { return &AgencyRepo{s: s} }
func (s *Store) Catalog() *CatalogRepo          { return &CatalogRepo{s: s} }
func (s *Store) Settings() *SettingsRepo        { return &SettingsRepo{s: s} }

// RunTx serialises fn against every other transaction and discards its writes on error.
func (s *Store) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}

	return nil
}

// AddResource seeds the catalog.
func (s *Store) AddResource(r domain.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID] = r
}

// PutSettings seeds the settings row.
func (s *Store) PutSettings(st domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &st
}

// FailOn makes the named operation return err until cleared with a nil error.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// ReservationCount is a test helper returning the number of stored reservations.
func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

// AllSlots is a test helper returning every stored slot.
func (s *Store) AllSlots() []domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, sl)
	}
	return out
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// enter locks the store for a single statement issued outside a transaction.
func (s *Store) enter(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

type snapshot struct {
	nextSlotID   int64
	slots        map[int64]domain.Slot
	reservations map[uuid.UUID]domain.Reservation
	requests     map[uuid.UUID]domain.AgencyRequest
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		nextSlotID:   s.nextSlotID,
		slots:        maps.Clone(s.slots),
		reservations: maps.Clone(s.reservations),
		requests:     maps.Clone(s.requests),
	}
}

func (s *Store) restore(snap snapshot) {
	s.nextSlotID = snap.nextSlotID
	s.slots = snap.slots
	s.reservations = snap.reservations
	s.requests = snap.requests
}
