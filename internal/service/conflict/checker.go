package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/google/uuid"
)

type ReservationReader interface {
	ListLiveOverlapping(
		ctx context.Context,
		resourceID int64,
		from, to time.Time,
		excludeID uuid.UUID,
	) ([]domain.Reservation, error)
}

// Candidate is a prospective booking. ExcludeID is set when re-checking an existing
// reservation so it does not conflict with itself.
type Candidate struct {
	ResourceID int64
	From       time.Time
	To         time.Time
	Daypart    domain.Daypart
	ExcludeID  uuid.UUID
}

type Result struct {
	Conflict      bool
	ReservationID uuid.UUID
}

type Checker struct {
	reservations ReservationReader
}

func NewChecker(reservations ReservationReader) *Checker {
	return &Checker{reservations: reservations}
}

// Check looks for a live reservation of the same resource whose dates overlap the
// candidate's and whose daypart competes with it. Run it in the transaction that
// writes the reservation; a result read earlier is stale.
//
// Returns:
//   - Result: Conflict is set with the first conflicting reservation id.
//   - error: domain.ErrBadRange / domain.ErrInvalidDaypart on malformed candidates.
func (c *Checker) Check(ctx context.Context, cand Candidate) (Result, error) {
	const op = "service.conflict.Check"

	if !cand.Daypart.Valid() {
		return Result{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidDaypart)
	}
	if err := domain.ValidateRange(cand.From, cand.To); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := c.reservations.ListLiveOverlapping(ctx, cand.ResourceID, cand.From, cand.To, cand.ExcludeID)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range existing {
		if Overlaps(r, cand) {
			return Result{Conflict: true, ReservationID: r.ID}, nil
		}
	}

	return Result{}, nil
}

// Overlaps is the pure conflict rule between a stored reservation and a candidate.
func Overlaps(r domain.Reservation, cand Candidate) bool {
	if !r.Live() || r.ResourceID != cand.ResourceID || r.ID == cand.ExcludeID {
		return false
	}
	return domain.RangesOverlap(r.StartDate, r.EndDate, cand.From, cand.To) &&
		domain.Conflicts(r.Daypart, cand.Daypart)
}
