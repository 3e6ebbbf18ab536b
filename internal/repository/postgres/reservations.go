package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
}

var reservationColumns = []string{
	"id", "resource_id", "holder_id", "start_date", "end_date", "daypart", "passengers",
	"total_cents", "deposit_cents", "deposit_percent", "remaining_cents", "currency",
	"status", "price_locked", "payment_session_id", "payment_intent_id", "metadata",
	"created_at", "deposit_paid_at", "completed_at", "cancelled_at",
}

// LockResource serialises reservation writers for one resource until the transaction ends.
func (r *ReservationRepo) LockResource(ctx context.Context, resourceID int64) error {
	const op = "postgresrepo.ReservationRepo.LockResource"

	if err := advisoryLock(ctx, handle(ctx, r.pool), fmt.Sprintf("resource:%d", resourceID)); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Insert persists a new reservation.
//
// Returns:
//   - error: repository.ErrConflict if the exclusion constraint rejects an overlap.
func (r *ReservationRepo) Insert(ctx context.Context, res *domain.Reservation) error {
	const op = "postgresrepo.ReservationRepo.Insert"

	meta, err := json.Marshal(res.Metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO reservations(
			id, resource_id, holder_id, start_date, end_date, daypart, passengers,
			total_cents, deposit_cents, deposit_percent, remaining_cents, currency,
			status, price_locked, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at`,
		res.ID, res.ResourceID, res.HolderID, res.StartDate, res.EndDate, string(res.Daypart), res.Passengers,
		res.TotalCents, res.DepositCents, res.DepositPercent, res.RemainingCents, res.Currency,
		string(res.Status), res.PriceLocked, meta,
	).Scan(&res.CreatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return r.get(ctx, "postgresrepo.ReservationRepo.GetByID", id, false)
}

// GetByIDForUpdate reads the reservation and row-locks it for the rest of the transaction.
func (r *ReservationRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return r.get(ctx, "postgresrepo.ReservationRepo.GetByIDForUpdate", id, true)
}

func (r *ReservationRepo) get(ctx context.Context, op string, id uuid.UUID, forUpdate bool) (*domain.Reservation, error) {
	b := psql.Select(reservationColumns...).From("reservations").Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := scanReservation(handle(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// ListLiveOverlapping returns non-cancelled reservations of resourceID whose date range
// intersects [from, to]. Daypart filtering is left to the caller.
func (r *ReservationRepo) ListLiveOverlapping(
	ctx context.Context,
	resourceID int64,
	from, to time.Time,
	excludeID uuid.UUID,
) ([]domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.ListLiveOverlapping"

	b := psql.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"resource_id": resourceID}).
		Where(sq.NotEq{"status": string(domain.StatusCancelled)}).
		Where(sq.LtOrEq{"start_date": to}).
		Where(sq.GtOrEq{"end_date": from}).
		OrderBy("start_date")
	if excludeID != uuid.Nil {
		b = b.Where(sq.NotEq{"id": excludeID})
	}

	return r.list(ctx, op, b)
}

// ListLiveInRange returns non-cancelled reservations for resourceIDs (all when empty)
// intersecting [from, to].
func (r *ReservationRepo) ListLiveInRange(
	ctx context.Context,
	resourceIDs []int64,
	from, to time.Time,
) ([]domain.Reservation, error) {
	const op = "postgresrepo.ReservationRepo.ListLiveInRange"

	b := psql.Select(reservationColumns...).
		From("reservations").
		Where(sq.NotEq{"status": string(domain.StatusCancelled)}).
		Where(sq.LtOrEq{"start_date": to}).
		Where(sq.GtOrEq{"end_date": from})
	if len(resourceIDs) > 0 {
		b = b.Where(sq.Eq{"resource_id": resourceIDs})
	}

	return r.list(ctx, op, b)
}

// MarkDepositPaid moves a pending reservation to deposit_paid. It only writes when no
// payment timestamp is recorded yet and reports whether a row changed.
func (r *ReservationRepo) MarkDepositPaid(
	ctx context.Context,
	id uuid.UUID,
	refs domain.PaymentRefs,
	at time.Time,
) (bool, error) {
	const op = "postgresrepo.ReservationRepo.MarkDepositPaid"

	tag, err := handle(ctx, r.pool).Exec(ctx,
		`UPDATE reservations
		 SET status = $2,
		     deposit_paid_at = $3,
		     payment_session_id = CASE WHEN $4 = '' THEN payment_session_id ELSE $4 END,
		     payment_intent_id = CASE WHEN $5 = '' THEN payment_intent_id ELSE $5 END
		 WHERE id = $1
		   AND status = $6
		   AND deposit_paid_at IS NULL`,
		id, string(domain.StatusDepositPaid), at, refs.SessionID, refs.PaymentIntentID,
		string(domain.StatusPendingDeposit),
	)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetStatus writes a status transition guarded by the expected current status.
// The matching timestamp column is set for completed and cancelled.
func (r *ReservationRepo) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.ReservationStatus,
	at time.Time,
) (bool, error) {
	const op = "postgresrepo.ReservationRepo.SetStatus"

	b := psql.Update("reservations").
		Set("status", string(to)).
		Where(sq.Eq{"id": id, "status": string(from)})

	switch to {
	case domain.StatusCompleted:
		b = b.Set("completed_at", at)
	case domain.StatusCancelled:
		b = b.Set("cancelled_at", at)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := handle(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepo) SetPaymentSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	const op = "postgresrepo.ReservationRepo.SetPaymentSession"

	tag, err := handle(ctx, r.pool).Exec(ctx,
		`UPDATE reservations SET payment_session_id = $2 WHERE id = $1`,
		id, sessionID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// DeletePending hard-deletes a reservation that is still awaiting its deposit.
//
// Returns:
//   - error: repository.ErrNotFound if no pending reservation with this id exists.
func (r *ReservationRepo) DeletePending(ctx context.Context, id uuid.UUID) error {
	const op = "postgresrepo.ReservationRepo.DeletePending"

	tag, err := handle(ctx, r.pool).Exec(ctx,
		`DELETE FROM reservations
		 WHERE id = $1 AND status = $2 AND deposit_paid_at IS NULL`,
		id, string(domain.StatusPendingDeposit),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *ReservationRepo) list(ctx context.Context, op string, b sq.SelectBuilder) ([]domain.Reservation, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := handle(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var part, status string
	var meta []byte

	if err := row.Scan(
		&res.ID,
		&res.ResourceID,
		&res.HolderID,
		&res.StartDate,
		&res.EndDate,
		&part,
		&res.Passengers,
		&res.TotalCents,
		&res.DepositCents,
		&res.DepositPercent,
		&res.RemainingCents,
		&res.Currency,
		&status,
		&res.PriceLocked,
		&res.PaymentSessionID,
		&res.PaymentIntentID,
		&meta,
		&res.CreatedAt,
		&res.DepositPaidAt,
		&res.CompletedAt,
		&res.CancelledAt,
	); err != nil {
		return nil, err
	}

	res.Daypart = domain.Daypart(part)
	res.Status = domain.ReservationStatus(status)

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &res.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return &res, nil
}
