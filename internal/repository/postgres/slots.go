package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SlotRepo struct {
	pool *pgxpool.Pool
}

var slotColumns = []string{"id", "resource_id", "slot_date", "daypart", "status", "note", "created_at"}

// LockDay takes a transaction-scoped lock on (resourceID, date) so concurrent toggles
// for the same day run one after another.
func (r *SlotRepo) LockDay(ctx context.Context, resourceID int64, date time.Time) error {
	const op = "postgresrepo.SlotRepo.LockDay"

	key := fmt.Sprintf("slot:%d:%s", resourceID, date.Format(domain.DateFormat))
	if err := advisoryLock(ctx, handle(ctx, r.pool), key); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetByKey returns the slot identified by its natural key.
//
// Returns:
//   - error: repository.ErrNotFound if no such slot exists.
func (r *SlotRepo) GetByKey(
	ctx context.Context,
	resourceID int64,
	date time.Time,
	part domain.Daypart,
) (*domain.Slot, error) {
	const op = "postgresrepo.SlotRepo.GetByKey"

	query, args, err := psql.Select(slotColumns...).
		From("availability_slots").
		Where(sq.Eq{"resource_id": resourceID, "slot_date": date, "daypart": string(part)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := scanSlot(handle(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

func (r *SlotRepo) Insert(ctx context.Context, s *domain.Slot) error {
	const op = "postgresrepo.SlotRepo.Insert"

	err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO availability_slots(resource_id, slot_date, daypart, status, note)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		s.ResourceID, s.Date, string(s.Daypart), string(s.Status), s.Note,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SlotRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgresrepo.SlotRepo.Delete"

	tag, err := handle(ctx, r.pool).Exec(ctx, `DELETE FROM availability_slots WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// DeleteDayparts removes the slots of the given dayparts on (resourceID, date).
func (r *SlotRepo) DeleteDayparts(
	ctx context.Context,
	resourceID int64,
	date time.Time,
	parts []domain.Daypart,
) (int64, error) {
	const op = "postgresrepo.SlotRepo.DeleteDayparts"

	if len(parts) == 0 {
		return 0, nil
	}

	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = string(p)
	}

	query, args, err := psql.Delete("availability_slots").
		Where(sq.Eq{"resource_id": resourceID, "slot_date": date, "daypart": names}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := handle(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

// ListRange returns the slots of resourceIDs (all resources when empty) dated within [from, to].
func (r *SlotRepo) ListRange(
	ctx context.Context,
	resourceIDs []int64,
	from, to time.Time,
) ([]domain.Slot, error) {
	const op = "postgresrepo.SlotRepo.ListRange"

	b := psql.Select(slotColumns...).
		From("availability_slots").
		Where(sq.GtOrEq{"slot_date": from}).
		Where(sq.LtOrEq{"slot_date": to}).
		OrderBy("resource_id", "slot_date", "daypart")
	if len(resourceIDs) > 0 {
		b = b.Where(sq.Eq{"resource_id": resourceIDs})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := handle(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *SlotRepo) UpdateNote(ctx context.Context, id int64, note string) (*domain.Slot, error) {
	const op = "postgresrepo.SlotRepo.UpdateNote"

	s, err := scanSlot(handle(ctx, r.pool).QueryRow(ctx,
		`UPDATE availability_slots SET note = $2
		 WHERE id = $1
		 RETURNING id, resource_id, slot_date, daypart, status, note, created_at`,
		id, note,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

// Purge deletes slots dated before the given day, optionally for one resource only.
func (r *SlotRepo) Purge(ctx context.Context, resourceID *int64, before time.Time) (int64, error) {
	const op = "postgresrepo.SlotRepo.Purge"

	b := psql.Delete("availability_slots").Where(sq.Lt{"slot_date": before})
	if resourceID != nil {
		b = b.Where(sq.Eq{"resource_id": *resourceID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := handle(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func scanSlot(row pgx.Row) (*domain.Slot, error) {
	var s domain.Slot
	var part, status string

	if err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&s.Date,
		&part,
		&status,
		&s.Note,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}

	s.Daypart = domain.Daypart(part)
	s.Status = domain.SlotStatus(status)

	return &s, nil
}
