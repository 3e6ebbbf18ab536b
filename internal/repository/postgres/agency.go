package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AgencyRepo struct {
	pool *pgxpool.Pool
}

var agencyColumns = []string{
	"id", "resource_id", "requester_id", "start_date", "end_date", "daypart", "passengers",
	"estimated_total_cents", "status", "reservation_id", "created_at", "updated_at",
}

func (r *AgencyRepo) Insert(ctx context.Context, req *domain.AgencyRequest) error {
	const op = "postgresrepo.AgencyRepo.Insert"

	err := handle(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO agency_requests(
			id, resource_id, requester_id, start_date, end_date, daypart, passengers,
			estimated_total_cents, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		req.ID, req.ResourceID, req.RequesterID, req.StartDate, req.EndDate, string(req.Daypart),
		req.Passengers, req.EstimatedTotalCents, string(req.Status),
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AgencyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	return r.get(ctx, "postgresrepo.AgencyRepo.GetByID", id, false)
}

func (r *AgencyRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.AgencyRequest, error) {
	return r.get(ctx, "postgresrepo.AgencyRepo.GetByIDForUpdate", id, true)
}

func (r *AgencyRepo) get(ctx context.Context, op string, id uuid.UUID, forUpdate bool) (*domain.AgencyRequest, error) {
	b := psql.Select(agencyColumns...).From("agency_requests").Where(sq.Eq{"id": id})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := scanAgencyRequest(handle(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return req, nil
}

// SetStatus moves a request from one status to another and reports whether it changed.
func (r *AgencyRepo) SetStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.AgencyRequestStatus,
) (bool, error) {
	const op = "postgresrepo.AgencyRepo.SetStatus"

	tag, err := handle(ctx, r.pool).Exec(ctx,
		`UPDATE agency_requests SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkConverted links an approved request to its reservation.
func (r *AgencyRepo) MarkConverted(ctx context.Context, id, reservationID uuid.UUID) (bool, error) {
	const op = "postgresrepo.AgencyRepo.MarkConverted"

	tag, err := handle(ctx, r.pool).Exec(ctx,
		`UPDATE agency_requests
		 SET status = $2, reservation_id = $3, updated_at = now()
		 WHERE id = $1 AND status = $4 AND reservation_id IS NULL`,
		id, string(domain.AgencyConverted), reservationID, string(domain.AgencyApproved),
	)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AgencyRepo) List(ctx context.Context, f domain.AgencyFilter) ([]domain.AgencyRequest, error) {
	const op = "postgresrepo.AgencyRepo.List"

	b := psql.Select(agencyColumns...).From("agency_requests").OrderBy("created_at DESC")
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.RequesterID != 0 {
		b = b.Where(sq.Eq{"requester_id": f.RequesterID})
	}
	if f.ResourceID != 0 {
		b = b.Where(sq.Eq{"resource_id": f.ResourceID})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
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

	var out []domain.AgencyRequest
	for rows.Next() {
		req, err := scanAgencyRequest(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func scanAgencyRequest(row pgx.Row) (*domain.AgencyRequest, error) {
	var req domain.AgencyRequest
	var part, status string

	if err := row.Scan(
		&req.ID,
		&req.ResourceID,
		&req.RequesterID,
		&req.StartDate,
		&req.EndDate,
		&part,
		&req.Passengers,
		&req.EstimatedTotalCents,
		&status,
		&req.ReservationID,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}

	req.Daypart = domain.Daypart(part)
	req.Status = domain.AgencyRequestStatus(status)

	return &req, nil
}
