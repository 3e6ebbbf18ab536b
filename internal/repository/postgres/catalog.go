package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo reads boats and experiences. The catalog itself is maintained elsewhere.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

var resourceColumns = []string{
	"id", "kind", "name", "capacity", "price_full_cents", "price_am_cents", "price_pm_cents", "active",
}

func (r *CatalogRepo) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	const op = "postgresrepo.CatalogRepo.GetResource"

	query, args, err := psql.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := scanResource(handle(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// ListActive returns active resources, restricted to ids when given.
func (r *CatalogRepo) ListActive(ctx context.Context, ids []int64) ([]domain.Resource, error) {
	const op = "postgresrepo.CatalogRepo.ListActive"

	b := psql.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"active": true}).
		OrderBy("name")
	if len(ids) > 0 {
		b = b.Where(sq.Eq{"id": ids})
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

	var out []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
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

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	var kind string

	if err := row.Scan(
		&res.ID,
		&kind,
		&res.Name,
		&res.Capacity,
		&res.PriceFullCents,
		&res.PriceAMCents,
		&res.PricePMCents,
		&res.Active,
	); err != nil {
		return nil, err
	}

	res.Kind = domain.ResourceKind(kind)

	return &res, nil
}
