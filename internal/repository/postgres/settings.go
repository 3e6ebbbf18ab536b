package postgresrepo

import (
	"context"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

// Get reads the singleton settings row.
//
// Returns:
//   - error: repository.ErrNotFound when the row has never been written.
func (r *SettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	const op = "postgresrepo.SettingsRepo.Get"

	var s domain.Settings
	err := handle(ctx, r.pool).QueryRow(ctx,
		`SELECT deposit_percent, half_day_basis_points, currency, payment_mode,
		        single_day_full_relaxed
		 FROM settings WHERE id = 1`,
	).Scan(
		&s.DepositPercent,
		&s.HalfDayBasisPoints,
		&s.Currency,
		&s.PaymentMode,
		&s.SingleDayFullRelaxed,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}
