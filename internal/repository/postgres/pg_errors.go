package postgresrepo

import (
	"errors"
	"fmt"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateExclusionViolation  = "23P01"
	sqlstateForeignKeyViolation = "23503"
	sqlstateCheckViolation      = "23514"
	sqlstateSerialization       = "40001"
	sqlstateDeadlock            = "40P01"
)

var sqlstateKinds = map[string]error{
	sqlstateUniqueViolation:     repository.ErrConflict,
	sqlstateExclusionViolation:  repository.ErrConflict,
	sqlstateForeignKeyViolation: repository.ErrNotFound,
	sqlstateCheckViolation:      repository.ErrInvalid,
}

// IsRetryable reports errors after which the whole transaction may be replayed.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlstateSerialization || pgErr.Code == sqlstateDeadlock
}

// translateDBErr turns driver errors into repository errors. Constraint
// violations keep the constraint name through *repository.ConstraintError.
func translateDBErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := sqlstateKinds[pgErr.Code]; ok {
			return &repository.ConstraintError{Constraint: pgErr.ConstraintName, Kind: kind}
		}
	}

	return err
}

func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, translateDBErr(err))
}
