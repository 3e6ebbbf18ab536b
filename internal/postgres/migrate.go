package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
)

// VersionTable records the applied schema version.
const VersionTable = "schema_version"

// MigrationResult reports the schema version before and after a run.
type MigrationResult struct {
	From int32
	To   int32
}

// Migrate brings the schema to the latest migration found in fsys.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, log *slog.Logger) (MigrationResult, error) {
	return migrateTo(ctx, pool, fsys, log, "postgres.Migrate", func(_, latest int32) int32 {
		return latest
	})
}

// Rollback reverts the most recent applied migration. It is a no-op on an empty schema.
func Rollback(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, log *slog.Logger) (MigrationResult, error) {
	return migrateTo(ctx, pool, fsys, log, "postgres.Rollback", func(current, _ int32) int32 {
		if current == 0 {
			return 0
		}
		return current - 1
	})
}

func migrateTo(
	ctx context.Context,
	pool *pgxpool.Pool,
	fsys fs.FS,
	log *slog.Logger,
	op string,
	target func(current, latest int32) int32,
) (MigrationResult, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer conn.Release()

	m, err := NewMigrator(ctx, conn.Conn(), fsys, log)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	current, err := m.GetCurrentVersion(ctx)
	if isUndefinedTable(err) {
		current, err = 0, nil
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := MigrationResult{From: current, To: target(current, int32(len(m.Migrations)))}
	if res.To == res.From {
		return res, nil
	}
	if err := m.MigrateTo(ctx, res.To); err != nil {
		return MigrationResult{From: current}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// isUndefinedTable reports a fresh database, where tern has not created its version table yet.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

// NewMigrator loads the migrations of fsys. Files are named NNN_name.sql with the
// down section after a "---- create above / drop below ----" line.
func NewMigrator(ctx context.Context, conn *pgx.Conn, fsys fs.FS, log *slog.Logger) (*migrate.Migrator, error) {
	m, err := migrate.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return nil, err
	}
	if err := m.LoadMigrations(fsys); err != nil {
		return nil, err
	}

	if log != nil {
		m.OnStart = func(sequence int32, name, direction, _ string) {
			log.Info("applying migration",
				slog.Int("version", int(sequence)),
				slog.String("name", name),
				slog.String("direction", direction),
			)
		}
	}

	return m, nil
}
