package postgres

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrator_LoadsEmbeddedSchema(t *testing.T) {
	m, err := NewMigrator(context.Background(), nil, migrations.FS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, m.Migrations)

	first := m.Migrations[0]
	assert.Equal(t, int32(1), first.Sequence)
	assert.Equal(t, "001_init.sql", first.Name)
	assert.Contains(t, first.UpSQL, "CREATE TABLE IF NOT EXISTS reservations")
	assert.Contains(t, first.UpSQL, "EXCLUDE USING gist")
	assert.Contains(t, first.DownSQL, "DROP TABLE IF EXISTS reservations")
}

func TestNewMigrator_SplitsUpAndDown(t *testing.T) {
	fsys := fstest.MapFS{
		"002_fees.sql": {Data: []byte("ALTER TABLE settings ADD COLUMN fee INT;\n---- create above / drop below ----\nALTER TABLE settings DROP COLUMN fee;\n")},
		"001_init.sql": {Data: []byte("CREATE TABLE t (id INT);\n---- create above / drop below ----\nDROP TABLE t;\n")},
		"README.md":    {Data: []byte("x")},
	}

	m, err := NewMigrator(context.Background(), nil, fsys, nil)
	require.NoError(t, err)
	require.Len(t, m.Migrations, 2)
	assert.Equal(t, "001_init.sql", m.Migrations[0].Name)
	assert.Equal(t, "002_fees.sql", m.Migrations[1].Name)
	assert.Contains(t, m.Migrations[1].DownSQL, "DROP COLUMN fee")
	assert.NotContains(t, m.Migrations[1].UpSQL, "DROP COLUMN")
}

func TestNewMigrator_RejectsSequenceGap(t *testing.T) {
	fsys := fstest.MapFS{
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"003_later.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := NewMigrator(context.Background(), nil, fsys, nil)
	require.Error(t, err)
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, isUndefinedTable(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "42P01"})))
	assert.False(t, isUndefinedTable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUndefinedTable(nil))
}
