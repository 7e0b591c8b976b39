package postgres

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratorLoadSortsAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"m/010_late.sql":  {Data: []byte("SELECT 10;")},
		"m/002_next.sql":  {Data: []byte("SELECT 2;")},
		"m/001_first.sql": {Data: []byte("SELECT 1;")},
		"m/README.md":     {Data: []byte("docs")},
		"m/notes.sql":     {Data: []byte("SELECT 0;")},
	}

	migrations, err := NewMigratorFS(nil, fsys, "m").Load()
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_first.sql", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, 10, migrations[2].Version)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	migrations, err := NewMigrator(nil).Load()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE procedures")
}

func TestMigratorUpSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"m/001_first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"m/002_second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
	}
	m := NewMigratorFS(sqlx.NewDb(db, "postgres"), fsys, "m")

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "applied_at"}).AddRow(1, time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE b`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs(2, "002_second.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
