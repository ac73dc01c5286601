// Package repotest provides a migrated in-memory SQLite database for
// repository and service tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/campuswall/internal/server/migrations"
	serverdb "github.com/dmitrijs2005/campuswall/internal/server/shared/db"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// NewSQLite returns a fresh database with the full schema applied. It uses a
// single connection, so it must not be shared between parallel tests.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", serverdb.SQLiteDSN(":memory:"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "sqlite"))

	return db
}

// SeedUser inserts a bare user row and returns its id.
func SeedUser(t testing.TB, db *sql.DB, phone string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO users (phone_number, password_hash) VALUES ($1, $2) RETURNING user_id`, phone, "x").Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedUniversity inserts a university and returns its id.
func SeedUniversity(t testing.TB, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO universities (university_name) VALUES ($1) RETURNING university_id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedBox inserts a box owned by ownerID and returns its id.
func SeedBox(t testing.TB, db *sql.DB, ownerID int64, title string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO blind_boxes (user_id, title) VALUES ($1, $2) RETURNING box_id`, ownerID, title).Scan(&id)
	require.NoError(t, err)
	return id
}
