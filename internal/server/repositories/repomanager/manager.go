// Package repomanager vends repository implementations bound to a DBTX and
// runs the embedded goose migrations for the configured driver.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/campuswall/internal/dbx"
	"github.com/dmitrijs2005/campuswall/internal/server/config"
	"github.com/dmitrijs2005/campuswall/internal/server/migrations"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/boxes"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/users"
	"github.com/dmitrijs2005/campuswall/internal/server/repositories/views"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Boxes(db dbx.DBTX) boxes.Repository
	Views(db dbx.DBTX) views.Repository
}

// SQLRepositoryManager serves both PostgreSQL and SQLite; the repositories
// share their SQL and only the migration set differs.
type SQLRepositoryManager struct {
	dialect string
	dir     string
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *SQLRepositoryManager) Boxes(db dbx.DBTX) boxes.Repository {
	return boxes.NewPostgresRepository(db)
}

func (m *SQLRepositoryManager) Views(db dbx.DBTX) views.Repository {
	return views.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("goose dialect error: %w", err)
	}
	if err := gooseUpContext(ctx, db, m.dir); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager returns a manager for the given database/sql driver
// name (config.DriverPostgres or config.DriverSQLite).
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case config.DriverPostgres:
		return &SQLRepositoryManager{dialect: "pgx", dir: "postgres"}, nil
	case config.DriverSQLite:
		return &SQLRepositoryManager{dialect: "sqlite3", dir: "sqlite"}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", driver)
}
