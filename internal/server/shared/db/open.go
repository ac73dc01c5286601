// Package db opens the relational store for the configured driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/campuswall/internal/server/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const pingTimeout = 5 * time.Second

// sqliteParams are appended to every SQLite DSN. Timestamps are written in
// a fixed, lexically ordered format so viewed_at compares correctly.
var sqliteParams = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_time_format=sqlite",
}

// Open opens and pings a database handle. SQLite handles are limited to a
// single connection so writers serialize instead of failing with
// SQLITE_BUSY.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case config.DriverPostgres:
	case config.DriverSQLite:
		dsn = SQLiteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}

// SQLiteDSN adds the connection parameters the repositories rely on,
// leaving any the caller already set.
func SQLiteDSN(dsn string) string {
	var add []string
	for _, p := range sqliteParams {
		if !strings.Contains(dsn, p) {
			add = append(add, p)
		}
	}
	if len(add) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(add, "&")
}
