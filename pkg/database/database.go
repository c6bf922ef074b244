// Package database wraps standard library connections with the bun dialect
// matching their driver, so hosts hand the module a ready *bun.DB.
package database

import (
	"database/sql"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// New wraps an open connection with the dialect for the driver name.
// Postgres drivers map to the postgres dialect; everything else falls back
// to sqlite, which covers embedded and test deployments.
func New(sqldb *sql.DB, driver string) *bun.DB {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql", "pg", "pgx":
		return bun.NewDB(sqldb, pgdialect.New())
	default:
		return bun.NewDB(sqldb, sqlitedialect.New())
	}
}

// Open connects through database/sql and wraps the handle. The caller is
// responsible for importing the driver it names.
func Open(driver, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return New(sqldb, driver), nil
}
