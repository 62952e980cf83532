// Package persistence implements the domain repositories over database/sql.
// Queries are written once and run on both PostgreSQL (pgx) and SQLite.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Options selects and tunes the relational engine.
type Options struct {
	Driver string

	// Postgres
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxConnLife time.Duration

	// SQLite; a file path or a "file:" URI.
	SQLitePath string
}

// DB is an open database plus the engine it talks to.
type DB struct {
	*sql.DB
	Driver string

	closeFn func()
}

// Close releases the database handle and any pool behind it.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.closeFn != nil {
		d.closeFn()
	}
	return err
}

// Open connects to the engine named by opts.Driver.
func Open(ctx context.Context, opts Options) (*DB, error) {
	switch opts.Driver {
	case DriverPostgres:
		pool, err := newPool(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &DB{DB: stdlib.OpenDBFromPool(pool), Driver: DriverPostgres, closeFn: pool.Close}, nil
	case DriverSQLite:
		db, err := sql.Open("sqlite3", sqliteDSN(opts.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite serializes writers; one connection avoids SQLITE_BUSY under load.
		db.SetMaxOpenConns(1)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlite: %w", err)
		}
		return &DB{DB: db, Driver: DriverSQLite}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isInvalidInput reports a value Postgres could not cast to the column type,
// such as a malformed UUID. No row can match such a value.
func isInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func pageLimit(n int) int {
	if n <= 0 {
		return defaultPageSize
	}
	return min(n, maxPageSize)
}

func now() time.Time { return time.Now().UTC() }
