package persistence

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	litemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the embedded migrations for the engine of db.
// Postgres migrations run on a short-lived connection opened from dsn.
func Migrate(db *DB, dsn string, logger *logrus.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/"+db.Driver)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var m *migrate.Migrate
	switch db.Driver {
	case DriverPostgres:
		conn, err := sql.Open("pgx", dsn)
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		driver, err := pgmigrate.WithInstance(conn, &pgmigrate.Config{})
		if err != nil {
			return err
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			return err
		}
		// Releases the migration conn and its advisory lock session.
		defer func() { _, _ = m.Close() }()
	case DriverSQLite:
		// The sqlite3 driver closes its *sql.DB on m.Close, so m is not closed here.
		driver, err := litemigrate.WithInstance(db.DB, &litemigrate.Config{})
		if err != nil {
			return err
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
