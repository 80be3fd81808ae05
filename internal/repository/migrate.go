package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// runMigrations применяет встроенные миграции диалекта. Для миграций
// открывается отдельное соединение: migrate закрывает его в Close.
func runMigrations(d dialect, dsn string) error {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	var driver database.Driver
	switch d.name {
	case "sqlite":
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case "postgres":
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, d.name)
	}
	if err != nil {
		return fmt.Errorf("create %s migration driver: %w", d.name, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+d.name)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
