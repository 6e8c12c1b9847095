package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/gembill/internal/invoicestore"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

const (
	migrationsDir   = "sql"
	migrationsTable = "gembill_schema_migrations"
)

// Apply brings the invoice store schema up to date and reports the schema
// version (0 for dialects migrated from the gorm models). Postgres runs the
// versioned SQL files.
func Apply(conn *gorm.DB, dbType string) (uint, error) {
	if dbType != "postgres" {
		return 0, conn.AutoMigrate(invoicestore.Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return 0, err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(db *sql.DB) (uint, error) {
	if db == nil {
		return 0, errors.New("migration: nil database handle")
	}

	m, err := newMigrator(db)
	if err != nil {
		return 0, err
	}
	// m.Close would close db, which the store keeps using.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration: up: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: version: %w", err)
	case dirty:
		return version, fmt.Errorf("migration: schema version %d is dirty", version)
	}
	return version, nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("migration: open embedded files: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return nil, fmt.Errorf("migration: postgres driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "postgres", driver)
}
