package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica (up) o revierte (down) el esquema embebido. steps = 0 aplica o revierte todo.
func Migrate(databaseURL, direction string, steps int) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("crear migrate: %w", err)
	}
	defer m.Close()

	switch {
	case direction == "up" && steps == 0:
		err = m.Up()
	case direction == "up":
		err = m.Steps(steps)
	case direction == "down" && steps == 0:
		err = m.Down()
	case direction == "down":
		err = m.Steps(-steps)
	default:
		return fmt.Errorf("dirección de migración inválida: %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}

// MigrationVersion devuelve la versión aplicada y si quedó en estado dirty.
func MigrationVersion(databaseURL string) (uint, bool, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("migrations source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return 0, false, fmt.Errorf("crear migrate: %w", err)
	}
	defer m.Close()
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
