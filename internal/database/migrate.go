package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// MigrationsDir is the golang-migrate source URL, relative to the working directory.
var MigrationsDir = "file://migrations"

// migrateLogger routes golang-migrate's progress lines to zerolog at debug level.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Debug().Str("component", "migrate").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrateLogger) Verbose() bool { return false }

func withMigrator(databaseURL string, fn func(m *migrate.Migrate) error) error {
	m, err := migrate.New(MigrationsDir, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{}

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// RunMigrations applies every pending up migration. An up-to-date schema is not an error.
func RunMigrations(databaseURL string) error {
	return withMigrator(databaseURL, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		log.Info().
			Uint("version", version).
			Bool("dirty", dirty).
			Str("source", MigrationsDir).
			Msg("schema up to date")
		return nil
	})
}

func RollbackMigrations(databaseURL string) error {
	return withMigrator(databaseURL, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil {
			return fmt.Errorf("rollback migrations: %w", err)
		}
		log.Info().Str("source", MigrationsDir).Msg("schema rolled back")
		return nil
	})
}
