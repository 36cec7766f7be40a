package database

import (
	"embed"
	"errors"
	"fmt"

	applog "taskflow/backend/internal/logger"
	"taskflow/backend/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; SQLite, used for local runs and tests, is auto-migrated from
// the models.
func (p *DatabasePool) Migrate(migrationURL string) error {
	if p.DB == nil {
		return errors.New("database not initialized")
	}
	if p.Driver() == DriverSQLite {
		return AutoMigrate(p)
	}
	return RunMigrations(migrationURL)
}

func AutoMigrate(p *DatabasePool) error {
	if err := p.DB.AutoMigrate(&models.User{}, &models.Category{}, &models.Task{}, &models.Token{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded SQL migrations against a pgx5:// URL.
func RunMigrations(migrationURL string) error {
	if migrationURL == "" {
		return errors.New("migration URL is required")
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			applog.Info("database schema is up to date")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	applog.Info("database migrations applied", "version", version, "dirty", dirty)
	return nil
}
