package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm"

	"linkcook-go/internal/config"
	"linkcook-go/internal/repository/postgres"
	"linkcook-go/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; SQLite is created from the gorm models.
func Migrate(gormDB *gorm.DB, cfg config.DBConfig, log logger.Logger) error {
	if !postgres.IsPostgres(gormDB) {
		if err := gormDB.AutoMigrate(postgres.Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("db: schema synced from models")
		return nil
	}

	return migratePostgres(cfg.GetDSN(), log)
}

// migratePostgres uses its own connection because closing the migrator
// closes the database handle it was given.
func migratePostgres(dsn string, log logger.Logger) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration db: %w", err)
	}
	defer sqlDB.Close()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	log.Info("db: migrations applied", "version", version, "dirty", dirty)
	return nil
}
