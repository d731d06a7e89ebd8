package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"gorm.io/gorm"
)

const rollbackSuffix = "_rollback.sql"

// ErrNoMigrations is returned by Rollback when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to rollback")

// Migrator applies the numbered SQL files in a directory to PostgreSQL and records each one
// in schema_migrations. A file named NNNN_name.sql is undone by NNNN_name_rollback.sql.
type Migrator struct {
	db  *sql.DB
	dir string
	log *logger.Logger
}

func NewMigrator(db *sql.DB, dir string, log *logger.Logger) *Migrator {
	return &Migrator{db: db, dir: dir, log: log}
}

// Migrate brings the schema up to date. SQLite databases (tests, local runs) are built from the
// gorm models instead of the SQL files, which use PostgreSQL-only types.
func Migrate(ctx context.Context, db *gorm.DB, dir string, log *logger.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Debug("using gorm auto-migration for sqlite")
		return db.WithContext(ctx).AutoMigrate(models.All()...)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	_, err = NewMigrator(sqlDB, dir, log).Up(ctx)
	return err
}

// Up applies every pending migration in file name order and returns the names it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	files, err := m.files()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		version := migrationVersion(file)

		var exists bool
		err := m.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			m.log.Debug("migration already applied", "file", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, file))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		err = m.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", file, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", version, file); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", file, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		m.log.Info("applied migration", "file", file)
		applied = append(applied, file)
	}
	return applied, nil
}

// Rollback undoes the most recently applied migration using its _rollback.sql companion.
func (m *Migrator) Rollback(ctx context.Context) (string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return "", err
	}

	var version, name string
	err := m.db.QueryRowContext(ctx,
		"SELECT version, name FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&version, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMigrations
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackPath := filepath.Join(m.dir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file %s: %w", rollbackPath, err)
	}

	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	m.log.Info("rolled back migration", "file", name)
	return name, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(32) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// files lists the forward migrations in apply order.
func (m *Migrator) files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

func (m *Migrator) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// migrationVersion is the numeric prefix of a migration file name: "0001_init.sql" -> "0001".
func migrationVersion(file string) string {
	version, _, _ := strings.Cut(file, "_")
	return strings.TrimSuffix(version, ".sql")
}
