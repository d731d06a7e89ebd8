package database_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/database"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/models"
	"github.com/pageza/alchemorsel-mealplanner/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLiteCreatesEveryTable(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.NoError(t, database.HealthCheck(db)(context.Background()))
}

func TestMigrationFilesArePaired(t *testing.T) {
	dir := testhelpers.MigrationsDir()
	forward, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, forward)

	for _, path := range forward {
		name := filepath.Base(path)
		if strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		rollback := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
		_, err := os.Stat(rollback)
		assert.NoError(t, err, "%s has no rollback file", name)
	}
}

func TestMigratorUpAndRollback(t *testing.T) {
	db := testhelpers.NewPostgresDB(t)
	ctx := context.Background()

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	var settings models.AppSettings
	require.NoError(t, db.First(&settings, models.SettingsRowID).Error)
	assert.Equal(t, models.DefaultAppSettings().RotationPeriodDays, settings.RotationPeriodDays)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	migrator := database.NewMigrator(sqlDB, testhelpers.MigrationsDir(), logger.Nop())

	applied, err := migrator.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run should be a no-op")

	name, err := migrator.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, db.Migrator().HasTable(&models.Recipe{}))

	_, err = migrator.Rollback(ctx)
	assert.ErrorIs(t, err, database.ErrNoMigrations)

	applied, err = migrator.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, applied)
}
