package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestPostgresMigrateAndRollback(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	dir := testhelpers.MigrationsDir()

	// Already applied by the helper; a second run is a no-op.
	require.NoError(t, database.RunMigrations(db, dir))
	var applied int64
	require.NoError(t, db.Table("schema_migrations").Count(&applied).Error)
	assert.EqualValues(t, 1, applied)
	assert.True(t, db.Migrator().HasTable(&models.Recipe{}))

	require.NoError(t, database.HealthCheck(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	name, err := database.Rollback(context.Background(), sqlDB, dir)
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)
	assert.False(t, db.Migrator().HasTable(&models.Recipe{}))

	_, err = database.Rollback(context.Background(), sqlDB, dir)
	assert.ErrorIs(t, err, database.ErrNothingToRollback)
}
