package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"panelsync/internal/infrastructure/persistence/models"
	"panelsync/internal/shared/logger"
)

func TestManager_SqliteUsesAutoMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m := NewManager(db, logger.NewNopLogger())
	assert.Equal(t, "gorm_auto_migrate", m.GetStrategy().GetName())

	require.NoError(t, m.Migrate(db))
	for _, model := range AutoMigrateModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}
	assert.True(t, db.Migrator().HasIndex(&models.SystemSettingModel{}, "idx_category_key"))
}

func TestEmbeddedScripts(t *testing.T) {
	entries, err := embeddedScripts.ReadDir(embeddedScriptsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}
