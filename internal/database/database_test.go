package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/entities"
)

func TestDatabaseInitialization(t *testing.T) {
	t.Run("NewDatabase creates database file", func(t *testing.T) {
		dbPath := "./init_test.db"
		defer os.Remove(dbPath)

		db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
		assert.NoError(t, db.Ping())
	})

	t.Run("NewDatabase creates every table", func(t *testing.T) {
		dbPath := "./tables_test.db"
		defer os.Remove(dbPath)

		db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db.Close()

		for _, model := range []any{
			&entities.Metadata{},
			&entities.TranslationInfo{},
			&entities.BookName{},
			&entities.VerseRow{},
			&entities.Bookmark{},
			&entities.Highlight{},
			&entities.Note{},
			&entities.ChapterReadingStatus{},
			&entities.StrongNumber{},
			&entities.StrongNumberVerse{},
			&entities.DownloadProgress{},
		} {
			assert.True(t, db.DB.Migrator().HasTable(model), "%T", model)
		}
	})

	t.Run("Reopening keeps data", func(t *testing.T) {
		dbPath := "./reopen_test.db"
		defer os.Remove(dbPath)

		db1, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		require.NoError(t, db1.DB.Create(&entities.Metadata{Key: entities.MetadataKeyCurrentTranslation, Value: "KJV"}).Error)
		require.NoError(t, db1.Close())

		db2, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)
		defer db2.Close()

		var row entities.Metadata
		require.NoError(t, db2.DB.Where("key = ?", entities.MetadataKeyCurrentTranslation).First(&row).Error)
		assert.Equal(t, "KJV", row.Value)
	})

	t.Run("Close closes database connection", func(t *testing.T) {
		dbPath := "./close_test.db"
		defer os.Remove(dbPath)

		db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
		require.NoError(t, err)

		assert.NoError(t, db.Close())
		assert.Error(t, db.Ping())
	})
}
