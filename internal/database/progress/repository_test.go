package progress

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_progress_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Metadata{}, &entities.ChapterReadingStatus{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_TrackChapter(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	require.NoError(t, repo.TrackChapter(0, 0, 30*time.Second, first))
	require.NoError(t, repo.TrackChapter(0, 0, 15*time.Second, second))
	require.NoError(t, repo.TrackChapter(1, 3, 5*time.Second, second))

	status, err := repo.ReadChapter(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, status.ReadCount)
	assert.Equal(t, int64(45000), status.TimeSpentInMillis)
	assert.True(t, status.LastReadingTimestamp.Equal(second))

	statuses, err := repo.ReadChapterStatus()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, 0, statuses[0].BookIndex)
	assert.Equal(t, 1, statuses[1].BookIndex)
	assert.Equal(t, 3, statuses[1].ChapterIndex)
}

func TestRepository_ReadChapter_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.ReadChapter(5, 5)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepository_Streak(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	days, last, err := repo.ReadStreak()
	require.NoError(t, err)
	assert.Zero(t, days)
	assert.True(t, last.IsZero())

	now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SaveStreak(4, now))

	days, last, err = repo.ReadStreak()
	require.NoError(t, err)
	assert.Equal(t, 4, days)
	assert.True(t, last.Equal(now))
}
