package downloads

import (
	"errors"
	"os"
	"sync"
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
	dbPath := "./test_downloads_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.DownloadProgress{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func create(t *testing.T, repo *Repository, kind entities.DownloadKind, target string) *entities.DownloadProgress {
	t.Helper()
	progress, created, err := repo.CreateIfIdle(kind, target)
	require.NoError(t, err)
	require.True(t, created)
	return progress
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	progress := create(t, repo, entities.DownloadKindTranslation, "KJV")
	assert.Len(t, progress.JobID, 36)

	stored, err := repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusPending, stored.Status)
	assert.Equal(t, "KJV", stored.Target)
	assert.Nil(t, stored.StartedAt)
}

func TestRepository_Lifecycle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	progress := create(t, repo, entities.DownloadKindTranslation, "KJV")

	require.NoError(t, repo.Start(progress.JobID))
	require.NoError(t, repo.UpdateProgress(progress.JobID, 42))

	stored, err := repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusRunning, stored.Status)
	assert.Equal(t, 42, stored.Progress)
	assert.NotNil(t, stored.StartedAt)

	require.NoError(t, repo.MarkInstalling(progress.JobID))
	stored, err = repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusInstalling, stored.Status)
	assert.Equal(t, 100, stored.Progress)

	require.NoError(t, repo.Complete(progress.JobID, nil))
	stored, err = repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusCompleted, stored.Status)
	assert.True(t, stored.IsFinished())
	assert.NotNil(t, stored.CompletedAt)
}

func TestRepository_Complete_Failure(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	progress := create(t, repo, entities.DownloadKindStrongNumbers, "")
	require.NoError(t, repo.Start(progress.JobID))
	require.NoError(t, repo.UpdateProgress(progress.JobID, 30))
	require.NoError(t, repo.Complete(progress.JobID, errors.New("connection reset")))

	stored, err := repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusFailed, stored.Status)
	assert.Equal(t, "connection reset", stored.Error)
	assert.Equal(t, 30, stored.Progress)
}

func TestRepository_CreateIfIdle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := create(t, repo, entities.DownloadKindTranslation, "KJV")
	require.NoError(t, repo.Start(first.JobID))

	live, created, err := repo.CreateIfIdle(entities.DownloadKindTranslation, "KJV")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.JobID, live.JobID)

	// Other targets and kinds are independent.
	create(t, repo, entities.DownloadKindTranslation, "ESV")
	create(t, repo, entities.DownloadKindStrongNumbers, "")

	require.NoError(t, repo.Complete(first.JobID, nil))
	second := create(t, repo, entities.DownloadKindTranslation, "KJV")
	assert.NotEqual(t, first.JobID, second.JobID)
}

func TestRepository_CreateIfIdle_Stale(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	progress := create(t, repo, entities.DownloadKindTranslation, "KJV")
	require.NoError(t, repo.Start(progress.JobID))

	repo.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	replacement := create(t, repo, entities.DownloadKindTranslation, "KJV")
	assert.NotEqual(t, progress.JobID, replacement.JobID)

	stored, err := repo.Get(progress.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusFailed, stored.Status)
	assert.Equal(t, "download was interrupted", stored.Error)
	assert.NotNil(t, stored.CompletedAt)
}

func TestRepository_CreateIfIdle_Concurrent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		jobIDs  = make(map[string]bool)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, ok, err := repo.CreateIfIdle(entities.DownloadKindTranslation, "KJV")
			assert.NoError(t, err)
			if err != nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			jobIDs[job.JobID] = true
			if ok {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, jobIDs, 1)

	all, err := repo.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	finished := create(t, repo, entities.DownloadKindTranslation, "KJV")
	require.NoError(t, repo.Complete(finished.JobID, nil))

	pending := create(t, repo, entities.DownloadKindTranslation, "ESV")

	repo.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	deleted, err := repo.DeleteOlderThan(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(finished.JobID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.Get(pending.JobID)
	assert.NoError(t, err)
}

func TestRepository_List(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, target := range []string{"A", "B", "C"} {
		create(t, repo, entities.DownloadKindTranslation, target)
	}

	downloads, err := repo.List(2)
	require.NoError(t, err)
	require.Len(t, downloads, 2)
	assert.Equal(t, "C", downloads[0].Target)
	assert.Equal(t, "B", downloads[1].Target)
}
