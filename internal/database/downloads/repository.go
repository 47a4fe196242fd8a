// Package downloads provides database operations for background download
// progress tracking.
//
// This package implements the DownloadTracker interface used by the task
// processors and the HTTP download status endpoint.
//
// # Interface Implementation
//
//	var _ tasks.DownloadTracker = (*Repository)(nil)
//
// # Usage
//
//	repo := downloads.NewRepository(db)
//	progress, created, err := repo.CreateIfIdle(entities.DownloadKindTranslation, "KJV")
package downloads

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
)

// staleAfter is how long a running download may go without an update
// before it is considered interrupted.
const staleAfter = 10 * time.Minute

// Repository handles all download progress database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time

	// mu serializes CreateIfIdle within the process.
	mu sync.Mutex
}

// NewRepository creates a new downloads repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func newProgress(kind entities.DownloadKind, target string) *entities.DownloadProgress {
	return &entities.DownloadProgress{
		JobID:  uuid.New().String(),
		Kind:   kind,
		Target: target,
		Status: entities.DownloadStatusPending,
	}
}

// Get retrieves a download by job ID.
func (r *Repository) Get(jobID string) (*entities.DownloadProgress, error) {
	var progress entities.DownloadProgress
	err := r.db.Where("job_id = ?", jobID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Start marks a download as running.
func (r *Repository) Start(jobID string) error {
	now := r.now()
	return r.update(jobID, map[string]any{
		"status":     entities.DownloadStatusRunning,
		"progress":   0,
		"error":      "",
		"started_at": now,
		"updated_at": now,
	})
}

// UpdateProgress records the download percentage.
func (r *Repository) UpdateProgress(jobID string, progress int) error {
	return r.update(jobID, map[string]any{
		"progress":   progress,
		"updated_at": r.now(),
	})
}

// MarkInstalling records that the payload is downloaded and being written
// to the database.
func (r *Repository) MarkInstalling(jobID string) error {
	return r.update(jobID, map[string]any{
		"status":     entities.DownloadStatusInstalling,
		"progress":   100,
		"updated_at": r.now(),
	})
}

// Complete marks a download as completed, or failed when err is not nil.
func (r *Repository) Complete(jobID string, err error) error {
	now := r.now()
	updates := map[string]any{
		"status":       entities.DownloadStatusCompleted,
		"progress":     100,
		"updated_at":   now,
		"completed_at": now,
	}
	if err != nil {
		updates["status"] = entities.DownloadStatusFailed
		updates["error"] = err.Error()
		delete(updates, "progress")
	}
	return r.update(jobID, updates)
}

func (r *Repository) update(jobID string, updates map[string]any) error {
	return r.db.Model(&entities.DownloadProgress{}).
		Where("job_id = ?", jobID).
		Updates(updates).Error
}

// CreateIfIdle records a pending download unless one of the same kind and
// target is already in progress. It returns created=false with the live job
// in that case. A download not updated in 10 minutes is stale: it is marked
// failed and no longer blocks a new one.
func (r *Repository) CreateIfIdle(kind entities.DownloadKind, target string) (*entities.DownloadProgress, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		job     *entities.DownloadProgress
		created bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		live, err := r.findLive(tx, kind, target)
		if err != nil {
			return err
		}
		if live != nil {
			job = live
			return nil
		}

		job = newProgress(kind, target)
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return job, created, nil
}

// findLive returns the newest unfinished download of kind and target, or nil.
func (r *Repository) findLive(tx *gorm.DB, kind entities.DownloadKind, target string) (*entities.DownloadProgress, error) {
	var progress entities.DownloadProgress
	err := tx.Where("kind = ? AND target = ? AND status IN ?", kind, target, []entities.DownloadStatus{
		entities.DownloadStatusPending,
		entities.DownloadStatusRunning,
		entities.DownloadStatusInstalling,
	}).Order("updated_at DESC").First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if progress.UpdatedAt.Before(r.now().Add(-staleAfter)) {
		now := r.now()
		err := tx.Model(&entities.DownloadProgress{}).
			Where("job_id = ?", progress.JobID).
			Updates(map[string]any{
				"status":       entities.DownloadStatusFailed,
				"error":        "download was interrupted",
				"updated_at":   now,
				"completed_at": now,
			}).Error
		return nil, err
	}
	return &progress, nil
}

// List returns the most recent downloads, newest first.
func (r *Repository) List(limit int) ([]entities.DownloadProgress, error) {
	var downloads []entities.DownloadProgress
	query := r.db.Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&downloads).Error
	return downloads, err
}

// DeleteOlderThan removes finished downloads created before now minus retention.
func (r *Repository) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := r.now().Add(-retention)
	result := r.db.Where("created_at < ? AND status IN ?", cutoff, []entities.DownloadStatus{
		entities.DownloadStatusCompleted,
		entities.DownloadStatusFailed,
	}).Delete(&entities.DownloadProgress{})
	return result.RowsAffected, result.Error
}
