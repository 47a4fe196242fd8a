package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupDownloadsTask removes finished download records and cached
// archives older than the retention period.
type CleanupDownloadsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupDownloadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_downloads",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupDownloadsProcessor creates the processor; archives may be nil when
// archive caching is off.
func CleanupDownloadsProcessor(downloads DownloadCleaner, archives ArchiveCleaner) backlite.QueueProcessor[CleanupDownloadsTask] {
	return func(ctx context.Context, task CleanupDownloadsTask) error {
		if downloads == nil {
			return fmt.Errorf("download cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 7
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := downloads.DeleteOlderThan(retention)
		if err != nil {
			return fmt.Errorf("cleanup download records: %w", err)
		}

		removed := 0
		if archives != nil {
			removed, err = archives.RemoveOlderThan(retention)
			if err != nil {
				return fmt.Errorf("cleanup cached archives: %w", err)
			}
		}

		log.Printf("[TASK] Cleaned up %d download records and %d cached archives older than %d days",
			deleted, removed, retentionDays)
		return nil
	}
}

func NewCleanupDownloadsQueue(downloads DownloadCleaner, archives ArchiveCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupDownloadsProcessor(downloads, archives))
}
