package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// TranslationDownloader downloads and installs a translation.
type TranslationDownloader interface {
	DownloadTranslation(ctx context.Context, shortName string, progress chan<- int) error
}

// DownloadTranslationTask downloads one translation. JobID refers to the
// download record tracking its progress.
type DownloadTranslationTask struct {
	JobID     string `json:"job_id"`
	ShortName string `json:"short_name"`
}

// Config returns the queue configuration. A failed download is not retried
// automatically; the user starts it again.
func (t DownloadTranslationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_translation",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func DownloadTranslationProcessor(downloader TranslationDownloader, tracker DownloadTracker) backlite.QueueProcessor[DownloadTranslationTask] {
	return func(ctx context.Context, task DownloadTranslationTask) error {
		if downloader == nil || tracker == nil {
			return fmt.Errorf("translation downloader not configured")
		}

		log.Printf("[TASK] Downloading translation %s (job %s)", task.ShortName, task.JobID)
		err := runTracked(tracker, task.JobID, func(progress chan<- int) error {
			return downloader.DownloadTranslation(ctx, task.ShortName, progress)
		})
		if err != nil {
			return fmt.Errorf("download translation %s: %w", task.ShortName, err)
		}
		return nil
	}
}

func NewDownloadTranslationQueue(downloader TranslationDownloader, tracker DownloadTracker) backlite.Queue {
	return backlite.NewQueue(DownloadTranslationProcessor(downloader, tracker))
}
