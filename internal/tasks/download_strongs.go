package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// StrongNumberDownloader downloads and installs Strong's numbers.
type StrongNumberDownloader interface {
	Download(ctx context.Context, progress chan<- int) error
}

type DownloadStrongNumbersTask struct {
	JobID string `json:"job_id"`
}

func (t DownloadStrongNumbersTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_strong_numbers",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func DownloadStrongNumbersProcessor(downloader StrongNumberDownloader, tracker DownloadTracker) backlite.QueueProcessor[DownloadStrongNumbersTask] {
	return func(ctx context.Context, task DownloadStrongNumbersTask) error {
		if downloader == nil || tracker == nil {
			return fmt.Errorf("strong number downloader not configured")
		}

		log.Printf("[TASK] Downloading Strong's numbers (job %s)", task.JobID)
		err := runTracked(tracker, task.JobID, func(progress chan<- int) error {
			return downloader.Download(ctx, progress)
		})
		if err != nil {
			return fmt.Errorf("download strong numbers: %w", err)
		}
		return nil
	}
}

func NewDownloadStrongNumbersQueue(downloader StrongNumberDownloader, tracker DownloadTracker) backlite.Queue {
	return backlite.NewQueue(DownloadStrongNumbersProcessor(downloader, tracker))
}
