package tasks

import (
	"log"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
)

// DownloadTracker persists the progress of one download job.
type DownloadTracker interface {
	Start(jobID string) error
	UpdateProgress(jobID string, progress int) error
	MarkInstalling(jobID string) error
	Complete(jobID string, err error) error
}

// DownloadStore creates and looks up download jobs.
type DownloadStore interface {
	DownloadTracker
	// CreateIfIdle atomically records a pending job unless one of the same
	// kind and target is in progress, in which case created is false.
	CreateIfIdle(kind entities.DownloadKind, target string) (job *entities.DownloadProgress, created bool, err error)
	Get(jobID string) (*entities.DownloadProgress, error)
	List(limit int) ([]entities.DownloadProgress, error)
}

// DownloadCleaner removes finished download records.
type DownloadCleaner interface {
	DeleteOlderThan(retention time.Duration) (int64, error)
}

// ArchiveCleaner removes cached archives.
type ArchiveCleaner interface {
	RemoveOlderThan(age time.Duration) (int, error)
}

// runTracked runs download while mirroring its progress into tracker.
// A progress value of 100 marks the job as installing.
func runTracked(tracker DownloadTracker, jobID string, download func(progress chan<- int) error) error {
	if err := tracker.Start(jobID); err != nil {
		log.Printf("[DOWNLOAD] Failed to mark job %s as running: %v", jobID, err)
	}

	progress := make(chan int, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		last := -1
		for value := range progress {
			if value == last {
				continue
			}
			last = value

			var err error
			if value >= 100 {
				err = tracker.MarkInstalling(jobID)
			} else {
				err = tracker.UpdateProgress(jobID, value)
			}
			if err != nil {
				log.Printf("[DOWNLOAD] Failed to record progress of job %s: %v", jobID, err)
			}
		}
	}()

	err := download(progress)
	close(progress)
	<-done

	if cerr := tracker.Complete(jobID, err); cerr != nil {
		log.Printf("[DOWNLOAD] Failed to complete job %s: %v", jobID, cerr)
	}
	return err
}
