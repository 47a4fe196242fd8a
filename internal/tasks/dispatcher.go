package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/joshua/internal/entities"
)

var (
	// ErrAlreadyQueued is returned when the same download is already pending or running.
	ErrAlreadyQueued = errors.New("download already queued")
	// ErrQueueDisabled is returned for task lookups while tasks run inline.
	ErrQueueDisabled = errors.New("task queue is disabled")
)

// InlineTaskID is reported for work started without the task queue.
const InlineTaskID = "inline"

// Dependencies are the services background tasks operate on.
type Dependencies struct {
	Downloads     DownloadStore
	Cleaner       DownloadCleaner
	Archives      ArchiveCleaner
	Translations  TranslationDownloader
	StrongNumbers StrongNumberDownloader
	Catalog       CatalogRefresher
	RetentionDays int
}

// Dispatcher starts background work on the task queue, or in a goroutine
// when client is nil.
type Dispatcher struct {
	client *Client
	deps   Dependencies

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(client *Client, deps Dependencies) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		client: client,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Queues returns every queue processed by the dispatcher, for Client.Register.
func (d *Dispatcher) Queues() []backlite.Queue {
	return []backlite.Queue{
		NewDownloadTranslationQueue(d.deps.Translations, d.deps.Downloads),
		NewDownloadStrongNumbersQueue(d.deps.StrongNumbers, d.deps.Downloads),
		NewRefreshCatalogQueue(d.deps.Catalog),
		NewCleanupDownloadsQueue(d.deps.Cleaner, d.deps.Archives),
	}
}

// QueueEnabled reports whether work goes through the persistent queue.
func (d *Dispatcher) QueueEnabled() bool {
	return d.client != nil
}

// DownloadTranslation creates a download record and starts the download.
func (d *Dispatcher) DownloadTranslation(shortName string) (*entities.DownloadProgress, error) {
	return d.startDownload(entities.DownloadKindTranslation, shortName, func(jobID string) backlite.Task {
		return DownloadTranslationTask{JobID: jobID, ShortName: shortName}
	}, func(ctx context.Context, jobID string) error {
		return DownloadTranslationProcessor(d.deps.Translations, d.deps.Downloads)(ctx,
			DownloadTranslationTask{JobID: jobID, ShortName: shortName})
	})
}

func (d *Dispatcher) DownloadStrongNumbers() (*entities.DownloadProgress, error) {
	return d.startDownload(entities.DownloadKindStrongNumbers, "", func(jobID string) backlite.Task {
		return DownloadStrongNumbersTask{JobID: jobID}
	}, func(ctx context.Context, jobID string) error {
		return DownloadStrongNumbersProcessor(d.deps.StrongNumbers, d.deps.Downloads)(ctx,
			DownloadStrongNumbersTask{JobID: jobID})
	})
}

func (d *Dispatcher) startDownload(
	kind entities.DownloadKind,
	target string,
	task func(jobID string) backlite.Task,
	inline func(ctx context.Context, jobID string) error,
) (*entities.DownloadProgress, error) {
	job, created, err := d.deps.Downloads.CreateIfIdle(kind, target)
	if err != nil {
		return nil, fmt.Errorf("create download record: %w", err)
	}
	if !created {
		return nil, ErrAlreadyQueued
	}

	if d.client == nil {
		d.goInline(func(ctx context.Context) error { return inline(ctx, job.JobID) })
		return job, nil
	}

	if _, err := d.client.Enqueue(task(job.JobID)); err != nil {
		if cerr := d.deps.Downloads.Complete(job.JobID, err); cerr != nil {
			log.Printf("[DOWNLOAD] Failed to mark job %s as failed: %v", job.JobID, cerr)
		}
		return nil, fmt.Errorf("enqueue download: %w", err)
	}
	return job, nil
}

// RefreshCatalog reloads the translation catalog in the background and
// returns the task ID.
func (d *Dispatcher) RefreshCatalog(force bool) (string, error) {
	task := RefreshCatalogTask{Force: force}
	return d.run(task, func(ctx context.Context) error {
		return RefreshCatalogProcessor(d.deps.Catalog)(ctx, task)
	})
}

// CleanupDownloads removes old download records and cached archives in the
// background and returns the task ID.
func (d *Dispatcher) CleanupDownloads() (string, error) {
	task := CleanupDownloadsTask{RetentionDays: d.deps.RetentionDays}
	return d.run(task, func(ctx context.Context) error {
		return CleanupDownloadsProcessor(d.deps.Cleaner, d.deps.Archives)(ctx, task)
	})
}

func (d *Dispatcher) run(task backlite.Task, inline func(ctx context.Context) error) (string, error) {
	if d.client == nil {
		d.goInline(inline)
		return InlineTaskID, nil
	}
	return d.client.Enqueue(task)
}

func (d *Dispatcher) goInline(fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := fn(d.ctx); err != nil {
			log.Printf("[TASK ERROR] %v", err)
		}
	}()
}

// Download returns a download record by job ID.
func (d *Dispatcher) Download(jobID string) (*entities.DownloadProgress, error) {
	return d.deps.Downloads.Get(jobID)
}

// Downloads returns the most recent download records.
func (d *Dispatcher) Downloads(limit int) ([]entities.DownloadProgress, error) {
	return d.deps.Downloads.List(limit)
}

// Status returns the status of a queued task.
func (d *Dispatcher) Status(ctx context.Context, taskID string) (string, error) {
	if d.client == nil {
		return "", ErrQueueDisabled
	}
	return d.client.Status(ctx, taskID)
}

// Shutdown cancels inline work and waits for it to return.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}

// Wait blocks until inline work finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
