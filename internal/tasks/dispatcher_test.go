package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
)

// memoryDownloads keeps download records in memory.
type memoryDownloads struct {
	mu       sync.Mutex
	jobs     map[string]*entities.DownloadProgress
	history  map[string][]int
	deleted  time.Duration
	failures map[string]string
}

func newMemoryDownloads() *memoryDownloads {
	return &memoryDownloads{
		jobs:     make(map[string]*entities.DownloadProgress),
		history:  make(map[string][]int),
		failures: make(map[string]string),
	}
}

func (m *memoryDownloads) CreateIfIdle(kind entities.DownloadKind, target string) (*entities.DownloadProgress, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.Kind == kind && job.Target == target && !job.IsFinished() {
			copied := *job
			return &copied, false, nil
		}
	}
	job := &entities.DownloadProgress{
		JobID:  uuid.New().String(),
		Kind:   kind,
		Target: target,
		Status: entities.DownloadStatusPending,
	}
	m.jobs[job.JobID] = job
	copied := *job
	return &copied, true, nil
}

func (m *memoryDownloads) Get(jobID string) (*entities.DownloadProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *job
	return &copied, nil
}

func (m *memoryDownloads) List(limit int) ([]entities.DownloadProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []entities.DownloadProgress
	for _, job := range m.jobs {
		list = append(list, *job)
	}
	return list, nil
}

func (m *memoryDownloads) Start(jobID string) error {
	return m.set(jobID, func(job *entities.DownloadProgress) { job.Status = entities.DownloadStatusRunning })
}

func (m *memoryDownloads) UpdateProgress(jobID string, progress int) error {
	return m.set(jobID, func(job *entities.DownloadProgress) {
		job.Progress = progress
		m.history[jobID] = append(m.history[jobID], progress)
	})
}

func (m *memoryDownloads) MarkInstalling(jobID string) error {
	return m.set(jobID, func(job *entities.DownloadProgress) {
		job.Status = entities.DownloadStatusInstalling
		job.Progress = 100
		m.history[jobID] = append(m.history[jobID], 100)
	})
}

func (m *memoryDownloads) Complete(jobID string, err error) error {
	return m.set(jobID, func(job *entities.DownloadProgress) {
		if err != nil {
			job.Status = entities.DownloadStatusFailed
			job.Error = err.Error()
			return
		}
		job.Status = entities.DownloadStatusCompleted
		job.Progress = 100
	})
}

func (m *memoryDownloads) DeleteOlderThan(retention time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = retention
	return 2, nil
}

func (m *memoryDownloads) set(jobID string, fn func(*entities.DownloadProgress)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return errors.New("not found")
	}
	fn(job)
	return nil
}

type fakeTranslationDownloader struct {
	release chan struct{}
	err     error
}

func (f *fakeTranslationDownloader) DownloadTranslation(ctx context.Context, shortName string, progress chan<- int) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	for _, v := range []int{0, 0, 40, 99, 100} {
		progress <- v
	}
	return f.err
}

type fakeStrongNumberDownloader struct{}

func (fakeStrongNumberDownloader) Download(ctx context.Context, progress chan<- int) error {
	progress <- 50
	progress <- 100
	return nil
}

type fakeCatalog struct {
	mu     sync.Mutex
	forced []bool
}

func (f *fakeCatalog) ReloadTranslations(ctx context.Context, forceRefresh bool) ([]entities.TranslationInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced = append(f.forced, forceRefresh)
	return []entities.TranslationInfo{{ShortName: "KJV"}}, nil
}

type fakeArchives struct {
	age time.Duration
}

func (f *fakeArchives) RemoveOlderThan(age time.Duration) (int, error) {
	f.age = age
	return 1, nil
}

func TestDispatcher_DownloadTranslation_Inline(t *testing.T) {
	store := newMemoryDownloads()
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:    store,
		Translations: &fakeTranslationDownloader{},
	})
	defer dispatcher.Shutdown()

	job, err := dispatcher.DownloadTranslation("KJV")
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadKindTranslation, job.Kind)
	assert.Equal(t, "KJV", job.Target)
	dispatcher.Wait()

	finished, err := dispatcher.Download(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusCompleted, finished.Status)
	assert.Equal(t, 100, finished.Progress)
	assert.Equal(t, []int{0, 40, 99, 100}, store.history[job.JobID])
}

func TestDispatcher_DownloadTranslation_Failure(t *testing.T) {
	store := newMemoryDownloads()
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:    store,
		Translations: &fakeTranslationDownloader{err: errors.New("archive corrupted")},
	})
	defer dispatcher.Shutdown()

	job, err := dispatcher.DownloadTranslation("KJV")
	require.NoError(t, err)
	dispatcher.Wait()

	finished, err := dispatcher.Download(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusFailed, finished.Status)
	assert.Equal(t, "archive corrupted", finished.Error)
}

func TestDispatcher_DownloadTranslation_AlreadyQueued(t *testing.T) {
	store := newMemoryDownloads()
	downloader := &fakeTranslationDownloader{release: make(chan struct{})}
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:    store,
		Translations: downloader,
	})
	defer dispatcher.Shutdown()

	_, err := dispatcher.DownloadTranslation("KJV")
	require.NoError(t, err)

	_, err = dispatcher.DownloadTranslation("KJV")
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	// Another translation is not blocked.
	_, err = dispatcher.DownloadTranslation("ESV")
	require.NoError(t, err)

	close(downloader.release)
	dispatcher.Wait()

	_, err = dispatcher.DownloadTranslation("KJV")
	assert.NoError(t, err)
}

func TestDispatcher_DownloadTranslation_ConcurrentRequests(t *testing.T) {
	store := newMemoryDownloads()
	downloader := &fakeTranslationDownloader{release: make(chan struct{})}
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:    store,
		Translations: downloader,
	})
	defer dispatcher.Shutdown()

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		started  int
		rejected int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := dispatcher.DownloadTranslation("KJV")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				started++
			case errors.Is(err, ErrAlreadyQueued):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
	assert.Equal(t, callers-1, rejected)

	close(downloader.release)
	dispatcher.Wait()

	jobs, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestDispatcher_DownloadStrongNumbers_Inline(t *testing.T) {
	store := newMemoryDownloads()
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:     store,
		StrongNumbers: fakeStrongNumberDownloader{},
	})
	defer dispatcher.Shutdown()

	job, err := dispatcher.DownloadStrongNumbers()
	require.NoError(t, err)
	dispatcher.Wait()

	finished, err := dispatcher.Download(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, entities.DownloadStatusCompleted, finished.Status)
	assert.Equal(t, entities.DownloadKindStrongNumbers, finished.Kind)
}

func TestDispatcher_CatalogAndCleanup_Inline(t *testing.T) {
	store := newMemoryDownloads()
	catalog := &fakeCatalog{}
	archives := &fakeArchives{}
	dispatcher := NewDispatcher(nil, Dependencies{
		Downloads:     store,
		Cleaner:       store,
		Archives:      archives,
		Catalog:       catalog,
		RetentionDays: 3,
	})
	defer dispatcher.Shutdown()

	id, err := dispatcher.RefreshCatalog(true)
	require.NoError(t, err)
	assert.Equal(t, InlineTaskID, id)

	_, err = dispatcher.CleanupDownloads()
	require.NoError(t, err)
	dispatcher.Wait()

	assert.Equal(t, []bool{true}, catalog.forced)
	assert.Equal(t, 3*24*time.Hour, store.deleted)
	assert.Equal(t, 3*24*time.Hour, archives.age)

	_, err = dispatcher.Status(context.Background(), id)
	assert.ErrorIs(t, err, ErrQueueDisabled)
	assert.False(t, dispatcher.QueueEnabled())
	assert.Len(t, dispatcher.Queues(), 4)
}

func TestCleanupDownloadsProcessor_DefaultRetention(t *testing.T) {
	store := newMemoryDownloads()
	err := CleanupDownloadsProcessor(store, nil)(context.Background(), CleanupDownloadsTask{})
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, store.deleted)

	err = CleanupDownloadsProcessor(nil, nil)(context.Background(), CleanupDownloadsTask{})
	assert.Error(t, err)
}

func TestDispatcher_DownloadTranslation_Queued(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "joshua.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	store := newMemoryDownloads()
	dispatcher := NewDispatcher(client, Dependencies{
		Downloads:    store,
		Translations: &fakeTranslationDownloader{},
	})
	client.Register(dispatcher.Queues()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	job, err := dispatcher.DownloadTranslation("KJV")
	require.NoError(t, err)
	assert.True(t, dispatcher.QueueEnabled())

	require.Eventually(t, func() bool {
		current, err := dispatcher.Download(job.JobID)
		return err == nil && current.Status == entities.DownloadStatusCompleted
	}, 5*time.Second, 20*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}
