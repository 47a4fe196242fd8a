package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CatalogJobs starts the background work run on every tick.
type CatalogJobs interface {
	RefreshCatalog(force bool) (string, error)
	CleanupDownloads() (string, error)
}

type Config struct {
	Enabled  bool
	Schedule string
}

// CatalogRefreshScheduler periodically refreshes the translation catalog
// and cleans up finished downloads.
type CatalogRefreshScheduler struct {
	jobs CatalogJobs

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	config     Config
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewCatalogRefreshScheduler(jobs CatalogJobs, cfg Config) *CatalogRefreshScheduler {
	return &CatalogRefreshScheduler{
		jobs:   jobs,
		config: cfg,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start schedules the refresh if it is enabled. It stops when ctx is cancelled.
func (s *CatalogRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("[SCHEDULER] Catalog refresh: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.config.Schedule, time.Now())
	log.Printf("[SCHEDULER] Catalog refresh: started with schedule '%s' (%s). Next run: %v",
		s.config.Schedule, CronDescription(s.config.Schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running tick and stops the scheduler.
func (s *CatalogRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("[SCHEDULER] Catalog refresh: stopped")
}

// IsRunning reports whether ticks are scheduled.
func (s *CatalogRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next tick occurs, or nil when stopped.
func (s *CatalogRefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CatalogRefreshScheduler) run() {
	id, err := s.jobs.RefreshCatalog(false)
	if err != nil {
		log.Printf("[SCHEDULER] Catalog refresh: failed to start: %v", err)
	} else {
		log.Printf("[SCHEDULER] Catalog refresh: started task %s", id)
	}

	id, err = s.jobs.CleanupDownloads()
	if err != nil {
		log.Printf("[SCHEDULER] Download cleanup: failed to start: %v", err)
	} else {
		log.Printf("[SCHEDULER] Download cleanup: started task %s", id)
	}
}
