package services

import (
	"log"
	"sync"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
)

// ReadingProgressManager tracks time spent per chapter and the continuous
// reading streak.
type ReadingProgressManager struct {
	store     ProgressStore
	threshold time.Duration
	now       func() time.Time

	mu        sync.Mutex
	tracking  bool
	current   entities.VerseIndex
	startedAt time.Time
}

// NewReadingProgressManager creates a manager that records a chapter only
// when it was read for at least threshold.
func NewReadingProgressManager(store ProgressStore, threshold time.Duration) *ReadingProgressManager {
	return &ReadingProgressManager{
		store:     store,
		threshold: threshold,
		now:       time.Now,
	}
}

// StartTracking starts timing the chapter of index. Switching to another
// chapter records the previous one first; the same chapter keeps its timer.
func (m *ReadingProgressManager) StartTracking(index entities.VerseIndex) error {
	if !index.IsValid() {
		return ErrInvalidVerseIndex
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tracking {
		if m.current.BookIndex == index.BookIndex && m.current.ChapterIndex == index.ChapterIndex {
			m.current = index
			return nil
		}
		if err := m.stopLocked(); err != nil {
			log.Printf("Failed to record reading progress: %v", err)
		}
	}

	m.tracking = true
	m.current = index
	m.startedAt = m.now()
	return nil
}

// StopTracking records the tracked chapter if it was read long enough.
func (m *ReadingProgressManager) StopTracking() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// Tracking returns the tracked verse and whether tracking is active.
func (m *ReadingProgressManager) Tracking() (entities.VerseIndex, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.tracking
}

func (m *ReadingProgressManager) stopLocked() error {
	if !m.tracking {
		return nil
	}
	m.tracking = false

	now := m.now()
	elapsed := now.Sub(m.startedAt)
	if elapsed < m.threshold {
		return nil
	}

	if err := m.store.TrackChapter(m.current.BookIndex, m.current.ChapterIndex, elapsed, now); err != nil {
		return err
	}
	return m.updateStreak(now)
}

func (m *ReadingProgressManager) updateStreak(now time.Time) error {
	days, last, err := m.store.ReadStreak()
	if err != nil {
		return err
	}

	switch {
	case last.IsZero() || days <= 0:
		days = 1
	case daysBetween(last, now) == 0:
	case daysBetween(last, now) == 1:
		days++
	default:
		days = 1
	}
	return m.store.SaveStreak(days, now)
}

// daysBetween counts calendar days from a to b in b's location.
func daysBetween(a, b time.Time) int {
	a = a.In(b.Location())
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(dayB.Sub(dayA).Hours() / 24)
}

// ReadReadingProgress returns the raw progress. The streak reads 0 once a
// full calendar day passed without reading.
func (m *ReadingProgressManager) ReadReadingProgress() (*entities.ReadingProgress, error) {
	statuses, err := m.store.ReadChapterStatus()
	if err != nil {
		return nil, err
	}
	days, last, err := m.store.ReadStreak()
	if err != nil {
		return nil, err
	}
	if !last.IsZero() && daysBetween(last, m.now()) > 1 {
		days = 0
	}

	return &entities.ReadingProgress{
		ContinuousReadingDays: days,
		LastReadingTimestamp:  last,
		ChapterReadingStatus:  statuses,
	}, nil
}

// Summary aggregates reading progress per book and testament.
func (m *ReadingProgressManager) Summary() (*entities.ReadingProgressSummary, error) {
	progress, err := m.ReadReadingProgress()
	if err != nil {
		return nil, err
	}

	summary := &entities.ReadingProgressSummary{
		ContinuousReadingDays: progress.ContinuousReadingDays,
		TotalChapters:         entities.TotalChapterCount,
		BookChaptersRead:      make([]int, entities.BookCount),
	}
	for _, status := range progress.ChapterReadingStatus {
		if status.ReadCount <= 0 || !entities.NewVerseIndex(status.BookIndex, status.ChapterIndex, 0).IsValid() {
			continue
		}
		summary.ChaptersRead++
		summary.TotalTimeSpentInMillis += status.TimeSpentInMillis
		summary.BookChaptersRead[status.BookIndex]++
		if entities.IsOldTestament(status.BookIndex) {
			summary.OldTestamentChapters++
		} else {
			summary.NewTestamentChapters++
		}
	}
	for book, read := range summary.BookChaptersRead {
		if read == entities.ChapterCount(book) {
			summary.FinishedBooks++
		}
	}
	return summary, nil
}
