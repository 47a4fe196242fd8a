// Package progress provides database operations for reading progress:
// per-chapter read counts and time spent, plus the continuous reading streak.
//
// # Usage
//
//	repo := progress.NewRepository(db)
//	err := repo.TrackChapter(0, 0, 42*time.Second, time.Now())
package progress

import (
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/joshua/internal/database/metadata"
	"github.com/mrlokans/joshua/internal/entities"
)

// Repository handles all reading progress database operations.
type Repository struct {
	db       *gorm.DB
	metadata *metadata.Repository
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, metadata: metadata.NewRepository(db)}
}

// ReadChapterStatus returns the status of every chapter read at least once,
// in canonical order.
func (r *Repository) ReadChapterStatus() ([]entities.ChapterReadingStatus, error) {
	var statuses []entities.ChapterReadingStatus
	err := r.db.Order("book_index ASC, chapter_index ASC").Find(&statuses).Error
	return statuses, err
}

// ReadChapter returns the status of a single chapter. gorm.ErrRecordNotFound
// is returned when the chapter was never read.
func (r *Repository) ReadChapter(bookIndex, chapterIndex int) (*entities.ChapterReadingStatus, error) {
	var status entities.ChapterReadingStatus
	err := r.db.Where("book_index = ? AND chapter_index = ?", bookIndex, chapterIndex).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// TrackChapter increments the read count of a chapter and adds timeSpent to it.
func (r *Repository) TrackChapter(bookIndex, chapterIndex int, timeSpent time.Duration, now time.Time) error {
	status := entities.ChapterReadingStatus{
		BookIndex:            bookIndex,
		ChapterIndex:         chapterIndex,
		ReadCount:            1,
		TimeSpentInMillis:    timeSpent.Milliseconds(),
		LastReadingTimestamp: now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "book_index"}, {Name: "chapter_index"}},
		DoUpdates: clause.Assignments(map[string]any{
			"read_count":             gorm.Expr("read_count + 1"),
			"time_spent_in_millis":   gorm.Expr("time_spent_in_millis + ?", timeSpent.Milliseconds()),
			"last_reading_timestamp": now,
		}),
	}).Create(&status).Error
}

// ReadStreak returns the continuous reading days and the last reading time.
// Both are zero before anything was read.
func (r *Repository) ReadStreak() (int, time.Time, error) {
	values, err := r.metadata.GetMany(
		entities.MetadataKeyContinuousReadingDays,
		entities.MetadataKeyLastReadingTimestamp,
	)
	if err != nil {
		return 0, time.Time{}, err
	}

	days, _ := strconv.Atoi(values[entities.MetadataKeyContinuousReadingDays])

	var last time.Time
	if raw := values[entities.MetadataKeyLastReadingTimestamp]; raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			last = parsed
		}
	}
	return days, last, nil
}

// SaveStreak stores the continuous reading days and the last reading time.
func (r *Repository) SaveStreak(days int, lastReading time.Time) error {
	return r.metadata.SetMany(map[string]string{
		entities.MetadataKeyContinuousReadingDays: strconv.Itoa(days),
		entities.MetadataKeyLastReadingTimestamp:  lastReading.Format(time.RFC3339Nano),
	})
}
