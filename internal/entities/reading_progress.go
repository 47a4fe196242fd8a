package entities

import "time"

// ChapterReadingStatus records how often and how long a chapter was read.
type ChapterReadingStatus struct {
	BookIndex            int       `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex         int       `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	ReadCount            int       `gorm:"not null;default:0" json:"read_count"`
	TimeSpentInMillis    int64     `gorm:"not null;default:0" json:"time_spent_in_millis"`
	LastReadingTimestamp time.Time `json:"last_reading_timestamp"`
}

func (ChapterReadingStatus) TableName() string {
	return "reading_progress"
}

type ReadingProgress struct {
	ContinuousReadingDays int                    `json:"continuous_reading_days"`
	LastReadingTimestamp  time.Time              `json:"last_reading_timestamp"`
	ChapterReadingStatus  []ChapterReadingStatus `json:"chapter_reading_status"`
}

// ReadingProgressSummary aggregates ReadingProgress for display.
type ReadingProgressSummary struct {
	ContinuousReadingDays  int   `json:"continuous_reading_days"`
	ChaptersRead           int   `json:"chapters_read"`
	TotalChapters          int   `json:"total_chapters"`
	FinishedBooks          int   `json:"finished_books"`
	OldTestamentChapters   int   `json:"old_testament_chapters_read"`
	NewTestamentChapters   int   `json:"new_testament_chapters_read"`
	TotalTimeSpentInMillis int64 `json:"total_time_spent_in_millis"`
	BookChaptersRead       []int `json:"book_chapters_read"`
}
