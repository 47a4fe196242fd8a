package services

import (
	"context"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote"
)

// MetadataStore provides key/value access to reading state and preferences.
type MetadataStore interface {
	Get(key, defaultValue string) (string, error)
	GetMany(keys ...string) (map[string]string, error)
	Set(key, value string) error
	SetMany(values map[string]string) error
}

// TranslationStore manages the local translation catalog and installed translations.
type TranslationStore interface {
	ReadTranslations() ([]entities.TranslationInfo, error)
	ReadTranslation(shortName string) (*entities.TranslationInfo, error)
	ReplaceTranslations(catalog []entities.TranslationInfo) error
	SaveTranslation(info entities.TranslationInfo, bookNames, bookShortNames []string, verses []entities.VerseRow) error
	RemoveTranslation(shortName string) error
}

// VerseStore provides read-only access to installed verse text.
type VerseStore interface {
	ReadBookNames(translation string) ([]string, error)
	ReadBookShortNames(translation string) ([]string, error)
	ReadVerses(translation string, bookIndex, chapterIndex int) ([]entities.Verse, error)
	ReadVerse(translation string, index entities.VerseIndex) (*entities.Verse, error)
	ReadVersesByIndexes(translation string, indexes []entities.VerseIndex) (map[entities.VerseIndex]entities.Verse, error)
	Search(translation string, keywords []string, limit int) ([]entities.Verse, error)
}

// AnnotationStore persists one kind of verse annotation.
type AnnotationStore[T entities.VerseAnnotation] interface {
	ReadSortOrder() (entities.SortOrder, error)
	SaveSortOrder(order entities.SortOrder) error
	Read(order entities.SortOrder) ([]T, error)
	ReadChapter(bookIndex, chapterIndex int) ([]T, error)
	ReadVerse(index entities.VerseIndex) (*T, error)
	Save(item T) error
	SaveAll(items []T) error
	Remove(indexes ...entities.VerseIndex) error
	Count() (int64, error)
}

// ProgressStore persists per-chapter reading progress and the reading streak.
type ProgressStore interface {
	ReadChapterStatus() ([]entities.ChapterReadingStatus, error)
	TrackChapter(bookIndex, chapterIndex int, timeSpent time.Duration, now time.Time) error
	ReadStreak() (int, time.Time, error)
	SaveStreak(days int, lastReading time.Time) error
}

// StrongNumberStore persists Strong's numbers.
type StrongNumberStore interface {
	Save(verses map[entities.VerseIndex][]int, hebrew, greek map[int]string) error
	ReadNumbers(index entities.VerseIndex) ([]int, error)
	ReadWords(numbers []string) (map[string]entities.StrongNumber, error)
	HasData() (bool, error)
}

// TranslationSource fetches the catalog and translation archives.
type TranslationSource interface {
	Enabled() bool
	FetchTranslationList(ctx context.Context) ([]entities.TranslationInfo, error)
	FetchTranslation(ctx context.Context, info entities.TranslationInfo, progress chan<- int) (*remote.RemoteTranslation, error)
}

// StrongNumberSource fetches Strong's number archives.
type StrongNumberSource interface {
	FetchStrongNumberVerses(ctx context.Context, progress chan<- int) (map[entities.VerseIndex][]int, error)
	FetchStrongNumberWords(ctx context.Context, progress chan<- int) (*remote.StrongNumberWords, error)
}

// SearchCache stores full search results.
type SearchCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}
