package services

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
)

// ReadingManager owns the reading state: current translation, current verse
// and parallel translations, and reads verse text for display.
type ReadingManager struct {
	metadata     MetadataStore
	translations TranslationStore
	verses       VerseStore
}

func NewReadingManager(metadata MetadataStore, translations TranslationStore, verses VerseStore) *ReadingManager {
	return &ReadingManager{
		metadata:     metadata,
		translations: translations,
		verses:       verses,
	}
}

// CurrentTranslation returns the short name of the current translation, or
// an empty string when none is selected.
func (m *ReadingManager) CurrentTranslation() (string, error) {
	return m.metadata.Get(entities.MetadataKeyCurrentTranslation, "")
}

// RequireCurrentTranslation is CurrentTranslation failing with
// ErrNoCurrentTranslation when none is selected.
func (m *ReadingManager) RequireCurrentTranslation() (string, error) {
	current, err := m.CurrentTranslation()
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", ErrNoCurrentTranslation
	}
	return current, nil
}

// SaveCurrentTranslation switches the current translation. The translation
// must be downloaded; it is dropped from the parallel translations.
func (m *ReadingManager) SaveCurrentTranslation(shortName string) error {
	if err := m.requireDownloaded(shortName); err != nil {
		return err
	}

	parallel, err := m.ParallelTranslations()
	if err != nil {
		return err
	}
	parallel = slices.DeleteFunc(parallel, func(s string) bool { return s == shortName })

	return m.metadata.SetMany(map[string]string{
		entities.MetadataKeyCurrentTranslation:   shortName,
		entities.MetadataKeyParallelTranslations: strings.Join(parallel, ","),
	})
}

// CurrentVerseIndex returns the last verse the user was reading, Genesis 1:1
// when nothing valid is stored.
func (m *ReadingManager) CurrentVerseIndex() (entities.VerseIndex, error) {
	values, err := m.metadata.GetMany(
		entities.MetadataKeyCurrentBookIndex,
		entities.MetadataKeyCurrentChapterIndex,
		entities.MetadataKeyCurrentVerseIndex,
	)
	if err != nil {
		return entities.InvalidVerseIndex, err
	}

	book, errBook := strconv.Atoi(values[entities.MetadataKeyCurrentBookIndex])
	chapter, errChapter := strconv.Atoi(values[entities.MetadataKeyCurrentChapterIndex])
	verse, errVerse := strconv.Atoi(values[entities.MetadataKeyCurrentVerseIndex])
	index := entities.NewVerseIndex(book, chapter, verse)
	if errBook != nil || errChapter != nil || errVerse != nil || !index.IsValid() {
		return entities.NewVerseIndex(0, 0, 0), nil
	}
	return index, nil
}

func (m *ReadingManager) SaveCurrentVerseIndex(index entities.VerseIndex) error {
	if !index.IsValid() {
		return ErrInvalidVerseIndex
	}
	return m.metadata.SetMany(map[string]string{
		entities.MetadataKeyCurrentBookIndex:    strconv.Itoa(index.BookIndex),
		entities.MetadataKeyCurrentChapterIndex: strconv.Itoa(index.ChapterIndex),
		entities.MetadataKeyCurrentVerseIndex:   strconv.Itoa(index.VerseIndex),
	})
}

// ParallelTranslations returns the parallel translations in the order they were requested.
func (m *ReadingManager) ParallelTranslations() ([]string, error) {
	value, err := m.metadata.Get(entities.MetadataKeyParallelTranslations, "")
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}
	return strings.Split(value, ","), nil
}

// RequestParallelTranslation adds a downloaded translation to the parallel
// list. Requesting the current translation or one already present is a no-op.
func (m *ReadingManager) RequestParallelTranslation(shortName string) error {
	if err := m.requireDownloaded(shortName); err != nil {
		return err
	}

	current, err := m.CurrentTranslation()
	if err != nil {
		return err
	}
	if shortName == current {
		return nil
	}

	parallel, err := m.ParallelTranslations()
	if err != nil {
		return err
	}
	if slices.Contains(parallel, shortName) {
		return nil
	}
	return m.saveParallel(append(parallel, shortName))
}

func (m *ReadingManager) RemoveParallelTranslation(shortName string) error {
	parallel, err := m.ParallelTranslations()
	if err != nil {
		return err
	}
	if !slices.Contains(parallel, shortName) {
		return nil
	}
	return m.saveParallel(slices.DeleteFunc(parallel, func(s string) bool { return s == shortName }))
}

func (m *ReadingManager) ClearParallelTranslations() error {
	return m.saveParallel(nil)
}

func (m *ReadingManager) saveParallel(parallel []string) error {
	return m.metadata.Set(entities.MetadataKeyParallelTranslations, strings.Join(parallel, ","))
}

func (m *ReadingManager) requireDownloaded(shortName string) error {
	translations, err := m.translations.ReadTranslations()
	if err != nil {
		return err
	}
	for _, t := range translations {
		if t.ShortName == shortName {
			if !t.Downloaded {
				return fmt.Errorf("%s: %w", shortName, ErrTranslationNotDownloaded)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", shortName, ErrTranslationNotFound)
}

func (m *ReadingManager) ReadBookNames(translation string) ([]string, error) {
	return m.verses.ReadBookNames(translation)
}

func (m *ReadingManager) ReadBookShortNames(translation string) ([]string, error) {
	return m.verses.ReadBookShortNames(translation)
}

// ReadVerses reads a chapter and attaches the text of every parallel
// translation to each verse. Verses missing from a parallel translation get
// an empty text.
func (m *ReadingManager) ReadVerses(translation string, parallel []string, bookIndex, chapterIndex int) ([]entities.Verse, error) {
	if !entities.NewVerseIndex(bookIndex, chapterIndex, 0).IsValid() {
		return nil, ErrInvalidVerseIndex
	}

	verses, err := m.verses.ReadVerses(translation, bookIndex, chapterIndex)
	if err != nil {
		return nil, err
	}

	for _, shortName := range parallel {
		if shortName == translation {
			continue
		}
		parallelVerses, err := m.verses.ReadVerses(shortName, bookIndex, chapterIndex)
		if err != nil {
			return nil, err
		}
		texts := make(map[int]string, len(parallelVerses))
		for _, verse := range parallelVerses {
			texts[verse.VerseIndex.VerseIndex] = verse.Text.Text
		}
		for i := range verses {
			verses[i].Parallel = append(verses[i].Parallel, entities.VerseText{
				TranslationShortName: shortName,
				Text:                 texts[verses[i].VerseIndex.VerseIndex],
			})
		}
	}
	return verses, nil
}

// ReadVerse reads a single verse; ErrVerseNotFound when the translation lacks it.
func (m *ReadingManager) ReadVerse(translation string, index entities.VerseIndex) (*entities.Verse, error) {
	if !index.IsValid() {
		return nil, ErrInvalidVerseIndex
	}
	verse, err := m.verses.ReadVerse(translation, index)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVerseNotFound
	}
	return verse, err
}

func (m *ReadingManager) ReadVersesByIndexes(translation string, indexes []entities.VerseIndex) (map[entities.VerseIndex]entities.Verse, error) {
	return m.verses.ReadVersesByIndexes(translation, indexes)
}

// Search returns the verses of translation containing every word of query.
func (m *ReadingManager) Search(translation, query string, limit int) ([]entities.Verse, error) {
	keywords := strings.Fields(query)
	if len(keywords) == 0 {
		return nil, ErrEmptyQuery
	}
	return m.verses.Search(translation, keywords, limit)
}
