// Package translations provides database operations for the translation
// catalog, per-translation book names and verse text.
//
// # Interface Implementation
//
//	var _ services.TranslationStore = (*Repository)(nil)
//	var _ services.VerseStore = (*Repository)(nil)
//
// # Usage
//
//	repo := translations.NewRepository(db)
//	verses, err := repo.ReadVerses("KJV", 0, 0)
package translations

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/joshua/internal/entities"
)

const insertBatchSize = 500

// Repository handles all translation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new translations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReadTranslations returns every known translation, downloaded or not.
func (r *Repository) ReadTranslations() ([]entities.TranslationInfo, error) {
	var translations []entities.TranslationInfo
	err := r.db.Order("short_name ASC").Find(&translations).Error
	return translations, err
}

// ReadTranslation returns a single translation by short name.
func (r *Repository) ReadTranslation(shortName string) (*entities.TranslationInfo, error) {
	var translation entities.TranslationInfo
	err := r.db.Where("short_name = ?", shortName).First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

// ReplaceTranslations replaces the catalog with the given list. Translations
// that are already downloaded keep their downloaded flag and stay in the
// catalog even when the remote list no longer contains them.
func (r *Repository) ReplaceTranslations(catalog []entities.TranslationInfo) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var downloaded []string
		if err := tx.Model(&entities.TranslationInfo{}).
			Where("downloaded = ?", true).
			Pluck("short_name", &downloaded).Error; err != nil {
			return err
		}
		isDownloaded := make(map[string]bool, len(downloaded))
		for _, shortName := range downloaded {
			isDownloaded[shortName] = true
		}

		if err := tx.Where("downloaded = ?", false).Delete(&entities.TranslationInfo{}).Error; err != nil {
			return err
		}

		if len(catalog) == 0 {
			return nil
		}

		rows := make([]entities.TranslationInfo, len(catalog))
		for i, info := range catalog {
			info.Downloaded = isDownloaded[info.ShortName]
			rows[i] = info
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "short_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "language", "size"}),
		}).Create(&rows).Error
	})
}

// SaveTranslation installs a downloaded translation: book names, verse text
// and the downloaded flag are written in a single transaction.
func (r *Repository) SaveTranslation(info entities.TranslationInfo, bookNames, bookShortNames []string, verses []entities.VerseRow) error {
	if len(bookNames) != entities.BookCount || len(bookShortNames) != entities.BookCount {
		return fmt.Errorf("translation %s: expected %d book names, got %d names and %d short names",
			info.ShortName, entities.BookCount, len(bookNames), len(bookShortNames))
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteTranslationData(tx, info.ShortName); err != nil {
			return err
		}

		names := make([]entities.BookName, entities.BookCount)
		for i := range names {
			names[i] = entities.BookName{
				TranslationShortName: info.ShortName,
				BookIndex:            i,
				Name:                 bookNames[i],
				ShortName:            bookShortNames[i],
			}
		}
		if err := tx.Create(&names).Error; err != nil {
			return fmt.Errorf("save book names: %w", err)
		}

		for i := range verses {
			verses[i].TranslationShortName = info.ShortName
		}
		if len(verses) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				CreateInBatches(&verses, insertBatchSize).Error; err != nil {
				return fmt.Errorf("save verses: %w", err)
			}
		}

		info.Downloaded = true
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "short_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "language", "size", "downloaded"}),
		}).Create(&info).Error
	})
}

// RemoveTranslation deletes the verse text and book names of a translation
// and marks it as not downloaded.
func (r *Repository) RemoveTranslation(shortName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteTranslationData(tx, shortName); err != nil {
			return err
		}
		return tx.Model(&entities.TranslationInfo{}).
			Where("short_name = ?", shortName).
			Update("downloaded", false).Error
	})
}

func deleteTranslationData(tx *gorm.DB, shortName string) error {
	if err := tx.Where("translation_short_name = ?", shortName).Delete(&entities.VerseRow{}).Error; err != nil {
		return fmt.Errorf("delete verses: %w", err)
	}
	if err := tx.Where("translation_short_name = ?", shortName).Delete(&entities.BookName{}).Error; err != nil {
		return fmt.Errorf("delete book names: %w", err)
	}
	return nil
}

// ReadBookNames returns the full book names of a translation in canonical order.
func (r *Repository) ReadBookNames(translation string) ([]string, error) {
	var names []string
	err := r.db.Model(&entities.BookName{}).
		Where("translation_short_name = ?", translation).
		Order("book_index ASC").
		Pluck("name", &names).Error
	return names, err
}

// ReadBookShortNames returns the abbreviated book names of a translation in canonical order.
func (r *Repository) ReadBookShortNames(translation string) ([]string, error) {
	var names []string
	err := r.db.Model(&entities.BookName{}).
		Where("translation_short_name = ?", translation).
		Order("book_index ASC").
		Pluck("short_name", &names).Error
	return names, err
}

// ReadVerses returns all verses of a chapter in order.
func (r *Repository) ReadVerses(translation string, bookIndex, chapterIndex int) ([]entities.Verse, error) {
	var rows []entities.VerseRow
	err := r.db.Where("translation_short_name = ? AND book_index = ? AND chapter_index = ?",
		translation, bookIndex, chapterIndex).
		Order("verse_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toVerses(rows), nil
}

// ReadVerse returns a single verse. gorm.ErrRecordNotFound is returned when
// the translation has no such verse.
func (r *Repository) ReadVerse(translation string, index entities.VerseIndex) (*entities.Verse, error) {
	var row entities.VerseRow
	err := r.db.Where("translation_short_name = ? AND book_index = ? AND chapter_index = ? AND verse_index = ?",
		translation, index.BookIndex, index.ChapterIndex, index.VerseIndex).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	verse := row.ToVerse()
	return &verse, nil
}

// ReadVersesByIndexes returns the verses found for the given indexes. Indexes
// without a stored verse are absent from the result.
func (r *Repository) ReadVersesByIndexes(translation string, indexes []entities.VerseIndex) (map[entities.VerseIndex]entities.Verse, error) {
	type chapterKey struct{ book, chapter int }
	byChapter := make(map[chapterKey][]int)
	for _, index := range indexes {
		key := chapterKey{index.BookIndex, index.ChapterIndex}
		byChapter[key] = append(byChapter[key], index.VerseIndex)
	}

	verses := make(map[entities.VerseIndex]entities.Verse, len(indexes))
	for key, verseIndexes := range byChapter {
		var rows []entities.VerseRow
		err := r.db.Where("translation_short_name = ? AND book_index = ? AND chapter_index = ? AND verse_index IN ?",
			translation, key.book, key.chapter, verseIndexes).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			verses[row.Index()] = row.ToVerse()
		}
	}
	return verses, nil
}

// Search returns the verses containing every keyword, in canonical order.
// A limit of 0 or less returns all matches.
func (r *Repository) Search(translation string, keywords []string, limit int) ([]entities.Verse, error) {
	query := r.db.Where("translation_short_name = ?", translation)
	for _, keyword := range keywords {
		query = query.Where("text LIKE ? ESCAPE '\\'", "%"+escapeLike(keyword)+"%")
	}
	query = query.Order("book_index ASC, chapter_index ASC, verse_index ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []entities.VerseRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toVerses(rows), nil
}

func toVerses(rows []entities.VerseRow) []entities.Verse {
	verses := make([]entities.Verse, len(rows))
	for i, row := range rows {
		verses[i] = row.ToVerse()
	}
	return verses
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
