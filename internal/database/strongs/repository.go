// Package strongs provides database operations for Strong's numbers: the
// numbers attached to each verse and the Hebrew and Greek lexicon entries.
//
// # Usage
//
//	repo := strongs.NewRepository(db)
//	numbers, err := repo.ReadNumbers(entities.NewVerseIndex(0, 0, 0))
package strongs

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/joshua/internal/entities"
)

const insertBatchSize = 500

// Repository handles all Strong's number database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Strong's number repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save replaces all Strong's data in a single transaction. Lexicon keys are
// the numeric part; H and G prefixes are added on write.
func (r *Repository) Save(verses map[entities.VerseIndex][]int, hebrew, greek map[int]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := saveVerses(tx, verses); err != nil {
			return err
		}
		return saveWords(tx, hebrew, greek)
	})
}

// SaveVerses replaces the per-verse numbers.
func (r *Repository) SaveVerses(verses map[entities.VerseIndex][]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return saveVerses(tx, verses)
	})
}

// SaveWords replaces the lexicon.
func (r *Repository) SaveWords(hebrew, greek map[int]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return saveWords(tx, hebrew, greek)
	})
}

func saveVerses(tx *gorm.DB, verses map[entities.VerseIndex][]int) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.StrongNumberVerse{}).Error; err != nil {
		return err
	}
	if len(verses) == 0 {
		return nil
	}

	rows := make([]entities.StrongNumberVerse, 0, len(verses))
	for index, numbers := range verses {
		rows = append(rows, entities.StrongNumberVerse{
			VerseIndex: index,
			Numbers:    entities.JoinStrongNumbers(numbers),
		})
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&rows, insertBatchSize).Error
}

func saveWords(tx *gorm.DB, hebrew, greek map[int]string) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entities.StrongNumber{}).Error; err != nil {
		return err
	}

	rows := make([]entities.StrongNumber, 0, len(hebrew)+len(greek))
	for number, meaning := range hebrew {
		// Book 0 is in the Old Testament, so the number gets the H prefix.
		rows = append(rows, entities.StrongNumber{Number: entities.FormatStrongNumber(0, number), Meaning: meaning})
	}
	for number, meaning := range greek {
		rows = append(rows, entities.StrongNumber{Number: entities.FormatStrongNumber(entities.OldTestamentCount, number), Meaning: meaning})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&rows, insertBatchSize).Error
}

// ReadNumbers returns the numeric Strong's numbers of a verse in text order.
// A verse without numbers yields an empty slice.
func (r *Repository) ReadNumbers(index entities.VerseIndex) ([]int, error) {
	var row entities.StrongNumberVerse
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		index.BookIndex, index.ChapterIndex, index.VerseIndex).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entities.SplitStrongNumbers(row.Numbers), nil
}

// ReadWords returns the lexicon entries for prefixed numbers such as "H430",
// keyed by number. Unknown numbers are absent.
func (r *Repository) ReadWords(numbers []string) (map[string]entities.StrongNumber, error) {
	words := make(map[string]entities.StrongNumber, len(numbers))
	if len(numbers) == 0 {
		return words, nil
	}

	var rows []entities.StrongNumber
	if err := r.db.Where("number IN ?", numbers).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		words[row.Number] = row
	}
	return words, nil
}

// HasData reports whether both verse numbers and lexicon entries are present.
func (r *Repository) HasData() (bool, error) {
	var verses, words int64
	if err := r.db.Model(&entities.StrongNumberVerse{}).Count(&verses).Error; err != nil {
		return false, err
	}
	if err := r.db.Model(&entities.StrongNumber{}).Count(&words).Error; err != nil {
		return false, err
	}
	return verses > 0 && words > 0, nil
}
