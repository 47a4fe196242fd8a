// Package annotations provides database operations for bookmarks,
// highlights and notes. The three kinds share a single generic repository:
// each row is keyed by its verse index and carries a timestamp.
//
// # Interface Implementation
//
//	var _ services.AnnotationStore[entities.Bookmark] = (*Repository[entities.Bookmark])(nil)
//
// # Usage
//
//	bookmarks := annotations.NewBookmarkRepository(db)
//	items, err := bookmarks.Read(entities.SortByDate)
package annotations

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/joshua/internal/database/metadata"
	"github.com/mrlokans/joshua/internal/entities"
)

var verseColumns = []clause.Column{
	{Name: "book_index"},
	{Name: "chapter_index"},
	{Name: "verse_index"},
}

// Repository handles database operations for one annotation kind.
type Repository[T entities.VerseAnnotation] struct {
	db       *gorm.DB
	metadata *metadata.Repository
	kind     entities.AnnotationKind
}

// NewRepository creates a repository for annotations of type T.
func NewRepository[T entities.VerseAnnotation](db *gorm.DB) *Repository[T] {
	var zero T
	return &Repository[T]{
		db:       db,
		metadata: metadata.NewRepository(db),
		kind:     zero.Kind(),
	}
}

func NewBookmarkRepository(db *gorm.DB) *Repository[entities.Bookmark] {
	return NewRepository[entities.Bookmark](db)
}

func NewHighlightRepository(db *gorm.DB) *Repository[entities.Highlight] {
	return NewRepository[entities.Highlight](db)
}

func NewNoteRepository(db *gorm.DB) *Repository[entities.Note] {
	return NewRepository[entities.Note](db)
}

// Kind returns the annotation kind stored by this repository.
func (r *Repository[T]) Kind() entities.AnnotationKind {
	return r.kind
}

// ReadSortOrder returns the stored sort order, SortByDate when unset or unreadable.
func (r *Repository[T]) ReadSortOrder() (entities.SortOrder, error) {
	value, err := r.metadata.Get(entities.SortOrderKey(r.kind), "")
	if err != nil {
		return entities.SortByDate, err
	}
	if value == "" {
		return entities.SortByDate, nil
	}
	order, err := strconv.Atoi(value)
	if err != nil || !entities.SortOrder(order).IsValid() {
		return entities.SortByDate, nil
	}
	return entities.SortOrder(order), nil
}

// SaveSortOrder persists the sort order for this annotation kind.
func (r *Repository[T]) SaveSortOrder(order entities.SortOrder) error {
	return r.metadata.Set(entities.SortOrderKey(r.kind), strconv.Itoa(int(order)))
}

// Read returns every annotation, newest first for SortByDate and in
// canonical verse order for SortByBook.
func (r *Repository[T]) Read(order entities.SortOrder) ([]T, error) {
	var items []T
	query := r.db
	if order == entities.SortByBook {
		query = query.Order("book_index ASC, chapter_index ASC, verse_index ASC")
	} else {
		query = query.Order("timestamp DESC")
	}
	err := query.Find(&items).Error
	return items, err
}

// ReadChapter returns the annotations of one chapter ordered by verse.
func (r *Repository[T]) ReadChapter(bookIndex, chapterIndex int) ([]T, error) {
	var items []T
	err := r.db.Where("book_index = ? AND chapter_index = ?", bookIndex, chapterIndex).
		Order("verse_index ASC").
		Find(&items).Error
	return items, err
}

// ReadVerse returns the annotation of a single verse. gorm.ErrRecordNotFound
// is returned when the verse has none.
func (r *Repository[T]) ReadVerse(index entities.VerseIndex) (*T, error) {
	var item T
	err := r.db.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
		index.BookIndex, index.ChapterIndex, index.VerseIndex).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save creates the annotation or replaces the existing one on the same verse.
func (r *Repository[T]) Save(item T) error {
	return r.upsert(r.db, []T{item})
}

// SaveAll saves many annotations in a single transaction.
func (r *Repository[T]) SaveAll(items []T) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return r.upsert(tx, items)
	})
}

func (r *Repository[T]) upsert(db *gorm.DB, items []T) error {
	return db.Clauses(clause.OnConflict{
		Columns:   verseColumns,
		UpdateAll: true,
	}).Create(&items).Error
}

// Remove deletes the annotations of the given verses. Missing verses are ignored.
func (r *Repository[T]) Remove(indexes ...entities.VerseIndex) error {
	if len(indexes) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, index := range indexes {
			err := tx.Where("book_index = ? AND chapter_index = ? AND verse_index = ?",
				index.BookIndex, index.ChapterIndex, index.VerseIndex).
				Delete(new(T)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored annotations.
func (r *Repository[T]) Count() (int64, error) {
	var count int64
	err := r.db.Model(new(T)).Count(&count).Error
	return count, err
}
