package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
)

// AnnotationManager validates and persists one kind of verse annotation.
type AnnotationManager[T entities.VerseAnnotation] struct {
	store   AnnotationStore[T]
	reading *ReadingManager
	now     func() time.Time
	loc     *time.Location
}

func NewAnnotationManager[T entities.VerseAnnotation](store AnnotationStore[T], reading *ReadingManager) *AnnotationManager[T] {
	return &AnnotationManager[T]{store: store, reading: reading, now: time.Now, loc: time.Local}
}

func (m *AnnotationManager[T]) Kind() entities.AnnotationKind {
	var zero T
	return zero.Kind()
}

func (m *AnnotationManager[T]) ReadSortOrder() (entities.SortOrder, error) {
	return m.store.ReadSortOrder()
}

func (m *AnnotationManager[T]) SaveSortOrder(order entities.SortOrder) error {
	if !order.IsValid() {
		return ErrInvalidSortOrder
	}
	return m.store.SaveSortOrder(order)
}

func (m *AnnotationManager[T]) Read(order entities.SortOrder) ([]T, error) {
	if !order.IsValid() {
		return nil, ErrInvalidSortOrder
	}
	return m.store.Read(order)
}

func (m *AnnotationManager[T]) ReadChapter(bookIndex, chapterIndex int) ([]T, error) {
	if !entities.NewVerseIndex(bookIndex, chapterIndex, 0).IsValid() {
		return nil, ErrInvalidVerseIndex
	}
	return m.store.ReadChapter(bookIndex, chapterIndex)
}

// ReadVerse returns the annotation of a verse, ErrAnnotationNotFound when it has none.
func (m *AnnotationManager[T]) ReadVerse(index entities.VerseIndex) (*T, error) {
	if !index.IsValid() {
		return nil, ErrInvalidVerseIndex
	}
	item, err := m.store.ReadVerse(index)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnnotationNotFound
	}
	return item, err
}

// Exists reports whether the verse has an annotation of this kind.
func (m *AnnotationManager[T]) Exists(index entities.VerseIndex) (bool, error) {
	_, err := m.ReadVerse(index)
	if errors.Is(err, ErrAnnotationNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *AnnotationManager[T]) Save(item T) error {
	if !item.Index().IsValid() {
		return ErrInvalidVerseIndex
	}
	return m.store.Save(item)
}

func (m *AnnotationManager[T]) SaveAll(items []T) error {
	for _, item := range items {
		if !item.Index().IsValid() {
			return fmt.Errorf("%s: %w", item.Index(), ErrInvalidVerseIndex)
		}
	}
	return m.store.SaveAll(items)
}

func (m *AnnotationManager[T]) Remove(indexes ...entities.VerseIndex) error {
	for _, index := range indexes {
		if !index.IsValid() {
			return fmt.Errorf("%s: %w", index, ErrInvalidVerseIndex)
		}
	}
	return m.store.Remove(indexes...)
}

func (m *AnnotationManager[T]) Count() (int64, error) {
	return m.store.Count()
}

// BookmarkManager adds bookmark-specific operations.
type BookmarkManager struct {
	*AnnotationManager[entities.Bookmark]
}

func NewBookmarkManager(store AnnotationStore[entities.Bookmark], reading *ReadingManager) *BookmarkManager {
	return &BookmarkManager{NewAnnotationManager(store, reading)}
}

// AddBookmark bookmarks a verse, refreshing the timestamp if already bookmarked.
func (m *BookmarkManager) AddBookmark(index entities.VerseIndex) error {
	return m.Save(entities.Bookmark{VerseIndex: index, Timestamp: m.now()})
}

// ToggleBookmark adds or removes the bookmark and reports whether the verse
// is bookmarked afterwards.
func (m *BookmarkManager) ToggleBookmark(index entities.VerseIndex) (bool, error) {
	exists, err := m.Exists(index)
	if err != nil {
		return false, err
	}
	if exists {
		return false, m.Remove(index)
	}
	return true, m.AddBookmark(index)
}

// HighlightManager adds highlight-specific operations.
type HighlightManager struct {
	*AnnotationManager[entities.Highlight]
}

func NewHighlightManager(store AnnotationStore[entities.Highlight], reading *ReadingManager) *HighlightManager {
	return &HighlightManager{NewAnnotationManager(store, reading)}
}

// SaveHighlight sets the highlight colour of a verse. HighlightColorNone
// removes the highlight.
func (m *HighlightManager) SaveHighlight(index entities.VerseIndex, color entities.HighlightColor) error {
	if !color.IsAvailable() {
		return ErrInvalidHighlightColor
	}
	if color == entities.HighlightColorNone {
		return m.Remove(index)
	}
	return m.Save(entities.Highlight{VerseIndex: index, Color: color, Timestamp: m.now()})
}

// NoteManager adds note-specific operations.
type NoteManager struct {
	*AnnotationManager[entities.Note]
}

func NewNoteManager(store AnnotationStore[entities.Note], reading *ReadingManager) *NoteManager {
	return &NoteManager{NewAnnotationManager(store, reading)}
}

// SaveNote stores the note of a verse. A blank note removes it.
func (m *NoteManager) SaveNote(index entities.VerseIndex, note string) error {
	if strings.TrimSpace(note) == "" {
		return m.Remove(index)
	}
	return m.Save(entities.Note{VerseIndex: index, Note: note, Timestamp: m.now()})
}
