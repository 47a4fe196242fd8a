package services

import (
	"fmt"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
)

const dayTitleLayout = "2006-01-02"

// AnnotationListItem is a row of an annotation list: either a title row
// (VerseIndex is nil) or an annotated verse.
type AnnotationListItem struct {
	Title      string                  `json:"title,omitempty"`
	VerseIndex *entities.VerseIndex    `json:"verse_index,omitempty"`
	Text       string                  `json:"text,omitempty"`
	Color      entities.HighlightColor `json:"color,omitempty"`
	Note       string                  `json:"note,omitempty"`
	Timestamp  *time.Time              `json:"timestamp,omitempty"`
}

func (i AnnotationListItem) IsTitle() bool {
	return i.VerseIndex == nil
}

// AnnotationList is a display-ready list of annotations.
type AnnotationList struct {
	Kind        entities.AnnotationKind `json:"kind"`
	SortOrder   entities.SortOrder      `json:"sort_order"`
	Translation string                  `json:"translation"`
	Count       int                     `json:"count"`
	Items       []AnnotationListItem    `json:"items"`
}

// List reads every annotation in the given order and formats it against
// the current translation. Sorting by date adds a title row per day,
// sorting by book a title row per book.
func (m *AnnotationManager[T]) List(order entities.SortOrder) (*AnnotationList, error) {
	if !order.IsValid() {
		return nil, ErrInvalidSortOrder
	}
	translation, err := m.reading.RequireCurrentTranslation()
	if err != nil {
		return nil, err
	}

	items, err := m.store.Read(order)
	if err != nil {
		return nil, err
	}
	bookNames, err := m.reading.ReadBookNames(translation)
	if err != nil {
		return nil, err
	}
	bookShortNames, err := m.reading.ReadBookShortNames(translation)
	if err != nil {
		return nil, err
	}

	indexes := make([]entities.VerseIndex, len(items))
	for i, item := range items {
		indexes[i] = item.Index()
	}
	verses, err := m.reading.ReadVersesByIndexes(translation, indexes)
	if err != nil {
		return nil, err
	}

	return &AnnotationList{
		Kind:        m.Kind(),
		SortOrder:   order,
		Translation: translation,
		Count:       len(items),
		Items:       buildAnnotationList(items, order, bookNames, bookShortNames, verses, m.loc),
	}, nil
}

func buildAnnotationList[T entities.VerseAnnotation](
	annotations []T,
	order entities.SortOrder,
	bookNames, bookShortNames []string,
	verses map[entities.VerseIndex]entities.Verse,
	loc *time.Location,
) []AnnotationListItem {
	items := make([]AnnotationListItem, 0, len(annotations)*2)
	lastTitle := ""

	for _, annotation := range annotations {
		index := annotation.Index()
		timestamp := annotation.Time()
		text := verses[index].Text.Text

		var title, formatted string
		if order == entities.SortByBook {
			title = bookName(bookNames, index.BookIndex)
			formatted = fmt.Sprintf("%s %d:%d %s",
				bookName(bookShortNames, index.BookIndex), index.ChapterIndex+1, index.VerseIndex+1, text)
		} else {
			title = timestamp.In(loc).Format(dayTitleLayout)
			formatted = fmt.Sprintf("%s %d:%d\n%s",
				bookName(bookNames, index.BookIndex), index.ChapterIndex+1, index.VerseIndex+1, text)
		}

		if len(items) == 0 || title != lastTitle {
			items = append(items, AnnotationListItem{Title: title})
			lastTitle = title
		}

		item := AnnotationListItem{
			VerseIndex: &index,
			Text:       formatted,
			Timestamp:  &timestamp,
		}
		switch a := any(annotation).(type) {
		case entities.Highlight:
			item.Color = a.Color
		case entities.Note:
			item.Note = a.Note
		}
		items = append(items, item)
	}
	return items
}

func bookName(names []string, bookIndex int) string {
	if bookIndex < 0 || bookIndex >= len(names) {
		return ""
	}
	return names[bookIndex]
}
