package exporters

import (
	"fmt"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// AnnotationLister lists one kind of annotation formatted against the
// current translation.
type AnnotationLister interface {
	List(order entities.SortOrder) (*services.AnnotationList, error)
}

// Document is the content of an export.
type Document struct {
	Title       string
	Translation string
	GeneratedAt time.Time
	Bookmarks   *services.AnnotationList
	Highlights  *services.AnnotationList
	Notes       *services.AnnotationList
}

type Exporter interface {
	Export(doc *Document) (ExportResult, error)
}

type ExportResult struct {
	Path               string `json:"path"`
	BookmarksExported  int    `json:"bookmarks_exported"`
	HighlightsExported int    `json:"highlights_exported"`
	NotesExported      int    `json:"notes_exported"`
}

// Collect lists every annotation kind in order and wraps the lists in a Document.
func Collect(order entities.SortOrder, bookmarks, highlights, notes AnnotationLister) (*Document, error) {
	doc := &Document{GeneratedAt: time.Now()}

	var err error
	if doc.Bookmarks, err = bookmarks.List(order); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	if doc.Highlights, err = highlights.List(order); err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}
	if doc.Notes, err = notes.List(order); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	doc.Translation = doc.Bookmarks.Translation
	doc.Title = fmt.Sprintf("Joshua annotations (%s)", doc.Translation)
	return doc, nil
}

func (d *Document) result(path string) ExportResult {
	return ExportResult{
		Path:               path,
		BookmarksExported:  countOf(d.Bookmarks),
		HighlightsExported: countOf(d.Highlights),
		NotesExported:      countOf(d.Notes),
	}
}

func countOf(list *services.AnnotationList) int {
	if list == nil {
		return 0
	}
	return list.Count
}
