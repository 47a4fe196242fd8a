package exporters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

func item(book, chapter, verse int, text string) services.AnnotationListItem {
	index := entities.NewVerseIndex(book, chapter, verse)
	return services.AnnotationListItem{VerseIndex: &index, Text: text}
}

func testDocument() *Document {
	highlight := item(0, 0, 0, "Gen. 1:1 In the beginning God created the heaven and the earth.")
	highlight.Color = entities.HighlightColorBlue
	note := item(42, 0, 0, "John 1:1 In the beginning was the Word.")
	note.Note = "Compare with Genesis 1:1"

	return &Document{
		Title:       "Joshua annotations (KJV)",
		Translation: "KJV",
		GeneratedAt: time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC),
		Bookmarks: &services.AnnotationList{
			Kind:  entities.AnnotationBookmark,
			Count: 1,
			Items: []services.AnnotationListItem{
				{Title: "Genesis"},
				item(0, 1, 0, "Gen. 2:1 Thus the heavens and the earth were finished."),
			},
		},
		Highlights: &services.AnnotationList{
			Kind:  entities.AnnotationHighlight,
			Count: 1,
			Items: []services.AnnotationListItem{{Title: "Genesis"}, highlight},
		},
		Notes: &services.AnnotationList{
			Kind:  entities.AnnotationNote,
			Count: 1,
			Items: []services.AnnotationListItem{{Title: "John"}, note},
		},
	}
}

func TestGenerateMarkdown(t *testing.T) {
	markdown := GenerateMarkdown(testDocument())

	assert.Contains(t, markdown, "title: \"Joshua annotations (KJV)\"")
	assert.Contains(t, markdown, "translation: KJV")
	assert.Contains(t, markdown, "created_at: 2024-06-15")
	assert.Contains(t, markdown, "## Bookmarks\n\n### Genesis\n\n- Gen. 2:1 Thus the heavens and the earth were finished.\n")
	assert.Contains(t, markdown, "> [!info] blue\n> Gen. 1:1 In the beginning God created the heaven and the earth.\n")
	assert.Contains(t, markdown, "## Notes\n\n### John\n\n> John 1:1 In the beginning was the Word.\n\nCompare with Genesis 1:1\n")
}

func TestGenerateMarkdown_SkipsEmptySections(t *testing.T) {
	doc := testDocument()
	doc.Bookmarks = &services.AnnotationList{}
	doc.Notes = nil

	markdown := GenerateMarkdown(doc)

	assert.NotContains(t, markdown, "## Bookmarks")
	assert.NotContains(t, markdown, "## Notes")
	assert.Contains(t, markdown, "## Highlights")
}

func TestGenerateMarkdown_QuotesMultilineText(t *testing.T) {
	doc := testDocument()
	doc.Highlights.Items[1].Text = "Genesis 1:1\nIn the beginning"
	doc.Highlights.Items[1].Color = entities.HighlightColorYellow

	markdown := GenerateMarkdown(doc)

	assert.Contains(t, markdown, "> [!quote] yellow\n> Genesis 1:1\n> In the beginning\n")
}

func TestMarkdownExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	result, err := NewMarkdownExporter(dir).Export(testDocument())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Joshua annotations (KJV).md"), result.Path)
	assert.Equal(t, 1, result.BookmarksExported)
	assert.Equal(t, 1, result.HighlightsExported)
	assert.Equal(t, 1, result.NotesExported)

	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Highlights")
}

func TestEPUBExporter_Export(t *testing.T) {
	dir := t.TempDir()

	result, err := NewEPUBExporter(dir).Export(testDocument())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Joshua annotations (KJV).epub"), result.Path)
	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSectionHTML(t *testing.T) {
	doc := testDocument()
	doc.Notes.Items[1].Note = "<b>bold</b>"

	highlights := sectionHTML("Highlights", doc.Highlights)
	assert.Contains(t, highlights, "<h1>Highlights</h1>")
	assert.Contains(t, highlights, "<h2>Genesis</h2>")
	assert.Contains(t, highlights, `<p style="background-color:#2196F3">`)

	notes := sectionHTML("Notes", doc.Notes)
	assert.Contains(t, notes, "<blockquote>&lt;b&gt;bold&lt;/b&gt;</blockquote>")
}

type fakeLister struct {
	list *services.AnnotationList
	err  error
}

func (f fakeLister) List(order entities.SortOrder) (*services.AnnotationList, error) {
	return f.list, f.err
}

func TestCollect(t *testing.T) {
	source := testDocument()

	doc, err := Collect(entities.SortByBook,
		fakeLister{list: &services.AnnotationList{Translation: "KJV", Count: 1}},
		fakeLister{list: source.Highlights},
		fakeLister{list: source.Notes})
	require.NoError(t, err)
	assert.Equal(t, "KJV", doc.Translation)
	assert.Equal(t, "Joshua annotations (KJV)", doc.Title)

	_, err = Collect(entities.SortByBook,
		fakeLister{list: source.Bookmarks},
		fakeLister{err: errors.New("boom")},
		fakeLister{list: source.Notes})
	assert.Error(t, err)
}
