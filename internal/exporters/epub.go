package exporters

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"

	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/utils"
)

// EPUBExporter writes annotations as an EPUB book with one section per
// annotation kind.
type EPUBExporter struct {
	ExportDir string
}

func NewEPUBExporter(exportDir string) *EPUBExporter {
	return &EPUBExporter{ExportDir: exportDir}
}

func (exporter *EPUBExporter) Export(doc *Document) (ExportResult, error) {
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	e, err := epub.NewEpub(doc.Title)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create EPUB: %w", err)
	}
	e.SetAuthor("Joshua")
	e.SetDescription(fmt.Sprintf("Bookmarks, highlights and notes in %s, exported %s",
		doc.Translation, doc.GeneratedAt.Format("2006-01-02")))

	sections := []struct {
		title string
		list  *services.AnnotationList
	}{
		{"Bookmarks", doc.Bookmarks},
		{"Highlights", doc.Highlights},
		{"Notes", doc.Notes},
	}
	for _, section := range sections {
		if section.list == nil || section.list.Count == 0 {
			continue
		}
		if _, err := e.AddSection(sectionHTML(section.title, section.list), section.title, "", ""); err != nil {
			return ExportResult{}, fmt.Errorf("failed to add section %s: %w", section.title, err)
		}
	}

	outputPath := filepath.Join(exporter.ExportDir, utils.ExportFilename(doc.Title, ".epub"))
	if err := e.Write(outputPath); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write EPUB: %w", err)
	}
	return doc.result(outputPath), nil
}

func sectionHTML(title string, list *services.AnnotationList) string {
	var content strings.Builder
	fmt.Fprintf(&content, "<h1>%s</h1>\n", html.EscapeString(title))

	for _, item := range list.Items {
		if item.IsTitle() {
			fmt.Fprintf(&content, "<h2>%s</h2>\n", html.EscapeString(item.Title))
			continue
		}

		text := strings.ReplaceAll(html.EscapeString(item.Text), "\n", "<br/>")
		if item.Color != 0 {
			fmt.Fprintf(&content, `<p style="background-color:%s">%s</p>`+"\n", utils.TerminalColor(uint32(item.Color)), text)
		} else {
			fmt.Fprintf(&content, "<p>%s</p>\n", text)
		}
		if item.Note != "" {
			fmt.Fprintf(&content, "<blockquote>%s</blockquote>\n", html.EscapeString(item.Note))
		}
	}
	return content.String()
}
