package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/utils"
)

// MarkdownExporter writes annotations as an Obsidian-friendly markdown file.
type MarkdownExporter struct {
	ExportDir string
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{ExportDir: exportDir}
}

func (exporter *MarkdownExporter) Export(doc *Document) (ExportResult, error) {
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	outputPath := filepath.Join(exporter.ExportDir, utils.ExportFilename(doc.Title, ".md"))
	if err := os.WriteFile(outputPath, []byte(GenerateMarkdown(doc)), 0644); err != nil {
		return ExportResult{}, err
	}
	return doc.result(outputPath), nil
}

// GenerateMarkdown renders doc. Highlights become callouts typed by colour,
// notes quote their verse.
func GenerateMarkdown(doc *Document) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_source: joshua\n")
	fmt.Fprintf(&builder, "content_type: bible_annotations\n")
	fmt.Fprintf(&builder, "created_at: %s\n", doc.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "title: \"%s\"\n", strings.ReplaceAll(doc.Title, "\"", "\\\""))
	fmt.Fprintf(&builder, "translation: %s\n", doc.Translation)
	fmt.Fprintf(&builder, "tags: bible, annotations\n")
	fmt.Fprintf(&builder, "---\n\n")

	writeSection(&builder, "Bookmarks", doc.Bookmarks, func(item services.AnnotationListItem) {
		fmt.Fprintf(&builder, "- %s\n", strings.ReplaceAll(item.Text, "\n", " "))
	})

	writeSection(&builder, "Highlights", doc.Highlights, func(item services.AnnotationListItem) {
		callout := utils.ColorToCalloutType(utils.HexARGB(uint32(item.Color)))
		fmt.Fprintf(&builder, "> [!%s] %s\n", callout, item.Color.Name())
		fmt.Fprintf(&builder, "> %s\n\n", quoteLines(item.Text))
	})

	writeSection(&builder, "Notes", doc.Notes, func(item services.AnnotationListItem) {
		fmt.Fprintf(&builder, "> %s\n\n", quoteLines(item.Text))
		fmt.Fprintf(&builder, "%s\n\n", item.Note)
	})

	return builder.String()
}

func writeSection(builder *strings.Builder, title string, list *services.AnnotationList, writeItem func(services.AnnotationListItem)) {
	if list == nil || list.Count == 0 {
		return
	}

	fmt.Fprintf(builder, "## %s\n\n", title)
	for _, item := range list.Items {
		if item.IsTitle() {
			fmt.Fprintf(builder, "### %s\n\n", item.Title)
			continue
		}
		writeItem(item)
	}
	builder.WriteString("\n")
}

func quoteLines(text string) string {
	return strings.ReplaceAll(text, "\n", "\n> ")
}
