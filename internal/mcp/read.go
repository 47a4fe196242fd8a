package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// RegisterReadTools adds the read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, a *app.App) {
	s.AddTool(listTranslationsTool(), listTranslationsHandler(a))
	s.AddTool(readChapterTool(), readChapterHandler(a))
	s.AddTool(searchVersesTool(), searchVersesHandler(a))
	s.AddTool(verseDetailTool(), verseDetailHandler(a))
	s.AddTool(listAnnotationsTool(), listAnnotationsHandler(a))
	s.AddTool(readingProgressTool(), readingProgressHandler(a))
}

// --- list_translations ---

func listTranslationsTool() mcp.Tool {
	return mcp.NewTool("list_translations",
		mcp.WithDescription("List Bible translations: the current one, the other downloaded ones and those available for download."),
	)
}

func listTranslationsHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := a.Translations.ListTranslations()
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if list.Current != nil {
			fmt.Fprintf(&sb, "Current:\n  %s\n", formatTranslation(*list.Current))
		}
		writeTranslations(&sb, "Downloaded", list.Downloaded)
		writeTranslations(&sb, "Available", list.Available)
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No translations. The catalog has not been loaded yet."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeTranslations(sb *strings.Builder, title string, translations []entities.TranslationInfo) {
	if len(translations) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, t := range translations {
		fmt.Fprintf(sb, "  %s\n", formatTranslation(t))
	}
}

func formatTranslation(t entities.TranslationInfo) string {
	return fmt.Sprintf("%s  %s  (%s)", t.ShortName, t.Name, t.Language)
}

// --- read_chapter ---

func readChapterTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Read a chapter. Each line starts with the verse number."),
		mcp.WithString("translation",
			mcp.Description("Translation short name (e.g. KJV). Omit to use the current translation."),
		),
	}
	return mcp.NewTool("read_chapter", append(opts, withReference(false)...)...)
}

func readChapterHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bookIndex, chapterIndex, err := chapterArgs(req)
		if err != nil {
			return toolError(err)
		}
		translation, err := translationArg(req, a)
		if err != nil {
			return toolError(err)
		}

		verses, err := a.Reading.ReadVerses(translation, nil, bookIndex, chapterIndex)
		if err != nil {
			return toolError(err)
		}
		if len(verses) == 0 {
			return toolError(fmt.Errorf("%s has no text for this chapter; is it downloaded?", translation))
		}
		bookNames, err := a.Reading.ReadBookNames(translation)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %d (%s)\n\n", bookTitle(bookNames, bookIndex), chapterIndex+1, translation)
		for _, verse := range verses {
			if verse.Text.Text == "" {
				continue
			}
			fmt.Fprintf(&sb, "%d %s\n", verse.VerseIndex.VerseIndex+1, verse.Text.Text)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search_verses ---

func searchVersesTool() mcp.Tool {
	return mcp.NewTool("search_verses",
		mcp.WithDescription("Search the current translation for verses containing every word of the query."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchVersesHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if strings.TrimSpace(query) == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		result, err := a.Searcher.Search(ctx, services.SearchRequest{Query: query})
		if err != nil {
			return toolError(err)
		}
		if result.Total == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d verses in %s\n", result.Total, result.Translation)
		for _, group := range result.Groups {
			fmt.Fprintf(&sb, "\n%s\n", group.Title)
			for _, item := range group.Items {
				fmt.Fprintf(&sb, "  %s\n", item.Text)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- verse_detail ---

func verseDetailTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Show a verse in every downloaded translation with its bookmark, highlight, note and Strong's numbers."),
	}
	return mcp.NewTool("verse_detail", append(opts, withReference(true)...)...)
}

func verseDetailHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := verseArgs(req)
		if err != nil {
			return toolError(err)
		}
		translation, err := a.Reading.RequireCurrentTranslation()
		if err != nil {
			return toolError(err)
		}

		detail, err := a.Detail.Read(translation, index)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %d:%d\n", detail.BookName, detail.VerseIndex.ChapterIndex+1, detail.VerseIndex.VerseIndex+1)
		for _, text := range detail.Texts {
			fmt.Fprintf(&sb, "%s: %s\n", text.TranslationShortName, text.Text)
		}
		if detail.Bookmarked {
			sb.WriteString("Bookmarked\n")
		}
		if detail.HighlightColor != entities.HighlightColorNone {
			fmt.Fprintf(&sb, "Highlight: %s\n", detail.HighlightColor.Name())
		}
		if detail.Note != "" {
			fmt.Fprintf(&sb, "Note: %s\n", detail.Note)
		}
		for _, number := range detail.StrongNumbers {
			fmt.Fprintf(&sb, "%s  %s\n", number.Number, number.Meaning)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_annotations ---

func listAnnotationsTool() mcp.Tool {
	return mcp.NewTool("list_annotations",
		mcp.WithDescription("List bookmarks, highlights or notes."),
		mcp.WithString("kind",
			mcp.Description("Which annotations to list"),
			mcp.Enum("bookmarks", "highlights", "notes"),
			mcp.Required(),
		),
		mcp.WithString("sort",
			mcp.Description("Sort by date or by book. Omit to use the saved order."),
			mcp.Enum("date", "book"),
		),
	)
}

type annotationLister interface {
	ReadSortOrder() (entities.SortOrder, error)
	List(order entities.SortOrder) (*services.AnnotationList, error)
}

func listers(a *app.App) map[string]annotationLister {
	return map[string]annotationLister{
		"bookmarks":  a.Bookmarks,
		"highlights": a.Highlights,
		"notes":      a.Notes,
	}
}

func listAnnotationsHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		kind := req.GetString("kind", "")
		lister, ok := listers(a)[kind]
		if !ok {
			return toolError(fmt.Errorf("kind must be bookmarks, highlights or notes"))
		}

		order, err := lister.ReadSortOrder()
		if err != nil {
			return toolError(err)
		}
		if value := req.GetString("sort", ""); value != "" {
			if order, err = entities.ParseSortOrder(value); err != nil {
				return toolError(err)
			}
		}

		list, err := lister.List(order)
		if err != nil {
			return toolError(err)
		}
		if list.Count == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No %s.", kind)), nil
		}
		return mcp.NewToolResultText(formatAnnotationList(list)), nil
	}
}

func formatAnnotationList(list *services.AnnotationList) string {
	var sb strings.Builder
	for _, item := range list.Items {
		if item.IsTitle() {
			fmt.Fprintf(&sb, "\n## %s\n", item.Title)
			continue
		}
		sb.WriteString(strings.ReplaceAll(item.Text, "\n", "  "))
		if item.Color != entities.HighlightColorNone {
			fmt.Fprintf(&sb, "  [%s]", item.Color.Name())
		}
		sb.WriteByte('\n')
		if item.Note != "" {
			fmt.Fprintf(&sb, "  Note: %s\n", item.Note)
		}
	}
	return strings.TrimLeft(sb.String(), "\n")
}

// --- reading_progress ---

func readingProgressTool() mcp.Tool {
	return mcp.NewTool("reading_progress",
		mcp.WithDescription("Summarise reading progress: streak, chapters read and finished books."),
	)
}

func readingProgressHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := a.Progress.Summary()
		if err != nil {
			return toolError(err)
		}
		text := fmt.Sprintf(
			"Streak: %d days\nChapters read: %d of %d\nOld Testament: %d\nNew Testament: %d\nFinished books: %d\n",
			summary.ContinuousReadingDays, summary.ChaptersRead, summary.TotalChapters,
			summary.OldTestamentChapters, summary.NewTestamentChapters, summary.FinishedBooks,
		)
		return mcp.NewToolResultText(text), nil
	}
}
