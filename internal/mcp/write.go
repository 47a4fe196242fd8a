package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
)

// RegisterWriteTools adds the tools that change annotations or the current
// translation.
func RegisterWriteTools(s *server.MCPServer, a *app.App) {
	s.AddTool(toggleBookmarkTool(), toggleBookmarkHandler(a))
	s.AddTool(setHighlightTool(), setHighlightHandler(a))
	s.AddTool(setNoteTool(), setNoteHandler(a))
	s.AddTool(useTranslationTool(), useTranslationHandler(a))
}

// --- toggle_bookmark ---

func toggleBookmarkTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Bookmark a verse, or remove its bookmark if it has one."),
	}
	return mcp.NewTool("toggle_bookmark", append(opts, withReference(true)...)...)
}

func toggleBookmarkHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := verseArgs(req)
		if err != nil {
			return toolError(err)
		}

		bookmarked, err := a.Detail.ToggleBookmark(ctx, index)
		if err != nil {
			return toolError(err)
		}
		if bookmarked {
			return mcp.NewToolResultText("Bookmark added."), nil
		}
		return mcp.NewToolResultText("Bookmark removed."), nil
	}
}

// --- set_highlight ---

func setHighlightTool() mcp.Tool {
	colors := make([]string, len(entities.AvailableHighlightColors))
	for i, c := range entities.AvailableHighlightColors {
		colors[i] = c.Name()
	}

	opts := []mcp.ToolOption{
		mcp.WithDescription("Highlight a verse. The colour none removes the highlight."),
		mcp.WithString("color",
			mcp.Description("Highlight colour"),
			mcp.Enum(colors...),
			mcp.Required(),
		),
	}
	return mcp.NewTool("set_highlight", append(opts, withReference(true)...)...)
}

func setHighlightHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := verseArgs(req)
		if err != nil {
			return toolError(err)
		}
		value, err := req.RequireString("color")
		if err != nil {
			return toolError(err)
		}
		color, err := entities.ParseHighlightColor(value)
		if err != nil || !color.IsAvailable() {
			return toolError(fmt.Errorf("unknown colour %q", value))
		}

		if err := a.Detail.UpdateHighlight(ctx, index, color); err != nil {
			return toolError(err)
		}
		if color == entities.HighlightColorNone {
			return mcp.NewToolResultText("Highlight removed."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Highlighted in %s.", color.Name())), nil
	}
}

// --- set_note ---

func setNoteTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Attach a note to a verse, replacing any existing note. An empty note removes it."),
		mcp.WithString("note",
			mcp.Description("Note text"),
		),
	}
	return mcp.NewTool("set_note", append(opts, withReference(true)...)...)
}

func setNoteHandler(a *app.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := verseArgs(req)
		if err != nil {
			return toolError(err)
		}
		note := req.GetString("note", "")

		if err := a.Detail.UpdateNote(ctx, index, note); err != nil {
			return toolError(err)
		}
		if strings.TrimSpace(note) == "" {
			return mcp.NewToolResultText("Note removed."), nil
		}
		return mcp.NewToolResultText("Note saved."), nil
	}
}

// --- use_translation ---

func useTranslationTool() mcp.Tool {
	return mcp.NewTool("use_translation",
		mcp.WithDescription("Switch the current translation. The translation must be downloaded."),
		mcp.WithString("translation",
			mcp.Description("Translation short name (e.g. KJV)"),
			mcp.Required(),
		),
	)
}

func useTranslationHandler(a *app.App) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		translation, err := req.RequireString("translation")
		if err != nil {
			return toolError(err)
		}
		if err := a.Reading.SaveCurrentTranslation(translation); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Current translation is now " + translation + "."), nil
	}
}
