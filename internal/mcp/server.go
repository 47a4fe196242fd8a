// Package mcp exposes reading, search and annotations as Model Context
// Protocol tools.
//
// Tool arguments use one-based book, chapter and verse numbers, the way
// references are written. They are converted to zero-based verse indexes
// before reaching the services.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
)

const serverName = "joshua-mcp"

// NewServer creates an MCP server with every read and write tool registered.
func NewServer(a *app.App, version string) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	RegisterReadTools(s, a)
	RegisterWriteTools(s, a)
	return s
}

// Serve runs the server over stdin and stdout until the input closes.
func Serve(a *app.App, version string) error {
	return server.ServeStdio(NewServer(a, version))
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func withReference(verse bool) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithNumber("book",
			mcp.Description("Book number, 1 (Genesis) to 66 (Revelation)"),
			mcp.Required(),
		),
		mcp.WithNumber("chapter",
			mcp.Description("Chapter number, starting at 1"),
			mcp.Required(),
		),
	}
	if verse {
		opts = append(opts, mcp.WithNumber("verse",
			mcp.Description("Verse number, starting at 1"),
			mcp.Required(),
		))
	}
	return opts
}

// chapterArgs reads one-based book and chapter numbers.
func chapterArgs(req mcp.CallToolRequest) (bookIndex, chapterIndex int, err error) {
	book, err := req.RequireInt("book")
	if err != nil {
		return 0, 0, err
	}
	chapter, err := req.RequireInt("chapter")
	if err != nil {
		return 0, 0, err
	}
	bookIndex, chapterIndex = book-1, chapter-1
	if entities.ChapterCount(bookIndex) == 0 {
		return 0, 0, fmt.Errorf("book must be between 1 and %d", entities.BookCount)
	}
	if chapterIndex < 0 || chapterIndex >= entities.ChapterCount(bookIndex) {
		return 0, 0, fmt.Errorf("book %d has %d chapters", book, entities.ChapterCount(bookIndex))
	}
	return bookIndex, chapterIndex, nil
}

func verseArgs(req mcp.CallToolRequest) (entities.VerseIndex, error) {
	bookIndex, chapterIndex, err := chapterArgs(req)
	if err != nil {
		return entities.InvalidVerseIndex, err
	}
	verse, err := req.RequireInt("verse")
	if err != nil {
		return entities.InvalidVerseIndex, err
	}
	index := entities.NewVerseIndex(bookIndex, chapterIndex, verse-1)
	if !index.IsValid() {
		return entities.InvalidVerseIndex, fmt.Errorf("verse must be between 1 and %d", entities.MaxVerseCount)
	}
	return index, nil
}

func bookTitle(bookNames []string, bookIndex int) string {
	if bookIndex < len(bookNames) && bookNames[bookIndex] != "" {
		return bookNames[bookIndex]
	}
	return fmt.Sprintf("Book %d", bookIndex+1)
}

// translationArg returns the requested translation or the current one.
func translationArg(req mcp.CallToolRequest, a *app.App) (string, error) {
	if translation := req.GetString("translation", ""); translation != "" {
		return translation, nil
	}
	return a.Reading.RequireCurrentTranslation()
}
