package mcp

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/database"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote/remotetest"
	"github.com/mrlokans/joshua/internal/services"
)

func setupTestServer(t *testing.T) (*app.App, *server.MCPServer, func()) {
	t.Helper()

	dbPath := "./test_mcp_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath, database.WithLogLevel(logger.Silent))
	require.NoError(t, err)

	a := app.New(db, app.Options{
		Source:  remotetest.NewSource(),
		Catalog: services.TranslationManagerConfig{MaxAge: time.Hour, PreferredLanguage: "en"},
		Search:  services.SearcherConfig{InstantLimit: 10},
	})

	cleanup := func() {
		a.Shutdown()
		db.Close()
		os.Remove(dbPath)
	}
	return a, NewServer(a, "test"), cleanup
}

func install(t *testing.T, a *app.App, shortNames ...string) {
	t.Helper()
	_, err := a.Translations.ReloadTranslations(context.Background(), true)
	require.NoError(t, err)
	for _, shortName := range shortNames {
		require.NoError(t, a.Translations.DownloadTranslation(context.Background(), shortName, nil))
	}
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s is not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestNewServer_RegistersTools(t *testing.T) {
	_, s, cleanup := setupTestServer(t)
	defer cleanup()

	for _, name := range []string{
		"ping", "list_translations", "read_chapter", "search_verses", "verse_detail",
		"list_annotations", "reading_progress", "toggle_bookmark", "set_highlight",
		"set_note", "use_translation",
	} {
		assert.NotNil(t, s.GetTool(name), name)
	}

	text, isError := call(t, s, "ping", nil)
	assert.False(t, isError)
	assert.Equal(t, "pong", text)
}

func TestListTranslations(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()

	text, isError := call(t, s, "list_translations", nil)
	assert.False(t, isError)
	assert.Contains(t, text, "not been loaded")

	install(t, a, "KJV")

	text, isError = call(t, s, "list_translations", nil)
	assert.False(t, isError)
	assert.Contains(t, text, "Current:\n  KJV  King James Version  (en_gb)")
	assert.Contains(t, text, "Available:\n  ESV")
	assert.NotContains(t, text, "Downloaded:")
}

func TestReadChapter(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()

	t.Run("without a current translation", func(t *testing.T) {
		text, isError := call(t, s, "read_chapter", map[string]any{"book": 1, "chapter": 1})
		assert.True(t, isError)
		assert.Contains(t, text, services.ErrNoCurrentTranslation.Error())
	})

	install(t, a, "KJV", "ESV")

	t.Run("current translation", func(t *testing.T) {
		text, isError := call(t, s, "read_chapter", map[string]any{"book": float64(1), "chapter": float64(1)})
		assert.False(t, isError)
		assert.True(t, strings.HasPrefix(text, "Genesis 1 (KJV)\n\n"))
		assert.Contains(t, text, "1 In the beginning God created the heaven and the earth.\n")
		assert.Contains(t, text, "3 And God said, Let there be light: and there was light.\n")
	})

	t.Run("explicit translation", func(t *testing.T) {
		text, isError := call(t, s, "read_chapter", map[string]any{"book": 1, "chapter": 1, "translation": "ESV"})
		assert.False(t, isError)
		assert.Contains(t, text, "(ESV)")
		assert.Contains(t, text, "2 The earth was without form and void.")
	})

	t.Run("chapter out of range", func(t *testing.T) {
		text, isError := call(t, s, "read_chapter", map[string]any{"book": 1, "chapter": 51})
		assert.True(t, isError)
		assert.Contains(t, text, "book 1 has 50 chapters")
	})

	t.Run("book out of range", func(t *testing.T) {
		text, isError := call(t, s, "read_chapter", map[string]any{"book": 67, "chapter": 1})
		assert.True(t, isError)
		assert.Contains(t, text, "between 1 and 66")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, isError := call(t, s, "read_chapter", map[string]any{"book": 1})
		assert.True(t, isError)
	})
}

func TestSearchVerses(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()
	install(t, a, "KJV")

	text, isError := call(t, s, "search_verses", map[string]any{"query": "beginning"})
	assert.False(t, isError)
	assert.Contains(t, text, "2 verses in KJV")
	assert.Contains(t, text, "\nGenesis\n  Gen. 1:1 In the beginning God created")
	assert.Contains(t, text, "\nJohn\n  John 1:1 In the beginning was the Word.")
	assert.Less(t, strings.Index(text, "Genesis"), strings.Index(text, "John"))

	text, isError = call(t, s, "search_verses", map[string]any{"query": "locusts"})
	assert.False(t, isError)
	assert.Equal(t, "No results found.", text)

	_, isError = call(t, s, "search_verses", map[string]any{"query": "   "})
	assert.True(t, isError)
}

func TestAnnotationTools(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()
	install(t, a, "KJV", "ESV")

	genesis := map[string]any{"book": 1, "chapter": 1, "verse": 1}

	text, isError := call(t, s, "toggle_bookmark", genesis)
	assert.False(t, isError)
	assert.Equal(t, "Bookmark added.", text)

	text, isError = call(t, s, "set_highlight", map[string]any{"book": 1, "chapter": 1, "verse": 1, "color": "green"})
	assert.False(t, isError)
	assert.Equal(t, "Highlighted in green.", text)

	text, isError = call(t, s, "set_note", map[string]any{"book": 1, "chapter": 1, "verse": 1, "note": "creation"})
	assert.False(t, isError)
	assert.Equal(t, "Note saved.", text)

	t.Run("verse detail", func(t *testing.T) {
		text, isError := call(t, s, "verse_detail", genesis)
		assert.False(t, isError)
		assert.True(t, strings.HasPrefix(text, "Genesis 1:1\n"))
		assert.Contains(t, text, "KJV: In the beginning God created the heaven and the earth.")
		assert.Contains(t, text, "ESV: In the beginning, God created the heavens and the earth.")
		assert.Contains(t, text, "Bookmarked")
		assert.Contains(t, text, "Highlight: green")
		assert.Contains(t, text, "Note: creation")
	})

	t.Run("list annotations", func(t *testing.T) {
		text, isError := call(t, s, "list_annotations", map[string]any{"kind": "highlights", "sort": "book"})
		assert.False(t, isError)
		assert.Contains(t, text, "## Genesis\n")
		assert.Contains(t, text, "Gen. 1:1 In the beginning God created the heaven and the earth.  [green]")

		text, isError = call(t, s, "list_annotations", map[string]any{"kind": "notes", "sort": "date"})
		assert.False(t, isError)
		assert.Contains(t, text, "Genesis 1:1  In the beginning")
		assert.Contains(t, text, "  Note: creation")

		_, isError = call(t, s, "list_annotations", map[string]any{"kind": "tags"})
		assert.True(t, isError)

		_, isError = call(t, s, "list_annotations", map[string]any{"kind": "notes", "sort": "title"})
		assert.True(t, isError)
	})

	t.Run("removal", func(t *testing.T) {
		text, _ := call(t, s, "toggle_bookmark", genesis)
		assert.Equal(t, "Bookmark removed.", text)

		text, _ = call(t, s, "set_highlight", map[string]any{"book": 1, "chapter": 1, "verse": 1, "color": "none"})
		assert.Equal(t, "Highlight removed.", text)

		text, _ = call(t, s, "set_note", map[string]any{"book": 1, "chapter": 1, "verse": 1, "note": " "})
		assert.Equal(t, "Note removed.", text)

		text, isError := call(t, s, "list_annotations", map[string]any{"kind": "bookmarks"})
		assert.False(t, isError)
		assert.Equal(t, "No bookmarks.", text)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, isError := call(t, s, "set_highlight", map[string]any{"book": 1, "chapter": 1, "verse": 1, "color": "teal"})
		assert.True(t, isError)

		_, isError = call(t, s, "toggle_bookmark", map[string]any{"book": 1, "chapter": 1, "verse": 0})
		assert.True(t, isError)
	})
}

func TestUseTranslation(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()
	install(t, a, "KJV", "ESV")

	text, isError := call(t, s, "use_translation", map[string]any{"translation": "ESV"})
	assert.False(t, isError)
	assert.Equal(t, "Current translation is now ESV.", text)

	current, err := a.Reading.CurrentTranslation()
	require.NoError(t, err)
	assert.Equal(t, "ESV", current)

	text, isError = call(t, s, "use_translation", map[string]any{"translation": "NIV"})
	assert.True(t, isError)
	assert.Contains(t, text, services.ErrTranslationNotFound.Error())
}

func TestReadingProgress(t *testing.T) {
	a, s, cleanup := setupTestServer(t)
	defer cleanup()

	text, isError := call(t, s, "reading_progress", nil)
	assert.False(t, isError)
	assert.Contains(t, text, "Chapters read: 0 of 1189")

	require.NoError(t, a.Progress.StartTracking(entities.NewVerseIndex(0, 0, 0)))
	_, tracking := a.Progress.Tracking()
	assert.True(t, tracking)
}
