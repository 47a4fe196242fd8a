package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/entities"
)

var (
	purple = lipgloss.Color("99")
	gray   = lipgloss.Color("245")

	titleStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(gray)
	numberStyle = lipgloss.NewStyle().Foreground(gray).Width(4)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// highlightStyle renders text on the highlight colour.
func highlightStyle(color entities.HighlightColor) lipgloss.Style {
	if color == entities.HighlightColorNone {
		return lipgloss.NewStyle()
	}
	rgb := uint32(color) & 0xFFFFFF
	return lipgloss.NewStyle().
		Background(lipgloss.Color(fmt.Sprintf("#%06X", rgb))).
		Foreground(lipgloss.Color("0"))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

// resolveBook parses a one-based book number or a book name prefix in the
// given translation.
func resolveBook(a *app.App, translation, arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if entities.ChapterCount(n-1) == 0 {
			return 0, fmt.Errorf("book must be between 1 and %d", entities.BookCount)
		}
		return n - 1, nil
	}

	names, err := a.Reading.ReadBookNames(translation)
	if err != nil {
		return 0, err
	}
	shortNames, err := a.Reading.ReadBookShortNames(translation)
	if err != nil {
		return 0, err
	}

	prefix := strings.ToLower(strings.TrimSuffix(arg, "."))
	for _, candidates := range [][]string{names, shortNames} {
		for i, name := range candidates {
			if strings.HasPrefix(strings.ToLower(name), prefix) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown book %q", arg)
}

func parsePositive(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return n, nil
}

// parseVerseArgs reads "<book> <chapter> <verse>" with one-based numbers.
func parseVerseArgs(a *app.App, args []string) (entities.VerseIndex, error) {
	translation, err := a.Reading.RequireCurrentTranslation()
	if err != nil {
		return entities.InvalidVerseIndex, err
	}
	bookIndex, err := resolveBook(a, translation, args[0])
	if err != nil {
		return entities.InvalidVerseIndex, err
	}
	chapter, err := parsePositive(args[1], "chapter")
	if err != nil {
		return entities.InvalidVerseIndex, err
	}
	verse, err := parsePositive(args[2], "verse")
	if err != nil {
		return entities.InvalidVerseIndex, err
	}

	index := entities.NewVerseIndex(bookIndex, chapter-1, verse-1)
	if !index.IsValid() {
		return entities.InvalidVerseIndex, fmt.Errorf("no such verse: %s %s:%s", args[0], args[1], args[2])
	}
	return index, nil
}

func bookName(names []string, bookIndex int) string {
	if bookIndex < len(names) && names[bookIndex] != "" {
		return names[bookIndex]
	}
	return fmt.Sprintf("Book %d", bookIndex+1)
}

func formatReference(names []string, index entities.VerseIndex) string {
	return fmt.Sprintf("%s %d:%d", bookName(names, index.BookIndex), index.ChapterIndex+1, index.VerseIndex+1)
}
