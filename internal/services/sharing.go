package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mrlokans/joshua/internal/entities"
)

// FormatVersesForSharing renders verses as plain text for copying or
// sharing. With consolidate set, consecutive verses of one chapter collapse
// into a single "Book c:v1-v2 text..." line; otherwise every verse gets its
// own line.
func FormatVersesForSharing(bookName string, verses []entities.Verse, consolidate bool) string {
	if len(verses) == 0 {
		return ""
	}

	sorted := slices.Clone(verses)
	slices.SortFunc(sorted, func(a, b entities.Verse) int {
		switch {
		case a.VerseIndex.Less(b.VerseIndex):
			return -1
		case b.VerseIndex.Less(a.VerseIndex):
			return 1
		}
		return 0
	})

	if consolidate && len(sorted) > 1 && consecutive(sorted) {
		first, last := sorted[0].VerseIndex, sorted[len(sorted)-1].VerseIndex
		texts := make([]string, len(sorted))
		for i, verse := range sorted {
			texts[i] = verse.Text.Text
		}
		return fmt.Sprintf("%s %d:%d-%d %s", bookName, first.ChapterIndex+1, first.VerseIndex+1, last.VerseIndex+1,
			strings.Join(texts, " "))
	}

	lines := make([]string, len(sorted))
	for i, verse := range sorted {
		lines[i] = fmt.Sprintf("%s %d:%d %s", bookName, verse.VerseIndex.ChapterIndex+1, verse.VerseIndex.VerseIndex+1, verse.Text.Text)
	}
	return strings.Join(lines, "\n")
}

func consecutive(verses []entities.Verse) bool {
	for i := 1; i < len(verses); i++ {
		prev, cur := verses[i-1].VerseIndex, verses[i].VerseIndex
		if cur.BookIndex != prev.BookIndex || cur.ChapterIndex != prev.ChapterIndex || cur.VerseIndex != prev.VerseIndex+1 {
			return false
		}
	}
	return true
}

// ShareVerses formats the given verses of the current translation.
func (m *ReadingManager) ShareVerses(indexes []entities.VerseIndex, consolidate bool) (string, error) {
	translation, err := m.RequireCurrentTranslation()
	if err != nil {
		return "", err
	}
	if len(indexes) == 0 {
		return "", nil
	}
	for _, index := range indexes {
		if !index.IsValid() {
			return "", ErrInvalidVerseIndex
		}
	}

	found, err := m.ReadVersesByIndexes(translation, indexes)
	if err != nil {
		return "", err
	}
	bookNames, err := m.ReadBookNames(translation)
	if err != nil {
		return "", err
	}

	// Verses are grouped per book, books in canonical order.
	byBook := make(map[int][]entities.Verse)
	for _, verse := range found {
		byBook[verse.VerseIndex.BookIndex] = append(byBook[verse.VerseIndex.BookIndex], verse)
	}
	books := make([]int, 0, len(byBook))
	for book := range byBook {
		books = append(books, book)
	}
	slices.Sort(books)

	parts := make([]string, 0, len(books))
	for _, book := range books {
		parts = append(parts, FormatVersesForSharing(bookName(bookNames, book), byBook[book], consolidate))
	}
	return strings.Join(parts, "\n"), nil
}
