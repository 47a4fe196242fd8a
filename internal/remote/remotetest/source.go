// Package remotetest provides an in-memory remote source for tests.
package remotetest

import (
	"context"
	"sync"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote"
)

// Source serves a fixed catalog, translations and Strong's numbers.
type Source struct {
	mu           sync.Mutex
	catalog      []entities.TranslationInfo
	translations map[string]*remote.RemoteTranslation

	StrongVerses map[entities.VerseIndex][]int
	StrongWords  *remote.StrongNumberWords
}

var (
	KJV = entities.TranslationInfo{ShortName: "KJV", Name: "King James Version", Language: "en_gb"}
	ESV = entities.TranslationInfo{ShortName: "ESV", Name: "English Standard Version", Language: "en_us"}
)

// NewSource returns a source with KJV and ESV excerpts of Genesis 1 and
// John 1 and a small Strong's lexicon.
func NewSource() *Source {
	s := &Source{
		translations: map[string]*remote.RemoteTranslation{},
		StrongVerses: map[entities.VerseIndex][]int{
			entities.NewVerseIndex(0, 0, 0):  {7225, 430},
			entities.NewVerseIndex(42, 0, 0): {746, 3056},
		},
		StrongWords: &remote.StrongNumberWords{
			Hebrew: map[int]string{7225: "beginning", 430: "God"},
			Greek:  map[int]string{746: "beginning", 3056: "word"},
		},
	}
	s.Add(KJV, map[entities.VerseIndex]string{
		entities.NewVerseIndex(0, 0, 0):  "In the beginning God created the heaven and the earth.",
		entities.NewVerseIndex(0, 0, 1):  "And the earth was without form, and void.",
		entities.NewVerseIndex(0, 0, 2):  "And God said, Let there be light: and there was light.",
		entities.NewVerseIndex(42, 0, 0): "In the beginning was the Word.",
	})
	s.Add(ESV, map[entities.VerseIndex]string{
		entities.NewVerseIndex(0, 0, 0): "In the beginning, God created the heavens and the earth.",
		entities.NewVerseIndex(0, 0, 1): "The earth was without form and void.",
	})
	return s
}

// Add registers a translation in the catalog.
func (s *Source) Add(info entities.TranslationInfo, verses map[entities.VerseIndex]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]entities.VerseRow, 0, len(verses))
	for index, text := range verses {
		rows = append(rows, entities.VerseRow{
			TranslationShortName: info.ShortName,
			BookIndex:            index.BookIndex,
			ChapterIndex:         index.ChapterIndex,
			VerseIndex:           index.VerseIndex,
			Text:                 text,
		})
	}
	s.catalog = append(s.catalog, info)
	s.translations[info.ShortName] = &remote.RemoteTranslation{
		Info:           info,
		BookNames:      BookNames(),
		BookShortNames: BookShortNames(),
		Verses:         rows,
	}
}

// BookNames are full book names, Genesis and John spelled out.
func BookNames() []string {
	names := make([]string, entities.BookCount)
	for i := range names {
		names[i] = "Book " + string(rune('A'+i%26))
	}
	names[0] = "Genesis"
	names[42] = "John"
	return names
}

func BookShortNames() []string {
	names := make([]string, entities.BookCount)
	for i := range names {
		names[i] = string(rune('a' + i%26))
	}
	names[0] = "Gen."
	names[42] = "John"
	return names
}

func (s *Source) Enabled() bool {
	return true
}

func (s *Source) FetchTranslationList(ctx context.Context) ([]entities.TranslationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.TranslationInfo(nil), s.catalog...), nil
}

func (s *Source) FetchTranslation(ctx context.Context, info entities.TranslationInfo, progress chan<- int) (*remote.RemoteTranslation, error) {
	send(progress, 0)
	send(progress, 99)

	s.mu.Lock()
	defer s.mu.Unlock()
	translation, ok := s.translations[info.ShortName]
	if !ok {
		return nil, remote.ErrNotFound
	}
	copied := *translation
	copied.Verses = append([]entities.VerseRow(nil), translation.Verses...)
	return &copied, nil
}

func (s *Source) FetchStrongNumberVerses(ctx context.Context, progress chan<- int) (map[entities.VerseIndex][]int, error) {
	send(progress, 99)
	return s.StrongVerses, nil
}

func (s *Source) FetchStrongNumberWords(ctx context.Context, progress chan<- int) (*remote.StrongNumberWords, error) {
	send(progress, 99)
	return s.StrongWords, nil
}

func send(progress chan<- int, value int) {
	if progress == nil {
		return
	}
	select {
	case progress <- value:
	default:
	}
}
