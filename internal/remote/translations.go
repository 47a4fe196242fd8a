package remote

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mrlokans/joshua/internal/entities"
)

// RemoteTranslation is a parsed translation archive.
type RemoteTranslation struct {
	Info           entities.TranslationInfo
	BookNames      []string
	BookShortNames []string
	Verses         []entities.VerseRow
}

type translationListResponse struct {
	Translations []translationEntry `json:"translations"`
}

type translationEntry struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Language  string `json:"language"`
	Size      int64  `json:"size"`
}

type booksResponse struct {
	ShortName      string   `json:"shortName"`
	Name           string   `json:"name"`
	Language       string   `json:"language"`
	BookNames      []string `json:"bookNames"`
	BookShortNames []string `json:"bookShortNames"`
}

type chapterResponse struct {
	Verses []string `json:"verses"`
}

// FetchTranslationList downloads the translation catalog.
func (c *Client) FetchTranslationList(ctx context.Context) ([]entities.TranslationInfo, error) {
	resp, err := c.get(ctx, "/list.json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list translationListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode translation list: %w", err)
	}

	translations := make([]entities.TranslationInfo, 0, len(list.Translations))
	for _, entry := range list.Translations {
		if entry.ShortName == "" {
			continue
		}
		translations = append(translations, entities.TranslationInfo{
			ShortName: entry.ShortName,
			Name:      entry.Name,
			Language:  entry.Language,
			Size:      entry.Size,
		})
	}
	return translations, nil
}

func translationPath(shortName string) string {
	return "/translations/" + shortName + ".zip"
}

// FetchTranslation downloads and parses a translation archive, reporting
// 0..99 on progress while downloading.
func (c *Client) FetchTranslation(ctx context.Context, info entities.TranslationInfo, progress chan<- int) (*RemoteTranslation, error) {
	archive, cleanup, err := c.fetchArchive(ctx, translationPath(info.ShortName), info.Size, progress)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	translation, err := parseTranslation(&archive.Reader)
	if err != nil {
		return nil, fmt.Errorf("translation %s: %w", info.ShortName, err)
	}

	// The catalog entry wins over the archive header for display fields.
	translation.Info = info
	return translation, nil
}

func parseTranslation(archive *zip.Reader) (*RemoteTranslation, error) {
	translation := &RemoteTranslation{}
	foundBooks := false

	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := path.Base(file.Name)

		if name == "books.json" {
			var books booksResponse
			if err := decodeZipEntry(file, &books); err != nil {
				return nil, err
			}
			if len(books.BookNames) != entities.BookCount || len(books.BookShortNames) != entities.BookCount {
				return nil, fmt.Errorf("books.json: expected %d book names", entities.BookCount)
			}
			translation.Info = entities.TranslationInfo{
				ShortName: books.ShortName,
				Name:      books.Name,
				Language:  books.Language,
			}
			translation.BookNames = books.BookNames
			translation.BookShortNames = books.BookShortNames
			foundBooks = true
			continue
		}

		bookIndex, chapterIndex, ok := parseChapterFilename(name)
		if !ok {
			continue
		}
		var chapter chapterResponse
		if err := decodeZipEntry(file, &chapter); err != nil {
			return nil, err
		}
		for verseIndex, text := range chapter.Verses {
			translation.Verses = append(translation.Verses, entities.VerseRow{
				BookIndex:    bookIndex,
				ChapterIndex: chapterIndex,
				VerseIndex:   verseIndex,
				Text:         text,
			})
		}
	}

	if !foundBooks {
		return nil, fmt.Errorf("archive has no books.json")
	}
	return translation, nil
}

// parseChapterFilename parses "{book}-{chapter}.json" with zero-based indexes.
func parseChapterFilename(name string) (int, int, bool) {
	base, ok := strings.CutSuffix(name, ".json")
	if !ok {
		return 0, 0, false
	}
	var book, chapter int
	if _, err := fmt.Sscanf(base, "%d-%d", &book, &chapter); err != nil {
		return 0, 0, false
	}
	if fmt.Sprintf("%d-%d", book, chapter) != base {
		return 0, 0, false
	}
	if book < 0 || book >= entities.BookCount || chapter < 0 || chapter >= entities.ChapterCount(book) {
		return 0, 0, false
	}
	return book, chapter, true
}
