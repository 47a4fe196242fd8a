package remote

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/mrlokans/joshua/internal/entities"
)

const (
	strongVersesPath = "/strong_number/sn_verses.zip"
	strongWordsPath  = "/strong_number/sn_words.zip"
)

// StrongNumberWords holds the Hebrew and Greek lexicons keyed by number.
type StrongNumberWords struct {
	Hebrew map[int]string
	Greek  map[int]string
}

// FetchStrongNumberVerses downloads the per-verse Strong's numbers,
// reporting 0..99 on progress.
func (c *Client) FetchStrongNumberVerses(ctx context.Context, progress chan<- int) (map[entities.VerseIndex][]int, error) {
	archive, cleanup, err := c.fetchArchive(ctx, strongVersesPath, 0, progress)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	verses := make(map[entities.VerseIndex][]int)
	for _, file := range archive.File {
		bookIndex, chapterIndex, ok := parseChapterFilename(path.Base(file.Name))
		if !ok {
			continue
		}

		var chapter map[string][]int
		if err := decodeZipEntry(file, &chapter); err != nil {
			return nil, err
		}
		for key, numbers := range chapter {
			verseIndex, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid verse %q", file.Name, key)
			}
			index := entities.NewVerseIndex(bookIndex, chapterIndex, verseIndex)
			if !index.IsValid() {
				return nil, fmt.Errorf("%s: invalid verse %q", file.Name, key)
			}
			verses[index] = numbers
		}
	}
	return verses, nil
}

// FetchStrongNumberWords downloads the Hebrew and Greek lexicons,
// reporting 0..99 on progress.
func (c *Client) FetchStrongNumberWords(ctx context.Context, progress chan<- int) (*StrongNumberWords, error) {
	archive, cleanup, err := c.fetchArchive(ctx, strongWordsPath, 0, progress)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	words := &StrongNumberWords{}
	for _, file := range archive.File {
		var target *map[int]string
		switch path.Base(file.Name) {
		case "hebrew.json":
			target = &words.Hebrew
		case "greek.json":
			target = &words.Greek
		default:
			continue
		}

		var raw map[string]string
		if err := decodeZipEntry(file, &raw); err != nil {
			return nil, err
		}
		parsed := make(map[int]string, len(raw))
		for key, meaning := range raw {
			number, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid number %q", file.Name, key)
			}
			parsed[number] = meaning
		}
		*target = parsed
	}

	if words.Hebrew == nil || words.Greek == nil {
		return nil, fmt.Errorf("words archive must contain hebrew.json and greek.json")
	}
	return words, nil
}
