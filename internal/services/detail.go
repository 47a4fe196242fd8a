package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/jobs"
)

// VerseDetail is everything known about a single verse.
type VerseDetail struct {
	VerseIndex               entities.VerseIndex     `json:"verse_index"`
	FollowingEmptyVerseCount int                     `json:"following_empty_verse_count"`
	BookName                 string                  `json:"book_name"`
	Texts                    []VerseDetailText       `json:"texts"`
	Bookmarked               bool                    `json:"bookmarked"`
	HighlightColor           entities.HighlightColor `json:"highlight_color"`
	Note                     string                  `json:"note"`
	StrongNumbers            []entities.StrongNumber `json:"strong_numbers"`
}

// VerseDetailText is the verse in one translation; the first entry is the
// requested translation.
type VerseDetailText struct {
	TranslationShortName string `json:"translation"`
	TranslationName      string `json:"translation_name"`
	Text                 string `json:"text"`
}

// VerseDetailService assembles verse details and applies per-verse updates.
// Updates to the same verse and annotation kind replace each other: a
// pending update is cancelled when a newer one arrives.
type VerseDetailService struct {
	reading      *ReadingManager
	translations *TranslationManager
	bookmarks    *BookmarkManager
	highlights   *HighlightManager
	notes        *NoteManager
	strongs      *StrongNumberManager
	updates      *jobs.Latest
}

func NewVerseDetailService(
	reading *ReadingManager,
	translations *TranslationManager,
	bookmarks *BookmarkManager,
	highlights *HighlightManager,
	notes *NoteManager,
	strongs *StrongNumberManager,
) *VerseDetailService {
	return &VerseDetailService{
		reading:      reading,
		translations: translations,
		bookmarks:    bookmarks,
		highlights:   highlights,
		notes:        notes,
		strongs:      strongs,
		updates:      jobs.NewLatest(),
	}
}

// Read returns the detail of a verse in translation. Empty verses following
// it are merged into it; a requested empty verse resolves to the previous
// non-empty one.
func (s *VerseDetailService) Read(translation string, index entities.VerseIndex) (*VerseDetail, error) {
	if !index.IsValid() {
		return nil, ErrInvalidVerseIndex
	}

	chapter, err := s.reading.ReadVerses(translation, nil, index.BookIndex, index.ChapterIndex)
	if err != nil {
		return nil, err
	}
	position := -1
	for i, verse := range chapter {
		if verse.VerseIndex.VerseIndex == index.VerseIndex {
			position = i
			break
		}
	}
	if position < 0 {
		return nil, ErrVerseNotFound
	}
	for position > 0 && chapter[position].Text.Text == "" {
		position--
	}
	following := 0
	for i := position + 1; i < len(chapter) && chapter[i].Text.Text == ""; i++ {
		following++
	}
	resolved := chapter[position].VerseIndex

	downloaded, err := s.translations.DownloadedTranslations()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(downloaded))
	for _, t := range downloaded {
		names[t.ShortName] = t.Name
	}

	detail := &VerseDetail{
		VerseIndex:               resolved,
		FollowingEmptyVerseCount: following,
		Texts: []VerseDetailText{{
			TranslationShortName: translation,
			TranslationName:      names[translation],
			Text:                 chapter[position].Text.Text,
		}},
		StrongNumbers: []entities.StrongNumber{},
	}

	bookNames, err := s.reading.ReadBookNames(translation)
	if err != nil {
		return nil, err
	}
	detail.BookName = bookName(bookNames, resolved.BookIndex)

	parallel := make([]entities.TranslationInfo, 0, len(downloaded))
	for _, t := range downloaded {
		if t.ShortName != translation {
			parallel = append(parallel, t)
		}
	}
	NewTranslationComparator(SortByLanguageThenShortName, "").Sort(parallel)

	for _, t := range parallel {
		verses, err := s.reading.ReadVerses(t.ShortName, nil, resolved.BookIndex, resolved.ChapterIndex)
		if err != nil {
			return nil, err
		}
		detail.Texts = append(detail.Texts, VerseDetailText{
			TranslationShortName: t.ShortName,
			TranslationName:      t.Name,
			Text:                 mergedText(verses, resolved.VerseIndex, following),
		})
	}

	if err := s.readAnnotations(detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// mergedText joins the texts of verses first..first+following.
func mergedText(verses []entities.Verse, first, following int) string {
	var parts []string
	for _, verse := range verses {
		v := verse.VerseIndex.VerseIndex
		if v >= first && v <= first+following && verse.Text.Text != "" {
			parts = append(parts, verse.Text.Text)
		}
	}
	return strings.Join(parts, " ")
}

func (s *VerseDetailService) readAnnotations(detail *VerseDetail) error {
	index := detail.VerseIndex

	bookmarked, err := s.bookmarks.Exists(index)
	if err != nil {
		return err
	}
	detail.Bookmarked = bookmarked

	highlight, err := s.highlights.ReadVerse(index)
	switch {
	case err == nil:
		detail.HighlightColor = highlight.Color
	case !errors.Is(err, ErrAnnotationNotFound):
		return err
	}

	note, err := s.notes.ReadVerse(index)
	switch {
	case err == nil:
		detail.Note = note.Note
	case !errors.Is(err, ErrAnnotationNotFound):
		return err
	}

	if s.strongs != nil {
		numbers, err := s.strongs.Read(index)
		if err != nil {
			return err
		}
		detail.StrongNumbers = numbers
	}
	return nil
}

// ToggleBookmark flips the bookmark of a verse and reports the new state.
func (s *VerseDetailService) ToggleBookmark(ctx context.Context, index entities.VerseIndex) (bool, error) {
	var bookmarked bool
	err := s.run(ctx, updateKey(entities.AnnotationBookmark, index), func() error {
		var err error
		bookmarked, err = s.bookmarks.ToggleBookmark(index)
		return err
	})
	return bookmarked, err
}

// UpdateHighlight sets the highlight colour; HighlightColorNone removes it.
func (s *VerseDetailService) UpdateHighlight(ctx context.Context, index entities.VerseIndex, color entities.HighlightColor) error {
	return s.run(ctx, updateKey(entities.AnnotationHighlight, index), func() error {
		return s.highlights.SaveHighlight(index, color)
	})
}

// UpdateNote stores the note; a blank note removes it.
func (s *VerseDetailService) UpdateNote(ctx context.Context, index entities.VerseIndex, note string) error {
	return s.run(ctx, updateKey(entities.AnnotationNote, index), func() error {
		return s.notes.SaveNote(index, note)
	})
}

// Wait blocks until all pending updates finished.
func (s *VerseDetailService) Wait() {
	s.updates.Wait()
}

// run executes fn as the latest job for key. It returns the caller's context
// error when the job was skipped before fn ran, because ctx was cancelled or
// a newer update for the same key replaced it. Once fn started, run waits for
// it and reports its result.
func (s *VerseDetailService) run(ctx context.Context, key string, fn func() error) error {
	var (
		ran bool
		err error
	)
	done := s.updates.Go(ctx, key, func(jobCtx context.Context) {
		if jobCtx.Err() != nil {
			return
		}
		ran = true
		err = fn()
	})
	<-done

	if !ran {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return context.Canceled
	}
	return err
}

func updateKey(kind entities.AnnotationKind, index entities.VerseIndex) string {
	return fmt.Sprintf("%s:%s", kind, index)
}
