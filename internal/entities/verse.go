package entities

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	BookCount         = 66
	OldTestamentCount = 39
	NewTestamentCount = BookCount - OldTestamentCount
	TotalChapterCount = 1189

	// MaxVerseCount is the verse count of the longest chapter (Psalm 119).
	MaxVerseCount = 176
)

var chapterCounts = [BookCount]int{
	50, 40, 27, 36, 34, 24, 21, 4, 31, 24, 22, 25, 29, 36, 10, 13, 10, 42, 150, 31,
	12, 8, 66, 52, 5, 48, 12, 14, 3, 9, 1, 4, 7, 3, 3, 3, 2, 14, 4,
	28, 16, 24, 21, 28, 16, 16, 13, 6, 6, 4, 4, 5, 3, 6, 4, 3, 1, 13, 5, 5, 3, 5, 1, 1, 1, 22,
}

// ChapterCount returns the number of chapters of the given book, or 0 if the
// book index is out of range.
func ChapterCount(bookIndex int) int {
	if bookIndex < 0 || bookIndex >= BookCount {
		return 0
	}
	return chapterCounts[bookIndex]
}

// IsOldTestament reports whether the book belongs to the Old Testament.
func IsOldTestament(bookIndex int) bool {
	return bookIndex >= 0 && bookIndex < OldTestamentCount
}

// VerseIndex identifies a single verse. All three indexes are zero-based.
type VerseIndex struct {
	BookIndex    int `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex int `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex   int `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
}

// InvalidVerseIndex is used wherever no verse is selected.
var InvalidVerseIndex = VerseIndex{BookIndex: -1, ChapterIndex: -1, VerseIndex: -1}

func NewVerseIndex(bookIndex, chapterIndex, verseIndex int) VerseIndex {
	return VerseIndex{BookIndex: bookIndex, ChapterIndex: chapterIndex, VerseIndex: verseIndex}
}

// IsValid reports whether the index points inside the canonical bounds.
func (v VerseIndex) IsValid() bool {
	chapters := ChapterCount(v.BookIndex)
	return chapters > 0 &&
		v.ChapterIndex >= 0 && v.ChapterIndex < chapters &&
		v.VerseIndex >= 0 && v.VerseIndex < MaxVerseCount
}

// Less orders indexes canonically: book, then chapter, then verse.
func (v VerseIndex) Less(other VerseIndex) bool {
	if v.BookIndex != other.BookIndex {
		return v.BookIndex < other.BookIndex
	}
	if v.ChapterIndex != other.ChapterIndex {
		return v.ChapterIndex < other.ChapterIndex
	}
	return v.VerseIndex < other.VerseIndex
}

// String returns the zero-based "book:chapter:verse" form.
func (v VerseIndex) String() string {
	return fmt.Sprintf("%d:%d:%d", v.BookIndex, v.ChapterIndex, v.VerseIndex)
}

// ParseVerseIndex parses the form produced by String.
func ParseVerseIndex(s string) (VerseIndex, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return InvalidVerseIndex, fmt.Errorf("invalid verse index %q", s)
	}

	var values [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return InvalidVerseIndex, fmt.Errorf("invalid verse index %q: %w", s, err)
		}
		values[i] = n
	}
	return NewVerseIndex(values[0], values[1], values[2]), nil
}

// VerseText is the text of a verse in one translation.
type VerseText struct {
	TranslationShortName string `json:"translation"`
	Text                 string `json:"text"`
}

// Verse is a verse in the current translation along with the same verse in
// any requested parallel translations.
type Verse struct {
	VerseIndex VerseIndex  `json:"verse_index"`
	Text       VerseText   `json:"text"`
	Parallel   []VerseText `json:"parallel,omitempty"`
}

// VerseRow is the stored form of a verse.
type VerseRow struct {
	TranslationShortName string `gorm:"primaryKey;size:32" json:"translation"`
	BookIndex            int    `gorm:"primaryKey;autoIncrement:false" json:"book_index"`
	ChapterIndex         int    `gorm:"primaryKey;autoIncrement:false" json:"chapter_index"`
	VerseIndex           int    `gorm:"primaryKey;autoIncrement:false" json:"verse_index"`
	Text                 string `gorm:"type:text;not null" json:"text"`
}

func (VerseRow) TableName() string {
	return "verses"
}

func (r VerseRow) Index() VerseIndex {
	return NewVerseIndex(r.BookIndex, r.ChapterIndex, r.VerseIndex)
}

func (r VerseRow) ToVerse() Verse {
	return Verse{
		VerseIndex: r.Index(),
		Text:       VerseText{TranslationShortName: r.TranslationShortName, Text: r.Text},
	}
}
