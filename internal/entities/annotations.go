package entities

import (
	"fmt"
	"time"
)

// SortOrder controls how annotation lists are ordered.
type SortOrder int

const (
	SortByDate SortOrder = 0
	SortByBook SortOrder = 1
)

func (s SortOrder) IsValid() bool {
	return s == SortByDate || s == SortByBook
}

func (s SortOrder) String() string {
	switch s {
	case SortByDate:
		return "date"
	case SortByBook:
		return "book"
	default:
		return fmt.Sprintf("SortOrder(%d)", int(s))
	}
}

// ParseSortOrder accepts "date", "book" or the numeric form.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "date", "0":
		return SortByDate, nil
	case "book", "1":
		return SortByBook, nil
	}
	return SortByDate, fmt.Errorf("invalid sort order %q", s)
}

// AnnotationKind names the three kinds of per-verse annotations.
type AnnotationKind string

const (
	AnnotationBookmark  AnnotationKind = "bookmark"
	AnnotationHighlight AnnotationKind = "highlight"
	AnnotationNote      AnnotationKind = "note"
)

// HighlightColor is an ARGB colour.
type HighlightColor uint32

const (
	HighlightColorNone   HighlightColor = 0
	HighlightColorYellow HighlightColor = 0xFFFFFF00
	HighlightColorPink   HighlightColor = 0xFFFF00FF
	HighlightColorPurple HighlightColor = 0xFF7C4DFF
	HighlightColorGreen  HighlightColor = 0xFF00FF00
	HighlightColorBlue   HighlightColor = 0xFF2196F3
)

// AvailableHighlightColors lists the colours a user can pick, None first.
var AvailableHighlightColors = []HighlightColor{
	HighlightColorNone,
	HighlightColorYellow,
	HighlightColorPink,
	HighlightColorPurple,
	HighlightColorGreen,
	HighlightColorBlue,
}

func (c HighlightColor) IsAvailable() bool {
	for _, available := range AvailableHighlightColors {
		if c == available {
			return true
		}
	}
	return false
}

func (c HighlightColor) Name() string {
	switch c {
	case HighlightColorNone:
		return "none"
	case HighlightColorYellow:
		return "yellow"
	case HighlightColorPink:
		return "pink"
	case HighlightColorPurple:
		return "purple"
	case HighlightColorGreen:
		return "green"
	case HighlightColorBlue:
		return "blue"
	default:
		return fmt.Sprintf("#%08X", uint32(c))
	}
}

// ParseHighlightColor accepts a colour name or an ARGB hex value such as "#FFFFFF00".
func ParseHighlightColor(s string) (HighlightColor, error) {
	for _, c := range AvailableHighlightColors {
		if s == c.Name() {
			return c, nil
		}
	}
	var value uint32
	if _, err := fmt.Sscanf(s, "#%08X", &value); err == nil {
		return HighlightColor(value), nil
	}
	return HighlightColorNone, fmt.Errorf("invalid highlight color %q", s)
}

type Bookmark struct {
	VerseIndex `gorm:"embedded"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

func (b Bookmark) Index() VerseIndex { return b.VerseIndex }
func (b Bookmark) Time() time.Time { return b.Timestamp }
func (Bookmark) Kind() AnnotationKind { return AnnotationBookmark }

type Highlight struct {
	VerseIndex `gorm:"embedded"`
	Color      HighlightColor `gorm:"not null" json:"color"`
	Timestamp  time.Time      `gorm:"index" json:"timestamp"`
}

func (Highlight) TableName() string {
	return "highlights"
}

func (h Highlight) Index() VerseIndex { return h.VerseIndex }
func (h Highlight) Time() time.Time { return h.Timestamp }
func (Highlight) Kind() AnnotationKind { return AnnotationHighlight }

type Note struct {
	VerseIndex `gorm:"embedded"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

func (Note) TableName() string {
	return "notes"
}

func (n Note) Index() VerseIndex { return n.VerseIndex }
func (n Note) Time() time.Time { return n.Timestamp }
func (Note) Kind() AnnotationKind { return AnnotationNote }

// VerseAnnotation is satisfied by the three annotation models.
type VerseAnnotation interface {
	Bookmark | Highlight | Note
	Index() VerseIndex
	Time() time.Time
	Kind() AnnotationKind
}
