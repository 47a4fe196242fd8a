package entities

import (
	"time"
)

// Metadata is a key/value row holding reading state and user preferences.
type Metadata struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Metadata) TableName() string {
	return "metadata"
}

// Known metadata keys
const (
	// Reading state
	MetadataKeyCurrentTranslation   = "last_translation"
	MetadataKeyCurrentBookIndex     = "current_book_index"
	MetadataKeyCurrentChapterIndex  = "current_chapter_index"
	MetadataKeyCurrentVerseIndex    = "current_verse_index"
	MetadataKeyParallelTranslations = "parallel_translations"

	// Translation catalog
	MetadataKeyTranslationListRefreshedAt = "translation_list_refreshed_at"

	// Annotation sort orders
	MetadataKeyBookmarkSortOrder  = "bookmark_sort_order"
	MetadataKeyHighlightSortOrder = "highlight_sort_order"
	MetadataKeyNoteSortOrder      = "note_sort_order"

	// Reading progress
	MetadataKeyContinuousReadingDays = "continuous_reading_days"
	MetadataKeyLastReadingTimestamp  = "last_reading_timestamp"

	// Settings
	MetadataKeyFontSizeScale               = "settings_font_size_scale"
	MetadataKeyKeepScreenOn                = "settings_keep_screen_on"
	MetadataKeyNightModeOn                 = "settings_night_mode_on"
	MetadataKeySimpleReadingModeOn         = "settings_simple_reading_mode_on"
	MetadataKeyHideSearchButton            = "settings_hide_search_button"
	MetadataKeyConsolidateVersesForSharing = "settings_consolidate_verses_for_sharing"
)

// SortOrderKey returns the metadata key storing the sort order of an annotation kind.
func SortOrderKey(kind AnnotationKind) string {
	switch kind {
	case AnnotationHighlight:
		return MetadataKeyHighlightSortOrder
	case AnnotationNote:
		return MetadataKeyNoteSortOrder
	default:
		return MetadataKeyBookmarkSortOrder
	}
}

const (
	MinFontSizeScale     = 1
	MaxFontSizeScale     = 6
	DefaultFontSizeScale = 2
)

type Settings struct {
	FontSizeScale               int  `json:"font_size_scale"`
	KeepScreenOn                bool `json:"keep_screen_on"`
	NightModeOn                 bool `json:"night_mode_on"`
	SimpleReadingModeOn         bool `json:"simple_reading_mode_on"`
	HideSearchButton            bool `json:"hide_search_button"`
	ConsolidateVersesForSharing bool `json:"consolidate_verses_for_sharing"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		FontSizeScale: DefaultFontSizeScale,
		KeepScreenOn:  true,
	}
}
