package services

import (
	"slices"
	"strings"

	"github.com/mrlokans/joshua/internal/entities"
)

type TranslationSortOrder int

const (
	SortByLanguageThenName TranslationSortOrder = iota
	SortByLanguageThenShortName
)

// TranslationComparator orders translations by language, with the
// preferred language first, then by name or short name.
type TranslationComparator struct {
	order             TranslationSortOrder
	preferredLanguage string
}

// NewTranslationComparator creates a comparator. preferredLanguage matches
// the language prefix, so "en" prefers both "en_gb" and "en_us".
func NewTranslationComparator(order TranslationSortOrder, preferredLanguage string) TranslationComparator {
	return TranslationComparator{
		order:             order,
		preferredLanguage: strings.ToLower(preferredLanguage),
	}
}

func (c TranslationComparator) Compare(a, b entities.TranslationInfo) int {
	aPreferred, bPreferred := c.isPreferred(a.Language), c.isPreferred(b.Language)
	if aPreferred != bPreferred {
		if aPreferred {
			return -1
		}
		return 1
	}

	if cmp := strings.Compare(strings.ToLower(a.Language), strings.ToLower(b.Language)); cmp != 0 {
		return cmp
	}

	if c.order == SortByLanguageThenShortName {
		return strings.Compare(a.ShortName, b.ShortName)
	}
	if cmp := strings.Compare(a.Name, b.Name); cmp != 0 {
		return cmp
	}
	return strings.Compare(a.ShortName, b.ShortName)
}

// Sort orders translations in place.
func (c TranslationComparator) Sort(translations []entities.TranslationInfo) {
	slices.SortStableFunc(translations, c.Compare)
}

func (c TranslationComparator) isPreferred(language string) bool {
	if c.preferredLanguage == "" {
		return false
	}
	language = strings.ToLower(language)
	prefix, _, _ := strings.Cut(language, "_")
	return language == c.preferredLanguage || prefix == c.preferredLanguage
}
