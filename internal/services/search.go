package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/joshua/internal/entities"
)

const searchCachePrefix = "search:"

// SearchRequest is a query typed by the user. Instant searches run while
// typing and return a limited result set; full searches are cached.
type SearchRequest struct {
	Query         string `json:"query"`
	InstantSearch bool   `json:"instant_search"`
}

type SearchResultItem struct {
	VerseIndex entities.VerseIndex `json:"verse_index"`
	Text       string              `json:"text"`
}

// SearchResultGroup holds the matches of one book.
type SearchResultGroup struct {
	Title string             `json:"title"`
	Items []SearchResultItem `json:"items"`
}

type SearchResult struct {
	Query       string              `json:"query"`
	Translation string              `json:"translation"`
	Instant     bool                `json:"instant"`
	Total       int                 `json:"total"`
	Groups      []SearchResultGroup `json:"groups"`
}

type SearcherConfig struct {
	InstantLimit int
	CacheTTL     time.Duration
}

// Searcher runs verse searches against the current translation.
type Searcher struct {
	reading *ReadingManager
	cache   SearchCache
	cfg     SearcherConfig
}

// NewSearcher creates a searcher. cache may be nil to disable caching.
func NewSearcher(reading *ReadingManager, cache SearchCache, cfg SearcherConfig) *Searcher {
	return &Searcher{reading: reading, cache: cache, cfg: cfg}
}

func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query := strings.Join(strings.Fields(req.Query), " ")
	if query == "" {
		return nil, ErrEmptyQuery
	}

	translation, err := s.reading.RequireCurrentTranslation()
	if err != nil {
		return nil, err
	}

	key := searchCacheKey(translation, query)
	if !req.InstantSearch && s.cache != nil {
		var cached SearchResult
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("Search cache read failed: %v", err)
		} else if found {
			return &cached, nil
		}
	}

	limit := 0
	if req.InstantSearch {
		limit = s.cfg.InstantLimit
	}
	verses, err := s.reading.Search(translation, query, limit)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookNames, err := s.reading.ReadBookNames(translation)
	if err != nil {
		return nil, err
	}
	bookShortNames, err := s.reading.ReadBookShortNames(translation)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Query:       query,
		Translation: translation,
		Instant:     req.InstantSearch,
		Total:       len(verses),
		Groups:      groupSearchResults(verses, bookNames, bookShortNames),
	}

	if !req.InstantSearch && s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			log.Printf("Search cache write failed: %v", err)
		}
	}
	return result, nil
}

// Invalidate drops cached results of a translation.
func (s *Searcher) Invalidate(ctx context.Context, translation string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, searchCachePrefix+translation+":")
}

// searchCacheKey uses the query as searched: LIKE folds ASCII case only.
func searchCacheKey(translation, query string) string {
	return searchCachePrefix + translation + ":" + query
}

// groupSearchResults groups verses in canonical order under their book name.
func groupSearchResults(verses []entities.Verse, bookNames, bookShortNames []string) []SearchResultGroup {
	groups := []SearchResultGroup{}
	lastBook := -1
	for _, verse := range verses {
		index := verse.VerseIndex
		if index.BookIndex != lastBook {
			groups = append(groups, SearchResultGroup{Title: bookName(bookNames, index.BookIndex)})
			lastBook = index.BookIndex
		}
		group := &groups[len(groups)-1]
		group.Items = append(group.Items, SearchResultItem{
			VerseIndex: index,
			Text: fmt.Sprintf("%s %d:%d %s",
				bookName(bookShortNames, index.BookIndex), index.ChapterIndex+1, index.VerseIndex+1, verse.Text.Text),
		})
	}
	return groups
}
