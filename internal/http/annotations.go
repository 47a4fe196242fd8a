package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// saveFunc stores the annotation described by the request body. It writes
// its own error response and returns false on failure.
type saveFunc func(c *gin.Context, index entities.VerseIndex) bool

// AnnotationsController serves one kind of annotation: bookmarks,
// highlights or notes.
type AnnotationsController[T entities.VerseAnnotation] struct {
	manager *services.AnnotationManager[T]
	save    saveFunc
}

func NewBookmarksController(bookmarks *services.BookmarkManager) *AnnotationsController[entities.Bookmark] {
	return &AnnotationsController[entities.Bookmark]{
		manager: bookmarks.AnnotationManager,
		save: func(c *gin.Context, index entities.VerseIndex) bool {
			if err := bookmarks.AddBookmark(index); err != nil {
				respondServiceError(c, err, "save bookmark")
				return false
			}
			return true
		},
	}
}

func NewHighlightsController(highlights *services.HighlightManager) *AnnotationsController[entities.Highlight] {
	return &AnnotationsController[entities.Highlight]{
		manager: highlights.AnnotationManager,
		save: func(c *gin.Context, index entities.VerseIndex) bool {
			var body highlightRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				respondBadRequest(c, "color is required")
				return false
			}
			color, err := parseHighlightColor(body.Color)
			if err != nil {
				respondBadRequest(c, err.Error())
				return false
			}
			if err := highlights.SaveHighlight(index, color); err != nil {
				respondServiceError(c, err, "save highlight")
				return false
			}
			return true
		},
	}
}

func NewNotesController(notes *services.NoteManager) *AnnotationsController[entities.Note] {
	return &AnnotationsController[entities.Note]{
		manager: notes.AnnotationManager,
		save: func(c *gin.Context, index entities.VerseIndex) bool {
			var body noteRequest
			if err := c.ShouldBindJSON(&body); err != nil {
				respondBadRequest(c, "invalid request body")
				return false
			}
			if err := notes.SaveNote(index, body.Note); err != nil {
				respondServiceError(c, err, "save note")
				return false
			}
			return true
		},
	}
}

// Register mounts the routes under group, e.g. /api/bookmarks.
func (ac *AnnotationsController[T]) Register(group *gin.RouterGroup) {
	group.GET("", ac.List)
	group.GET("/sort-order", ac.GetSortOrder)
	group.PUT("/sort-order", ac.PutSortOrder)
	group.GET("/chapter/:book/:chapter", ac.Chapter)
	group.GET("/verse/:book/:chapter/:verse", ac.GetVerse)
	group.PUT("/verse/:book/:chapter/:verse", ac.PutVerse)
	group.DELETE("/verse/:book/:chapter/:verse", ac.DeleteVerse)
}

type sortOrderResponse struct {
	SortOrder string `json:"sort_order"`
}

// GetSortOrder handles GET /api/<kind>/sort-order
func (ac *AnnotationsController[T]) GetSortOrder(c *gin.Context) {
	order, err := ac.manager.ReadSortOrder()
	if err != nil {
		respondInternalError(c, err, "read sort order")
		return
	}
	c.JSON(http.StatusOK, sortOrderResponse{SortOrder: order.String()})
}

// PutSortOrder handles PUT /api/<kind>/sort-order with {"sort_order": "book"}.
func (ac *AnnotationsController[T]) PutSortOrder(c *gin.Context) {
	var body sortOrderResponse
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	order, err := entities.ParseSortOrder(body.SortOrder)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := ac.manager.SaveSortOrder(order); err != nil {
		respondServiceError(c, err, "save sort order")
		return
	}
	c.JSON(http.StatusOK, sortOrderResponse{SortOrder: order.String()})
}

// List handles GET /api/<kind>?sort= and returns the display list. Without
// ?sort= the saved sort order is used.
func (ac *AnnotationsController[T]) List(c *gin.Context) {
	saved, err := ac.manager.ReadSortOrder()
	if err != nil {
		respondInternalError(c, err, "read sort order")
		return
	}
	order, ok := parseSortQuery(c, saved)
	if !ok {
		return
	}

	list, err := ac.manager.List(order)
	if err != nil {
		respondServiceError(c, err, "list annotations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Chapter handles GET /api/<kind>/chapter/:book/:chapter
func (ac *AnnotationsController[T]) Chapter(c *gin.Context) {
	book, chapter, ok := parseChapterParams(c)
	if !ok {
		return
	}
	items, err := ac.manager.ReadChapter(book, chapter)
	if err != nil {
		respondServiceError(c, err, "read chapter annotations")
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"kind": ac.manager.Kind(), "items": items})
}

// GetVerse handles GET /api/<kind>/verse/:book/:chapter/:verse
func (ac *AnnotationsController[T]) GetVerse(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	item, err := ac.manager.ReadVerse(index)
	if err != nil {
		respondServiceError(c, err, "read annotation")
		return
	}
	c.JSON(http.StatusOK, item)
}

// PutVerse handles PUT /api/<kind>/verse/:book/:chapter/:verse
func (ac *AnnotationsController[T]) PutVerse(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	if !ac.save(c, index) {
		return
	}

	item, err := ac.manager.ReadVerse(index)
	if errors.Is(err, services.ErrAnnotationNotFound) {
		// A blank note or the "none" colour removes the annotation.
		respondSuccess(c, string(ac.manager.Kind())+" removed")
		return
	}
	if err != nil {
		respondServiceError(c, err, "read annotation")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteVerse handles DELETE /api/<kind>/verse/:book/:chapter/:verse
func (ac *AnnotationsController[T]) DeleteVerse(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	if err := ac.manager.Remove(index); err != nil {
		respondServiceError(c, err, "remove annotation")
		return
	}
	respondSuccess(c, string(ac.manager.Kind())+" removed")
}
