package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/services"
)

// VerseDetailController reads a verse with its annotations and applies
// per-verse updates.
type VerseDetailController struct {
	detail  *services.VerseDetailService
	reading *services.ReadingManager
}

func NewVerseDetailController(detail *services.VerseDetailService, reading *services.ReadingManager) *VerseDetailController {
	return &VerseDetailController{detail: detail, reading: reading}
}

// Detail handles GET /api/verses/:book/:chapter/:verse/detail?translation=
func (vc *VerseDetailController) Detail(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	translation, err := translationQuery(c, vc.reading)
	if err != nil {
		respondServiceError(c, err, "resolve translation")
		return
	}

	detail, err := vc.detail.Read(translation, index)
	if err != nil {
		respondServiceError(c, err, "read verse detail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ToggleBookmark handles PUT /api/verses/:book/:chapter/:verse/bookmark
func (vc *VerseDetailController) ToggleBookmark(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	bookmarked, err := vc.detail.ToggleBookmark(c.Request.Context(), index)
	if err != nil {
		respondServiceError(c, err, "toggle bookmark")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verse_index": index, "bookmarked": bookmarked})
}

type highlightRequest struct {
	Color string `json:"color" binding:"required"`
}

// UpdateHighlight handles PUT /api/verses/:book/:chapter/:verse/highlight
// with {"color": "yellow"}; "none" removes the highlight.
func (vc *VerseDetailController) UpdateHighlight(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	var body highlightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "color is required")
		return
	}
	color, err := parseHighlightColor(body.Color)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := vc.detail.UpdateHighlight(c.Request.Context(), index, color); err != nil {
		respondServiceError(c, err, "update highlight")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verse_index": index, "color": color.Name()})
}

type noteRequest struct {
	Note string `json:"note"`
}

// UpdateNote handles PUT /api/verses/:book/:chapter/:verse/note; a blank
// note removes it.
func (vc *VerseDetailController) UpdateNote(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	var body noteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := vc.detail.UpdateNote(c.Request.Context(), index, body.Note); err != nil {
		respondServiceError(c, err, "update note")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verse_index": index, "note": body.Note})
}
