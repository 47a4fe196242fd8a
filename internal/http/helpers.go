package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/remote"
	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
	"github.com/mrlokans/joshua/internal/utils"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondConflict sends a 409 Conflict response.
func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message, Code: "conflict"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
// Use the specific helpers (respondBadRequest, respondNotFound, etc.) when possible.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps manager errors to HTTP responses.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, services.ErrInvalidVerseIndex),
		errors.Is(err, services.ErrInvalidSortOrder),
		errors.Is(err, services.ErrInvalidHighlightColor),
		errors.Is(err, services.ErrInvalidSettings),
		errors.Is(err, services.ErrEmptyQuery):
		respondBadRequest(c, err.Error())
	case errors.Is(err, services.ErrNoCurrentTranslation),
		errors.Is(err, services.ErrTranslationNotDownloaded),
		errors.Is(err, services.ErrCannotRemoveCurrentTranslation):
		respondConflict(c, err.Error())
	case errors.Is(err, services.ErrDownloadInProgress),
		errors.Is(err, tasks.ErrAlreadyQueued):
		respondConflict(c, err.Error())
	case errors.Is(err, services.ErrTranslationNotFound):
		respondNotFound(c, "translation")
	case errors.Is(err, services.ErrVerseNotFound):
		respondNotFound(c, "verse")
	case errors.Is(err, services.ErrAnnotationNotFound):
		respondNotFound(c, "annotation")
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "record")
	case errors.Is(err, remote.ErrDisabled):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, tasks.ErrQueueDisabled):
		respondError(c, http.StatusNotImplemented, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIntParam extracts a non-negative integer from URL parameters.
// Returns the parsed value or responds with a 400 error and returns 0, false.
func parseIntParam(c *gin.Context, paramName string) (int, bool) {
	value, err := strconv.Atoi(c.Param(paramName))
	if err != nil || value < 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return value, true
}

// parseChapterParams reads the zero-based :book and :chapter parameters.
func parseChapterParams(c *gin.Context) (int, int, bool) {
	book, ok := parseIntParam(c, "book")
	if !ok {
		return 0, 0, false
	}
	chapter, ok := parseIntParam(c, "chapter")
	if !ok {
		return 0, 0, false
	}
	if !entities.NewVerseIndex(book, chapter, 0).IsValid() {
		respondBadRequest(c, services.ErrInvalidVerseIndex.Error())
		return 0, 0, false
	}
	return book, chapter, true
}

// parseVerseIndexParams reads the zero-based :book, :chapter and :verse parameters.
func parseVerseIndexParams(c *gin.Context) (entities.VerseIndex, bool) {
	book, chapter, ok := parseChapterParams(c)
	if !ok {
		return entities.InvalidVerseIndex, false
	}
	verse, ok := parseIntParam(c, "verse")
	if !ok {
		return entities.InvalidVerseIndex, false
	}
	index := entities.NewVerseIndex(book, chapter, verse)
	if !index.IsValid() {
		respondBadRequest(c, services.ErrInvalidVerseIndex.Error())
		return entities.InvalidVerseIndex, false
	}
	return index, true
}

// parseSortQuery reads the optional ?sort= parameter. ok is false when a
// response was already written.
func parseSortQuery(c *gin.Context, fallback entities.SortOrder) (entities.SortOrder, bool) {
	raw := c.Query("sort")
	if raw == "" {
		return fallback, true
	}
	order, err := entities.ParseSortOrder(raw)
	if err != nil {
		respondBadRequest(c, err.Error())
		return fallback, false
	}
	return order, true
}

// parseHighlightColor accepts colour names, "#AARRGGBB" and the signed
// integer form used by Android clients.
func parseHighlightColor(value string) (entities.HighlightColor, error) {
	color, err := entities.ParseHighlightColor(value)
	if err == nil {
		return color, nil
	}
	argb, signedErr := utils.ParseSignedARGB(value)
	if signedErr != nil {
		return entities.HighlightColorNone, err
	}
	color = entities.HighlightColor(argb)
	if !color.IsAvailable() {
		return entities.HighlightColorNone, services.ErrInvalidHighlightColor
	}
	return color, nil
}

// translationQuery returns ?translation= or the current translation.
func translationQuery(c *gin.Context, reading *services.ReadingManager) (string, error) {
	if translation := c.Query("translation"); translation != "" {
		return translation, nil
	}
	return reading.RequireCurrentTranslation()
}
