package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

const defaultDownloadListLimit = 20

// TranslationsController lists, downloads and removes translations.
type TranslationsController struct {
	translations *services.TranslationManager
	dispatcher   *tasks.Dispatcher
}

func NewTranslationsController(translations *services.TranslationManager, dispatcher *tasks.Dispatcher) *TranslationsController {
	return &TranslationsController{translations: translations, dispatcher: dispatcher}
}

// List handles GET /api/translations?refresh=true
func (tc *TranslationsController) List(c *gin.Context) {
	refresh := c.Query("refresh") == "true"
	if _, err := tc.translations.ReloadTranslations(c.Request.Context(), refresh); err != nil {
		respondServiceError(c, err, "reload translations")
		return
	}

	list, err := tc.translations.ListTranslations()
	if err != nil {
		respondInternalError(c, err, "list translations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Download handles POST /api/translations/:shortName/download
func (tc *TranslationsController) Download(c *gin.Context) {
	shortName := c.Param("shortName")
	if tc.translations.IsDownloading(shortName) {
		respondConflict(c, services.ErrDownloadInProgress.Error())
		return
	}

	job, err := tc.dispatcher.DownloadTranslation(shortName)
	if err != nil {
		respondServiceError(c, err, "queue translation download")
		return
	}
	respondAccepted(c, "Download of "+shortName+" started", job)
}

// Remove handles DELETE /api/translations/:shortName
func (tc *TranslationsController) Remove(c *gin.Context) {
	shortName := c.Param("shortName")
	if err := tc.translations.RemoveTranslation(shortName); err != nil {
		respondServiceError(c, err, "remove translation")
		return
	}
	respondSuccess(c, shortName+" removed")
}

// GetDownload handles GET /api/downloads/:id
func (tc *TranslationsController) GetDownload(c *gin.Context) {
	job, err := tc.dispatcher.Download(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get download")
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListDownloads handles GET /api/downloads?limit=
func (tc *TranslationsController) ListDownloads(c *gin.Context) {
	limit := defaultDownloadListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "invalid limit")
			return
		}
		limit = parsed
	}

	downloads, err := tc.dispatcher.Downloads(limit)
	if err != nil {
		respondInternalError(c, err, "list downloads")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloads": downloads})
}
