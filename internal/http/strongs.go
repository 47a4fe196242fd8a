package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

type StrongsController struct {
	strongs    *services.StrongNumberManager
	dispatcher *tasks.Dispatcher
}

func NewStrongsController(strongs *services.StrongNumberManager, dispatcher *tasks.Dispatcher) *StrongsController {
	return &StrongsController{strongs: strongs, dispatcher: dispatcher}
}

// Download handles POST /api/strongs/download
func (sc *StrongsController) Download(c *gin.Context) {
	if sc.strongs.IsDownloading() {
		respondConflict(c, services.ErrDownloadInProgress.Error())
		return
	}
	job, err := sc.dispatcher.DownloadStrongNumbers()
	if err != nil {
		respondServiceError(c, err, "queue Strong's numbers download")
		return
	}
	respondAccepted(c, "Download of Strong's numbers started", job)
}

// Get handles GET /api/strongs/:book/:chapter/:verse
func (sc *StrongsController) Get(c *gin.Context) {
	index, ok := parseVerseIndexParams(c)
	if !ok {
		return
	}
	installed, err := sc.strongs.HasData()
	if err != nil {
		respondInternalError(c, err, "check Strong's numbers")
		return
	}
	if !installed {
		respondNotFound(c, "Strong's numbers")
		return
	}

	numbers, err := sc.strongs.Read(index)
	if err != nil {
		respondServiceError(c, err, "read Strong's numbers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verse_index": index, "strong_numbers": numbers})
}
