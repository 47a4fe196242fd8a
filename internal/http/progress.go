package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/services"
)

// ProgressController tracks chapter reading time and reports the summary.
type ProgressController struct {
	progress *services.ReadingProgressManager
}

func NewProgressController(progress *services.ReadingProgressManager) *ProgressController {
	return &ProgressController{progress: progress}
}

// GetProgress handles GET /api/progress?details=true
func (pc *ProgressController) GetProgress(c *gin.Context) {
	summary, err := pc.progress.Summary()
	if err != nil {
		respondInternalError(c, err, "read reading progress")
		return
	}
	response := gin.H{"summary": summary}

	if c.Query("details") == "true" {
		progress, err := pc.progress.ReadReadingProgress()
		if err != nil {
			respondInternalError(c, err, "read reading progress")
			return
		}
		response["progress"] = progress
	}
	if index, tracking := pc.progress.Tracking(); tracking {
		response["tracking"] = index
	}
	c.JSON(http.StatusOK, response)
}

// Start handles POST /api/progress/start with a verse index body.
func (pc *ProgressController) Start(c *gin.Context) {
	var index entities.VerseIndex
	if err := c.ShouldBindJSON(&index); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := pc.progress.StartTracking(index); err != nil {
		respondServiceError(c, err, "start tracking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracking": index})
}

// Stop handles POST /api/progress/stop
func (pc *ProgressController) Stop(c *gin.Context) {
	if err := pc.progress.StopTracking(); err != nil {
		respondInternalError(c, err, "stop tracking")
		return
	}
	respondSuccess(c, "tracking stopped")
}
