package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	dispatcher *tasks.Dispatcher
}

// NewTasksController creates a new TasksController.
func NewTasksController(dispatcher *tasks.Dispatcher) *TasksController {
	return &TasksController{dispatcher: dispatcher}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "download_translation",
			Description: "Download and install a translation (requires short_name)",
			Queue:       tasks.DownloadTranslationTask{}.Config().Name,
		},
		{
			Type:        "download_strong_numbers",
			Description: "Download and install Strong's numbers",
			Queue:       tasks.DownloadStrongNumbersTask{}.Config().Name,
		},
		{
			Type:        "refresh_catalog",
			Description: "Refresh the translation catalog from the remote server",
			Queue:       tasks.RefreshCatalogTask{}.Config().Name,
		},
		{
			Type:        "cleanup_downloads",
			Description: "Remove old download records and cached archives",
			Queue:       tasks.CleanupDownloadsTask{}.Config().Name,
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types":    types,
		"queue_enabled": tc.dispatcher.QueueEnabled(),
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" || taskID == tasks.InlineTaskID {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.dispatcher.Status(ctx, taskID)
	if err != nil {
		respondServiceError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": status,
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// ShortName is required for download_translation
	ShortName string `json:"short_name,omitempty"`
	// Force skips the catalog age check for refresh_catalog
	Force bool `json:"force,omitempty"`
}

// RunTask handles POST /api/tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	var (
		taskID string
		data   any
		err    error
	)
	switch taskType {
	case "download_translation":
		if req.ShortName == "" {
			respondBadRequest(c, "short_name is required for download_translation task")
			return
		}
		data, err = tc.dispatcher.DownloadTranslation(req.ShortName)

	case "download_strong_numbers":
		data, err = tc.dispatcher.DownloadStrongNumbers()

	case "refresh_catalog":
		taskID, err = tc.dispatcher.RefreshCatalog(req.Force)

	case "cleanup_downloads":
		taskID, err = tc.dispatcher.CleanupDownloads()

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}
	if err != nil {
		respondServiceError(c, err, "run task "+taskType)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": taskID,
		"type":    taskType,
		"job":     data,
		"message": "task enqueued",
	})
}
