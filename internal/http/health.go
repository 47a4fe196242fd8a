package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/joshua/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// RefreshSchedule reports the state of the catalog refresh scheduler.
type RefreshSchedule interface {
	IsRunning() bool
	GetNextRunTime() *time.Time
}

type HealthController struct {
	db            *database.Database
	version       string
	remoteEnabled bool
	queueEnabled  bool
	refresh       RefreshSchedule
}

func NewHealthController(db *database.Database, version string, remoteEnabled, queueEnabled bool, refresh RefreshSchedule) *HealthController {
	return &HealthController{
		db:            db,
		version:       version,
		remoteEnabled: remoteEnabled,
		queueEnabled:  queueEnabled,
		refresh:       refresh,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	checks["remote"] = enabledString(h.remoteEnabled)
	checks["task_queue"] = enabledString(h.queueEnabled)
	checks["catalog_refresh"] = h.refreshStatus()

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) refreshStatus() string {
	if h.refresh == nil || !h.refresh.IsRunning() {
		return "disabled"
	}
	if next := h.refresh.GetNextRunTime(); next != nil {
		return "next run " + next.Format(time.RFC3339)
	}
	return "enabled"
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
