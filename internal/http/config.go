package http

import (
	"github.com/mrlokans/joshua/internal/app"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	App *app.App

	// Directory POST /api/export/:format writes to
	ExportDir string

	// Application info
	Version string

	// Reported by the health check
	RemoteEnabled bool
	Refresh       RefreshSchedule // nil when no scheduler runs
}
