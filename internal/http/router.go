package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	a := cfg.App

	health := NewHealthController(a.DB, cfg.Version, cfg.RemoteEnabled, a.Dispatcher.QueueEnabled(), cfg.Refresh)
	translations := NewTranslationsController(a.Translations, a.Dispatcher)
	reading := NewReadingController(a.Reading, a.Settings)
	verses := NewVerseDetailController(a.Detail, a.Reading)
	search := NewSearchController(a.Searcher)
	settings := NewSettingsController(a.Settings)
	progress := NewProgressController(a.Progress)
	strongs := NewStrongsController(a.StrongNumbers, a.Dispatcher)
	tasksController := NewTasksController(a.Dispatcher)
	export := NewExportController(a.Bookmarks, a.Highlights, a.Notes, cfg.ExportDir)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Translations and downloads
	api.GET("/translations", translations.List)
	api.POST("/translations/:shortName/download", translations.Download)
	api.DELETE("/translations/:shortName", translations.Remove)
	api.GET("/downloads", translations.ListDownloads)
	api.GET("/downloads/:id", translations.GetDownload)

	// Reading position and parallel translations
	api.GET("/reading/current", reading.GetCurrent)
	api.PUT("/reading/current", reading.PutCurrent)
	api.GET("/reading/parallel", reading.GetParallel)
	api.DELETE("/reading/parallel", reading.ClearParallel)
	api.PUT("/reading/parallel/:shortName", reading.PutParallel)
	api.DELETE("/reading/parallel/:shortName", reading.DeleteParallel)

	// Text
	api.GET("/books", reading.Books)
	api.GET("/verses/:book/:chapter", reading.Verses)
	api.POST("/verses/share", reading.Share)
	api.GET("/verses/:book/:chapter/:verse/detail", verses.Detail)
	api.PUT("/verses/:book/:chapter/:verse/bookmark", verses.ToggleBookmark)
	api.PUT("/verses/:book/:chapter/:verse/highlight", verses.UpdateHighlight)
	api.PUT("/verses/:book/:chapter/:verse/note", verses.UpdateNote)
	api.GET("/search", search.Search)

	// Annotations
	NewBookmarksController(a.Bookmarks).Register(api.Group("/bookmarks"))
	NewHighlightsController(a.Highlights).Register(api.Group("/highlights"))
	NewNotesController(a.Notes).Register(api.Group("/notes"))

	// Settings and reading progress
	api.GET("/settings", settings.GetSettings)
	api.PUT("/settings", settings.UpdateSettings)
	api.GET("/progress", progress.GetProgress)
	api.POST("/progress/start", progress.Start)
	api.POST("/progress/stop", progress.Stop)

	// Strong's numbers
	api.POST("/strongs/download", strongs.Download)
	api.GET("/strongs/:book/:chapter/:verse", strongs.Get)

	// Task queue endpoints
	api.GET("/tasks/types", tasksController.ListTaskTypes)
	api.POST("/tasks/:type/run", tasksController.RunTask)
	api.GET("/tasks/:id", tasksController.GetTaskStatus)

	// Export
	api.GET("/export/markdown", export.Markdown)
	api.POST("/export/:format", export.Export)

	return router
}
