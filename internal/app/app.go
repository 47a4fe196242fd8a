// Package app assembles the managers shared by the HTTP server, the CLI and
// the MCP server.
package app

import (
	"context"
	"log"
	"time"

	"github.com/mrlokans/joshua/internal/database"
	"github.com/mrlokans/joshua/internal/database/annotations"
	"github.com/mrlokans/joshua/internal/database/downloads"
	"github.com/mrlokans/joshua/internal/database/metadata"
	"github.com/mrlokans/joshua/internal/database/progress"
	"github.com/mrlokans/joshua/internal/database/strongs"
	"github.com/mrlokans/joshua/internal/database/translations"
	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

// Source provides everything downloaded from the remote server.
type Source interface {
	services.TranslationSource
	services.StrongNumberSource
}

// Options configure New. Zero values fall back to sensible defaults.
type Options struct {
	Source Source
	// Cache stores full search results; nil disables caching.
	Cache services.SearchCache
	// Archives is the downloaded archive cache cleaned by the cleanup task; may be nil.
	Archives tasks.ArchiveCleaner
	// Tasks runs background work on the persistent queue; nil runs it inline.
	Tasks *tasks.Client

	Catalog           services.TranslationManagerConfig
	Search            services.SearcherConfig
	ProgressThreshold time.Duration
	RetentionDays     int
}

// App holds every manager of a running instance.
type App struct {
	DB *database.Database

	Reading       *services.ReadingManager
	Translations  *services.TranslationManager
	Bookmarks     *services.BookmarkManager
	Highlights    *services.HighlightManager
	Notes         *services.NoteManager
	Settings      *services.SettingsManager
	Progress      *services.ReadingProgressManager
	StrongNumbers *services.StrongNumberManager
	Detail        *services.VerseDetailService
	Searcher      *services.Searcher
	Dispatcher    *tasks.Dispatcher
	Downloads     *downloads.Repository
}

func New(db *database.Database, opts Options) *App {
	if opts.ProgressThreshold <= 0 {
		opts.ProgressThreshold = 3 * time.Second
	}

	metadataRepo := metadata.NewRepository(db.DB)
	translationsRepo := translations.NewRepository(db.DB)
	downloadsRepo := downloads.NewRepository(db.DB)

	reading := services.NewReadingManager(metadataRepo, translationsRepo, translationsRepo)
	translationManager := services.NewTranslationManager(translationsRepo, metadataRepo, opts.Source, reading, opts.Catalog)
	bookmarks := services.NewBookmarkManager(annotations.NewBookmarkRepository(db.DB), reading)
	highlights := services.NewHighlightManager(annotations.NewHighlightRepository(db.DB), reading)
	notes := services.NewNoteManager(annotations.NewNoteRepository(db.DB), reading)
	strongNumbers := services.NewStrongNumberManager(strongs.NewRepository(db.DB), opts.Source)
	searcher := services.NewSearcher(reading, opts.Cache, opts.Search)

	translationManager.OnTranslationChanged(func(shortName string) {
		if err := searcher.Invalidate(context.Background(), shortName); err != nil {
			log.Printf("Failed to invalidate search cache for %s: %v", shortName, err)
		}
	})

	dispatcher := tasks.NewDispatcher(opts.Tasks, tasks.Dependencies{
		Downloads:     downloadsRepo,
		Cleaner:       downloadsRepo,
		Archives:      opts.Archives,
		Translations:  translationManager,
		StrongNumbers: strongNumbers,
		Catalog:       translationManager,
		RetentionDays: opts.RetentionDays,
	})
	if opts.Tasks != nil {
		opts.Tasks.Register(dispatcher.Queues()...)
	}

	return &App{
		DB:            db,
		Reading:       reading,
		Translations:  translationManager,
		Bookmarks:     bookmarks,
		Highlights:    highlights,
		Notes:         notes,
		Settings:      services.NewSettingsManager(metadataRepo),
		Progress:      services.NewReadingProgressManager(progress.NewRepository(db.DB), opts.ProgressThreshold),
		StrongNumbers: strongNumbers,
		Detail:        services.NewVerseDetailService(reading, translationManager, bookmarks, highlights, notes, strongNumbers),
		Searcher:      searcher,
		Dispatcher:    dispatcher,
		Downloads:     downloadsRepo,
	}
}

// Shutdown records pending reading progress and waits for inline work and
// pending verse updates.
func (a *App) Shutdown() {
	if err := a.Progress.StopTracking(); err != nil {
		log.Printf("Failed to record reading progress: %v", err)
	}
	a.Dispatcher.Shutdown()
	a.Detail.Wait()
}
