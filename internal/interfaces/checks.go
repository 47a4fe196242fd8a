package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/cache"
	"github.com/mrlokans/joshua/internal/database/annotations"
	"github.com/mrlokans/joshua/internal/database/downloads"
	"github.com/mrlokans/joshua/internal/database/metadata"
	"github.com/mrlokans/joshua/internal/database/progress"
	"github.com/mrlokans/joshua/internal/database/strongs"
	"github.com/mrlokans/joshua/internal/database/translations"
	"github.com/mrlokans/joshua/internal/entities"
	"github.com/mrlokans/joshua/internal/exporters"
	http_controllers "github.com/mrlokans/joshua/internal/http"
	"github.com/mrlokans/joshua/internal/remote"
	"github.com/mrlokans/joshua/internal/remote/remotetest"
	"github.com/mrlokans/joshua/internal/scheduler"
	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ services.MetadataStore = (*metadata.Repository)(nil)

var (
	_ services.TranslationStore = (*translations.Repository)(nil)
	_ services.VerseStore       = (*translations.Repository)(nil)
)

var (
	_ services.AnnotationStore[entities.Bookmark]  = (*annotations.Repository[entities.Bookmark])(nil)
	_ services.AnnotationStore[entities.Highlight] = (*annotations.Repository[entities.Highlight])(nil)
	_ services.AnnotationStore[entities.Note]      = (*annotations.Repository[entities.Note])(nil)
)

var _ services.ProgressStore = (*progress.Repository)(nil)

var _ services.StrongNumberStore = (*strongs.Repository)(nil)

var (
	_ tasks.DownloadStore   = (*downloads.Repository)(nil)
	_ tasks.DownloadCleaner = (*downloads.Repository)(nil)
)

// =============================================================================
// Remote Sources and Caches
// =============================================================================

var (
	_ app.Source = (*remote.Client)(nil)
	_ app.Source = (*remotetest.Source)(nil)
)

var _ tasks.ArchiveCleaner = (*remote.ArchiveCache)(nil)

var (
	_ services.SearchCache = (*cache.MemoryCache)(nil)
	_ services.SearchCache = (*cache.RedisCache)(nil)
)

// =============================================================================
// Background Work
// =============================================================================

var (
	_ tasks.TranslationDownloader  = (*services.TranslationManager)(nil)
	_ tasks.CatalogRefresher       = (*services.TranslationManager)(nil)
	_ tasks.StrongNumberDownloader = (*services.StrongNumberManager)(nil)
)

var _ scheduler.CatalogJobs = (*tasks.Dispatcher)(nil)

var _ http_controllers.RefreshSchedule = (*scheduler.CatalogRefreshScheduler)(nil)

// =============================================================================
// Export
// =============================================================================

var (
	_ exporters.Exporter = (*exporters.MarkdownExporter)(nil)
	_ exporters.Exporter = (*exporters.EPUBExporter)(nil)
)

var (
	_ exporters.AnnotationLister = (*services.BookmarkManager)(nil)
	_ exporters.AnnotationLister = (*services.HighlightManager)(nil)
	_ exporters.AnnotationLister = (*services.NoteManager)(nil)
)
