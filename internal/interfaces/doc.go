// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - MetadataStore: Reading position and preferences (internal/services/interfaces.go)
//   - TranslationStore: Catalog and installed translations (internal/services/interfaces.go)
//   - VerseStore: Verse text and book names (internal/services/interfaces.go)
//   - AnnotationStore[T]: Bookmarks, highlights and notes (internal/services/interfaces.go)
//   - ProgressStore: Chapter reading progress and streak (internal/services/interfaces.go)
//   - StrongNumberStore: Strong's concordance (internal/services/interfaces.go)
//   - DownloadStore: Download job records (internal/tasks/tracker.go)
//
// ## External Service Interfaces
//
//   - TranslationSource: Catalog and translation archives (internal/services/interfaces.go)
//   - StrongNumberSource: Strong's number archives (internal/services/interfaces.go)
//   - SearchCache: Full search results (internal/services/interfaces.go)
//
// ## Background Work Interfaces
//
//   - TranslationDownloader, StrongNumberDownloader, CatalogRefresher (internal/tasks/)
//   - DownloadCleaner, ArchiveCleaner: Retention cleanup (internal/tasks/tracker.go)
//   - CatalogJobs: Jobs enqueued by the cron scheduler (internal/scheduler/catalog_refresh.go)
//
// ## Export Interfaces
//
//   - AnnotationLister: Grouped annotation lists (internal/exporters/generic.go)
//   - Exporter: Writes a Document to a file (internal/exporters/generic.go)
//
// # Adding a New Translation Source
//
// A source serves the catalog, translation archives and Strong's numbers.
// To read them from somewhere other than the archive server:
//
//  1. Implement app.Source in internal/remote/
//
//     type MirrorClient struct {
//         root string
//     }
//
//     func (c *MirrorClient) Enabled() bool
//     func (c *MirrorClient) FetchTranslationList(ctx context.Context) ([]entities.TranslationInfo, error)
//     func (c *MirrorClient) FetchTranslation(ctx context.Context, info entities.TranslationInfo, progress chan<- int) (*RemoteTranslation, error)
//     func (c *MirrorClient) FetchStrongNumberVerses(ctx context.Context, progress chan<- int) (map[entities.VerseIndex][]int, error)
//     func (c *MirrorClient) FetchStrongNumberWords(ctx context.Context, progress chan<- int) (*StrongNumberWords, error)
//
//     var _ app.Source = (*MirrorClient)(nil)
//
//  2. Pass it as app.Options.Source in entrypoint.Open
//
// # Adding a New Search Cache
//
//  1. Implement SearchCache in internal/cache/
//
//     func (c *MemcachedCache) Get(ctx context.Context, key string, dest any) (bool, error)
//     func (c *MemcachedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error
//     func (c *MemcachedCache) DeletePrefix(ctx context.Context, prefix string) error
//
//  2. Select it in entrypoint.Open next to the Redis and memory caches
//
// # Adding a New Export Format
//
//  1. Implement Exporter in internal/exporters/
//
//     type JSONExporter struct { exportDir string }
//
//     func (e *JSONExporter) Export(doc *Document) (ExportResult, error)
//
//  2. Register it in the export controller (internal/http/export.go) and
//     the export command (internal/cli/library.go)
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add its entities to the AutoMigrate list in internal/database/database.go
//
//  4. Add compile-time check:
//
//     var _ services.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the checks of this codebase.
package interfaces
