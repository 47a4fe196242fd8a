// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── metadata/        # Key/value reading state and preferences
//	├── translations/    # Translation catalog, book names and verse text
//	├── annotations/     # Bookmarks, highlights and notes (generic repository)
//	├── progress/        # Per-chapter reading progress and reading streak
//	├── strongs/         # Strong's number verses and lexicon words
//	└── downloads/       # Background download progress tracking
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./joshua.db")
//
//	translationsRepo := translations.NewRepository(db.DB)
//	bookmarksRepo := annotations.NewBookmarkRepository(db.DB)
//
//	verses, err := translationsRepo.ReadVerses("KJV", 0, 0)
//	bookmarks, err := bookmarksRepo.Read(entities.SortByDate)
//
// # Interface Implementations
//
// Sub-packages implement the store interfaces declared by their consumers:
//
//   - translations.Repository: implements services.TranslationStore and services.VerseStore
//   - annotations.Repository[T]: implements services.AnnotationStore[T]
//   - downloads.Repository: implements tasks.DownloadTracker
//
// Compile-time checks live in internal/interfaces.
package database
