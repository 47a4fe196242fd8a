package config

const (
	// DefaultDatabasePath is the default path of the application database.
	DefaultDatabasePath = "./joshua.db"

	// DefaultExportDir is where markdown and EPUB exports are written.
	DefaultExportDir = "./exports"

	// DownloadCacheDirName is the archive cache directory created next to
	// the database when DOWNLOAD_CACHE_DIR is not set.
	DownloadCacheDirName = "downloads"
)
