package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Remote
		Catalog
		Search
		Redis
		Tasks
		Reading
		Export
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Remote struct {
		BaseURL  string // Empty disables downloads and catalog refreshes
		Timeout  time.Duration
		CacheDir string // Downloaded archives; empty means "<database dir>/downloads"
	}
	Catalog struct {
		RefreshEnabled  bool
		RefreshSchedule string        // Cron format: "0 4 * * *" = daily at 04:00
		MaxAge          time.Duration // Catalog older than this is refreshed on read
		// PreferredLanguage sorts translations of this language first, e.g. "en"
		PreferredLanguage string
	}
	Search struct {
		Debounce     time.Duration
		InstantLimit int
		CacheTTL     time.Duration
	}
	Redis struct {
		Addr      string // Empty uses the in-memory search cache
		Password  string
		DB        int
		PoolSize  int
		KeyPrefix string
	}
	Tasks struct {
		Enabled               bool
		Workers               int
		ReleaseAfter          time.Duration
		CleanupInterval       time.Duration
		DownloadRetentionDays int
	}
	Reading struct {
		ProgressThreshold time.Duration // Minimum time on a chapter before it counts as read
	}
	Export struct {
		Dir string
	}
)

// DownloadCacheDir returns the archive cache directory.
func (c *Config) DownloadCacheDir() string {
	if c.Remote.CacheDir != "" {
		return c.Remote.CacheDir
	}
	return filepath.Join(filepath.Dir(c.Database.Path), DownloadCacheDirName)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("remote_base_url", "")
	v.SetDefault("remote_timeout", "60s")
	v.SetDefault("download_cache_dir", "")

	v.SetDefault("catalog_refresh_enabled", true)
	v.SetDefault("catalog_refresh_schedule", "0 4 * * *")
	v.SetDefault("catalog_max_age", "168h")
	v.SetDefault("preferred_language", "")

	v.SetDefault("search_debounce", "250ms")
	v.SetDefault("search_instant_limit", 50)
	v.SetDefault("search_cache_ttl", "10m")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_pool_size", 10)
	v.SetDefault("redis_key_prefix", "joshua:")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("download_retention_days", 7)

	v.SetDefault("reading_progress_threshold", "3s")
	v.SetDefault("export_dir", DefaultExportDir)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Remote: Remote{
			BaseURL:  v.GetString("REMOTE_BASE_URL"),
			Timeout:  v.GetDuration("REMOTE_TIMEOUT"),
			CacheDir: v.GetString("DOWNLOAD_CACHE_DIR"),
		},
		Catalog: Catalog{
			RefreshEnabled:    v.GetBool("CATALOG_REFRESH_ENABLED"),
			RefreshSchedule:   v.GetString("CATALOG_REFRESH_SCHEDULE"),
			MaxAge:            v.GetDuration("CATALOG_MAX_AGE"),
			PreferredLanguage: v.GetString("PREFERRED_LANGUAGE"),
		},
		Search: Search{
			Debounce:     v.GetDuration("SEARCH_DEBOUNCE"),
			InstantLimit: v.GetInt("SEARCH_INSTANT_LIMIT"),
			CacheTTL:     v.GetDuration("SEARCH_CACHE_TTL"),
		},
		Redis: Redis{
			Addr:      v.GetString("REDIS_ADDR"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			PoolSize:  v.GetInt("REDIS_POOL_SIZE"),
			KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
		},
		Tasks: Tasks{
			Enabled:               v.GetBool("TASKS_ENABLED"),
			Workers:               v.GetInt("TASK_WORKERS"),
			ReleaseAfter:          v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:       v.GetDuration("TASK_CLEANUP_INTERVAL"),
			DownloadRetentionDays: v.GetInt("DOWNLOAD_RETENTION_DAYS"),
		},
		Reading: Reading{
			ProgressThreshold: v.GetDuration("READING_PROGRESS_THRESHOLD"),
		},
		Export: Export{
			Dir: v.GetString("EXPORT_DIR"),
		},
	}
}
