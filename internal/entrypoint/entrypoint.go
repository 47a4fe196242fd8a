package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/app"
	"github.com/mrlokans/joshua/internal/cache"
	"github.com/mrlokans/joshua/internal/config"
	"github.com/mrlokans/joshua/internal/database"
	http_controllers "github.com/mrlokans/joshua/internal/http"
	"github.com/mrlokans/joshua/internal/remote"
	"github.com/mrlokans/joshua/internal/scheduler"
	"github.com/mrlokans/joshua/internal/services"
	"github.com/mrlokans/joshua/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Instance is an opened application: database, remote client, caches and
// the managers built on top of them.
type Instance struct {
	Config *config.Config
	DB     *database.Database
	Remote *remote.Client
	App    *app.App

	tasks   *tasks.Client
	closers []func() error
}

// OpenOptions control which optional parts Open starts.
type OpenOptions struct {
	// TaskQueue runs downloads on the persistent queue when tasks are
	// enabled in the configuration. Without it work runs inline.
	TaskQueue bool
	// Quiet silences SQL logging, for interactive commands.
	Quiet bool
}

// Open connects everything the configuration describes.
func Open(cfg *config.Config, opts OpenOptions) (*Instance, error) {
	var dbOpts []database.Option
	if opts.Quiet {
		dbOpts = append(dbOpts, database.WithLogLevel(logger.Silent))
	}
	db, err := database.NewDatabase(cfg.Database.Path, dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	inst := &Instance{Config: cfg, DB: db}

	archives, err := remote.NewArchiveCache(cfg.DownloadCacheDir())
	if err != nil {
		log.Printf("WARNING: Failed to initialize download cache: %v", err)
		archives = nil
	}
	inst.Remote = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, archives)

	appOpts := app.Options{
		Source: inst.Remote,
		Cache:  inst.searchCache(),
		Catalog: services.TranslationManagerConfig{
			MaxAge:            cfg.Catalog.MaxAge,
			PreferredLanguage: cfg.Catalog.PreferredLanguage,
		},
		Search: services.SearcherConfig{
			InstantLimit: cfg.Search.InstantLimit,
			CacheTTL:     cfg.Search.CacheTTL,
		},
		ProgressThreshold: cfg.Reading.ProgressThreshold,
		RetentionDays:     cfg.Tasks.DownloadRetentionDays,
	}
	if archives != nil {
		appOpts.Archives = archives
	}

	if opts.TaskQueue && cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			DownloadRetention: time.Duration(cfg.Tasks.DownloadRetentionDays) * 24 * time.Hour,
		}
		inst.tasks, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		inst.closers = append(inst.closers, inst.tasks.Close)
		appOpts.Tasks = inst.tasks
	}

	inst.App = app.New(db, appOpts)
	return inst, nil
}

// searchCache returns the redis cache when configured and reachable,
// otherwise an in-memory one.
func (i *Instance) searchCache() services.SearchCache {
	redisCfg := i.Config.Redis
	if redisCfg.Addr != "" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:      redisCfg.Addr,
			Password:  redisCfg.Password,
			DB:        redisCfg.DB,
			PoolSize:  redisCfg.PoolSize,
			KeyPrefix: redisCfg.KeyPrefix,
		})
		if err == nil {
			log.Printf("Search cache: redis at %s", redisCfg.Addr)
			i.closers = append(i.closers, redisCache.Close)
			return redisCache
		}
		log.Printf("WARNING: Redis unavailable, using in-memory search cache: %v", err)
	}
	memoryCache := cache.NewMemoryCache()
	i.closers = append(i.closers, memoryCache.Close)
	return memoryCache
}

// StartTasks starts the queue workers, if the queue is enabled. They stop
// when ctx is cancelled.
func (i *Instance) StartTasks(ctx context.Context) {
	if i.tasks == nil {
		return
	}
	go i.tasks.Start(ctx)
}

// StopTasks waits for running tasks until ctx expires.
func (i *Instance) StopTasks(ctx context.Context) {
	if i.tasks == nil {
		return
	}
	i.tasks.Stop(ctx)
}

// Close shuts down the managers and releases every resource.
func (i *Instance) Close() {
	i.App.Shutdown()
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}
	if err := i.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	if cfg.Remote.BaseURL == "" {
		log.Printf("WARNING: Remote base URL is not set. Translation and Strong's number downloads will be disabled. Set 'REMOTE_BASE_URL' environment variable to enable.")
	}

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalf("Export directory %s is not writable: %v", cfg.Export.Dir, err)
		return
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Joshua v%s", version)

	inst, err := Open(cfg, OpenOptions{TaskQueue: true})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer inst.Close()

	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	defer taskCtxCancel()
	inst.StartTasks(taskCtx)

	refresh := scheduler.NewCatalogRefreshScheduler(inst.App.Dispatcher, scheduler.Config{
		Enabled:  cfg.Catalog.RefreshEnabled && inst.Remote.Enabled(),
		Schedule: cfg.Catalog.RefreshSchedule,
	})
	if err := refresh.Start(taskCtx); err != nil {
		log.Printf("WARNING: Failed to start catalog refresh scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		App:           inst.App,
		ExportDir:     cfg.Export.Dir,
		Version:       version,
		RemoteEnabled: inst.Remote.Enabled(),
		Refresh:       refresh,
	})

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		refresh.Stop()
		inst.StopTasks(ctx)
		taskCtxCancel()
	}

	Serve(router, cfg, onShutdown)
}
