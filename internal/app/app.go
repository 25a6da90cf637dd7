// Package app assembles the service graph: storage, index, scoring
// configuration, search, bulk jobs, refresh, and the HTTP handlers.
package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/handlers"
	"github.com/ternarybob/vigil/internal/index"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/models"
	"github.com/ternarybob/vigil/internal/scorer"
	"github.com/ternarybob/vigil/internal/services/jobs"
	"github.com/ternarybob/vigil/internal/services/refresh"
	"github.com/ternarybob/vigil/internal/services/search"
	badgerstore "github.com/ternarybob/vigil/internal/storage/badger"
	"github.com/ternarybob/vigil/internal/storage/s3"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Index         *index.Index
	ScoringConfig *scorer.Holder

	SearchService  *search.Service
	JobManager     *jobs.Manager
	RefreshService *refresh.Service

	ObjectStore interfaces.ObjectStore
	EntityCache interfaces.EntityCache

	// Handlers
	APIHandler    *handlers.APIHandler
	SearchHandler *handlers.SearchHandler
	JobHandler    *handlers.JobHandler
	ConfigHandler *handlers.ConfigHandler

	db *badgerstore.BadgerDB
}

// New builds the application from configuration. Watchlist loaders come
// from cfg.Refresh.Lists; with none configured the service runs on
// cached data only.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.Index = index.New()
	a.ScoringConfig = scorer.NewHolder(cfg.Screening)

	// Object store is optional: without S3 credentials only inline bulk
	// jobs work, and their artifacts cannot be persisted.
	if cfg.Storage.S3.Endpoint != "" {
		store, err := s3.NewClient(cfg.Storage.S3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		a.ObjectStore = store
	}

	db, err := badgerstore.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open entity cache: %w", err)
	}
	a.db = db
	a.EntityCache = badgerstore.NewEntityStorage(db, logger)

	a.SearchService = search.NewService(a.Index, a.ScoringConfig, logger)
	a.JobManager = jobs.NewManager(a.SearchService, a.ObjectStore, jobs.Config{
		ResultsBucket:    cfg.Jobs.ResultsBucket,
		ChunkSize:        cfg.Jobs.ChunkSize,
		ChunkConcurrency: cfg.Jobs.ChunkConcurrency,
		MaxWorkers:       cfg.Jobs.MaxWorkers,
	}, logger)
	loaders, err := a.buildLoaders(cfg.Refresh.Lists)
	if err != nil {
		return nil, err
	}
	a.RefreshService = refresh.NewService(loaders, a.Index, a.EntityCache, cfg.Refresh, logger)

	a.APIHandler = handlers.NewAPIHandler(a.Index, a.JobManager, a.RefreshService)
	a.SearchHandler = handlers.NewSearchHandler(a.SearchService, logger)
	a.JobHandler = handlers.NewJobHandler(a.JobManager, logger)
	a.ConfigHandler = handlers.NewConfigHandler(a.ScoringConfig, logger)

	return a, nil
}

// buildLoaders turns list configuration entries into loaders. Object
// store entries require S3 to be configured.
func (a *App) buildLoaders(lists []common.ListConfig) ([]interfaces.ListLoader, error) {
	loaders := make([]interfaces.ListLoader, 0, len(lists))
	for _, lc := range lists {
		source := models.SourceList(lc.Source)
		switch {
		case lc.Path != "":
			loaders = append(loaders, refresh.NewFileLoader(source, lc.Path))
		case lc.Bucket != "" && lc.Key != "":
			if a.ObjectStore == nil {
				return nil, fmt.Errorf("list %s needs an object store but none is configured", lc.Source)
			}
			loaders = append(loaders, refresh.NewObjectLoader(source, a.ObjectStore, lc.Bucket, lc.Key))
		default:
			return nil, fmt.Errorf("list %s has neither path nor bucket/key", lc.Source)
		}
	}
	return loaders, nil
}

// Start launches the background services.
func (a *App) Start(ctx context.Context) error {
	if a.Config.Refresh.Enabled {
		if err := a.RefreshService.Start(ctx, a.Config.Refresh.Schedule); err != nil {
			return fmt.Errorf("failed to start refresh service: %w", err)
		}
	} else {
		a.RefreshService.Warm()
		a.Logger.Info().Msg("Refresh disabled; serving cached data only")
	}
	return nil
}

// Shutdown stops background work and closes storage.
func (a *App) Shutdown() {
	a.RefreshService.Stop()
	a.JobManager.Stop()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close entity cache")
		}
	}
	a.Logger.Info().Msg("Application shutdown complete")
}
