package container

import (
	"context"
	"fmt"
	"time"

	"vinyl-collection/internal/config"
	infraCache "vinyl-collection/internal/infrastructure/cache"
	"vinyl-collection/internal/infrastructure/database"
	"vinyl-collection/internal/infrastructure/docstore"
	"vinyl-collection/internal/infrastructure/metrics"
	"vinyl-collection/pkg/cache"

	catalogDiscogs "vinyl-collection/internal/domains/catalog/discogs"
	catalogHandler "vinyl-collection/internal/domains/catalog/handler"
	catalogService "vinyl-collection/internal/domains/catalog/service"
	recordHandler "vinyl-collection/internal/domains/record/handler"
	recordRepo "vinyl-collection/internal/domains/record/repository"
	recordService "vinyl-collection/internal/domains/record/service"

	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the API process.
// Build order: config -> infrastructure -> repositories -> services -> handlers.
type Container struct {
	// Infrastructure
	Config  *config.Config
	Store   docstore.Store
	DB      *database.PostgresDB // only for STORE_DRIVER=postgres
	Cache   cache.Cache          // nil when REDIS_HOST is empty or unreachable
	Metrics *metrics.Metrics     // nil when METRICS_ENABLED=false

	// Repositories
	RecordRepo recordRepo.RepositoryInterface

	// Services
	RecordService     recordService.ServiceInterface
	BulkImportService recordService.BulkImportServiceInterface
	CatalogService    catalogService.ServiceInterface

	// Handlers
	RecordHandler  *recordHandler.Handler
	CatalogHandler *catalogHandler.Handler

	redis *infraCache.RedisCache
}

// NewContainer loads config from the environment and builds the graph
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(context.Background(), cfg)
}

// New builds the dependency graph for cfg
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")
	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DOCUMENT STORE
	// ========================================
	if err := c.initStore(ctx); err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("✅ Document store ready")

	// ========================================
	// STEP 2: CACHE + METRICS
	// ========================================
	c.initCache(ctx)
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewMetrics()
	}

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.RecordRepo = recordRepo.NewDocumentRepository(c.Store)

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.RecordHandler = recordHandler.NewHandler(c.RecordService, c.BulkImportService)
	c.CatalogHandler = catalogHandler.NewHandler(c.CatalogService)

	log.Info().Msg("✅ Container initialized")
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case docstore.DriverFile:
		store, err := docstore.NewFileStore(c.Config.Store.DataFile)
		if err != nil {
			return err
		}
		c.Store = store

	case docstore.DriverSQLite:
		store, err := docstore.NewSQLiteStore(ctx, c.Config.Store.SQLitePath)
		if err != nil {
			return err
		}
		c.Store = store

	case docstore.DriverPostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}
		db := database.NewPostgresDB(dbConfig)

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		store, err := docstore.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return err
		}
		c.DB = db
		c.Store = store

	default:
		return fmt.Errorf("unknown store driver %q", c.Config.Store.Driver)
	}
	return nil
}

// initCache connects Redis when configured. A Redis failure is not
// critical: lookups simply go uncached.
func (c *Container) initCache(ctx context.Context) {
	if c.Config.Redis.Host == "" {
		log.Info().Msg("Redis not configured, catalog lookups are not cached")
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical)")
		_ = rc.Close()
		return
	}
	c.redis = rc
	c.Cache = rc
}

func (c *Container) initServices() error {
	c.RecordService = recordService.NewRecordService(c.RecordRepo, c.Metrics)
	c.BulkImportService = recordService.NewBulkImportService(c.RecordRepo, c.Metrics)

	// A nil Searcher makes the lookup service report a configuration error
	var searcher catalogDiscogs.Searcher
	if c.Config.Discogs.Token != "" {
		client, err := catalogDiscogs.New(
			c.Config.Discogs.Token,
			catalogDiscogs.WithBaseURL(c.Config.Discogs.BaseURL),
			catalogDiscogs.WithUserAgent(c.Config.Discogs.UserAgent),
			catalogDiscogs.WithTimeout(c.Config.Discogs.Timeout),
		)
		if err != nil {
			return fmt.Errorf("discogs client: %w", err)
		}
		searcher = client
	}
	c.CatalogService = catalogService.NewLookupService(searcher, c.Cache, c.Config.Discogs.CacheTTL, c.Metrics)
	return nil
}

// Cleanup releases store and cache connections
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close document store")
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis")
		}
	}
}
