package container

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/proximity-backend/internal/area"
	"github.com/gdugdh24/proximity-backend/internal/config"
	"github.com/gdugdh24/proximity-backend/internal/delivery/http"
	"github.com/gdugdh24/proximity-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/proximity-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/proximity-backend/internal/geo"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/database"
	"github.com/gdugdh24/proximity-backend/internal/infrastructure/server"
	"github.com/gdugdh24/proximity-backend/internal/pkg/logger"
	"github.com/gdugdh24/proximity-backend/internal/repository"
	"github.com/gdugdh24/proximity-backend/internal/repository/memory"
	"github.com/gdugdh24/proximity-backend/internal/repository/postgres"
	"github.com/gdugdh24/proximity-backend/internal/usecase/auth"
	"github.com/gdugdh24/proximity-backend/internal/usecase/crossedpath"
	"github.com/gdugdh24/proximity-backend/internal/usecase/location"
	"github.com/gdugdh24/proximity-backend/internal/usecase/mapcard"
	"github.com/gdugdh24/proximity-backend/internal/usecase/privacy"
	"github.com/gdugdh24/proximity-backend/internal/usecase/retention"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Log       *logger.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Server    *server.Server
	Location  *location.LocationUseCase
	Scheduler *retention.Scheduler
}

type repositories struct {
	locations    repository.LocationRepository
	privacy      repository.PrivacyRepository
	crossedPaths repository.CrossedPathRepository
	users        repository.UserRepository
	areas        repository.AreaRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	repos, err := c.initRepositories()
	if err != nil {
		return nil, err
	}

	kv, err := c.initCache()
	if err != nil {
		c.Close()
		return nil, err
	}

	// Initialize use cases
	p := cfg.Proximity
	areaResolver := area.NewResolver(repos.areas, p.AreaMaxDistanceKm)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := areaResolver.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load areas: %w", err)
	}

	crossedPathUseCase := crossedpath.NewCrossedPathUseCase(
		repos.locations,
		repos.crossedPaths,
		repos.privacy,
		areaResolver,
		p,
		log,
	)

	locationUseCase := location.NewLocationUseCase(
		repos.locations,
		repos.privacy,
		repos.users,
		areaResolver,
		crossedPathUseCase,
		kv,
		geo.NewNoiser(nil, p.NoiseDegrees),
		p,
		log,
	)

	mapCardUseCase := mapcard.NewMapCardUseCase(
		repos.locations,
		repos.privacy,
		repos.users,
		locationUseCase,
		kv,
		p,
		log,
	)

	privacyUseCase := privacy.NewPrivacyUseCase(
		repos.privacy,
		kv,
		log,
	)

	sweeper := retention.NewSweeper(
		repos.locations,
		repos.crossedPaths,
		cfg.Retention.BatchSize,
		log,
	)

	// Initialize handlers
	locationHandler := handler.NewLocationHandler(locationUseCase)
	privacyHandler := handler.NewPrivacyHandler(privacyUseCase)
	proximityHandler := handler.NewProximityHandler(crossedPathUseCase, mapCardUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(auth.NewTokenVerifier(cfg.JWT.AccessSecret))

	// Initialize router
	router := http.NewRouter(
		locationHandler,
		privacyHandler,
		proximityHandler,
		authMiddleware,
		log,
	)

	c.Server = server.NewServer(&cfg.Server, router.Setup(), log)
	c.Location = locationUseCase
	c.Scheduler = retention.NewScheduler(sweeper, cfg.Retention.Interval, log)
	return c, nil
}

func (c *Container) initRepositories() (*repositories, error) {
	if c.Config.Storage.Type == config.StorageTypeMemory {
		c.Log.Warn("using in-memory storage; data is lost on restart")
		return &repositories{
			locations:    memory.NewLocationRepository(),
			privacy:      memory.NewPrivacyRepository(),
			crossedPaths: memory.NewCrossedPathRepository(),
			users:        memory.NewUserRepository(),
			areas:        memory.NewAreaRepository(area.Builtin()...),
		}, nil
	}

	// Initialize database
	db, err := database.NewPostgresDB(&c.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		c.Close()
		return nil, err
	}

	return &repositories{
		locations:    postgres.NewLocationRepository(db),
		privacy:      postgres.NewPrivacyRepository(db),
		crossedPaths: postgres.NewCrossedPathRepository(db),
		users:        postgres.NewUserRepository(db),
		areas:        postgres.NewAreaRepository(db),
	}, nil
}

func (c *Container) initCache() (cache.Cache, error) {
	if c.Config.Cache.Type == config.CacheTypeMemory {
		return cache.NewMemoryCache(), nil
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&c.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = redisClient
	return cache.NewRedisCache(redisClient), nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Error("error closing redis", "error", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
