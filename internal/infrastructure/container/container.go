package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/kindred-backend/internal/config"
	"github.com/gdugdh24/kindred-backend/internal/delivery/http"
	"github.com/gdugdh24/kindred-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/kindred-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/database"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/kindred-backend/internal/infrastructure/server"
	"github.com/gdugdh24/kindred-backend/internal/repository"
	"github.com/gdugdh24/kindred-backend/internal/repository/memory"
	"github.com/gdugdh24/kindred-backend/internal/repository/postgres"
	"github.com/gdugdh24/kindred-backend/internal/usecase/discovery"
	"github.com/gdugdh24/kindred-backend/internal/usecase/notification"
	"github.com/gdugdh24/kindred-backend/internal/usecase/profile"
	"github.com/gdugdh24/kindred-backend/internal/usecase/social"
	"github.com/gdugdh24/kindred-backend/internal/usecase/swipe"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Gemini *gemini.GeminiClient
	Store  repository.Store
	Router *gin.Engine
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	pingers := map[string]handler.Pinger{}

	// Initialize storage
	switch cfg.Storage.Type {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		c.Store = memory.New().Store()
	default:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.Store = postgres.NewStore(db)
		pingers["postgres"] = db
	}

	// Initialize quota cache
	var quotaCache cache.QuotaCache
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		quotaCache = cache.NewRedisQuotaCache(redisClient)
		pingers["redis"] = database.RedisPinger{Client: redisClient}
	} else {
		quotaCache = cache.NewMemoryQuotaCache(nil)
	}

	// Initialize Gemini client; match notifications fall back to static icebreakers without it
	var icebreakers notification.IcebreakerGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini client unavailable, using static icebreakers", "error", err)
		} else {
			c.Gemini = geminiClient
			icebreakers = geminiClient
		}
	}

	d := cfg.Discovery

	// Initialize use cases
	notificationUseCase := notification.NewNotificationUseCase(
		c.Store.Notifications,
		c.Store.Profiles,
		icebreakers,
		logger,
		d.StoreTimeout,
	)

	candidatePool := discovery.NewCandidatePool(c.Store, discovery.Options{
		DefaultRadiusKm: d.DefaultRadiusKm,
		MaxRadiusKm:     d.MaxRadiusKm,
		PageSize:        d.PageSize,
		DefaultLimit:    d.DefaultListLimit,
		Timeout:         d.StoreTimeout,
	}, logger)

	swipeUseCase := swipe.NewSwipeUseCase(c.Store, quotaCache, notificationUseCase, swipe.Options{
		DailyLikeLimit:  d.DailyLikeLimit,
		QuotaWindow:     d.QuotaWindow,
		QuotaRetryDelay: d.QuotaRetryDelay,
		Timeout:         d.StoreTimeout,
	}, logger)

	socialUseCase := social.NewSocialUseCase(c.Store, notificationUseCase, d.StoreTimeout, logger)
	profileUseCase := profile.NewProfileUseCase(c.Store, d.StoreTimeout)

	// Initialize handlers
	if err := handler.RegisterValidators(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	router := http.NewRouter(
		handler.NewHealthHandler(pingers, logger),
		handler.NewProfileHandler(profileUseCase, logger),
		handler.NewDiscoveryHandler(candidatePool, logger),
		handler.NewSwipeHandler(swipeUseCase, logger),
		handler.NewSocialHandler(socialUseCase, logger),
		handler.NewNotificationHandler(notificationUseCase, logger),
		middleware.NewAuthMiddleware(cfg.JWT.AccessSecret),
		logger,
	)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	c.Router = router.Setup()
	c.Server = server.NewServer(&cfg.Server, c.Router, logger)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close gemini client: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
